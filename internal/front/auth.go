package front

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/BibaPutt/vibeathon-arena/internal/game"
	"github.com/BibaPutt/vibeathon-arena/internal/models"
	syncpkg "github.com/BibaPutt/vibeathon-arena/internal/sync"
)

var (
	// ErrInvalidCode means the input holds neither the admin code nor any
	// digits.
	ErrInvalidCode = errors.New("invalid login code")
	// ErrServerUnavailable means the shared document could not be fetched,
	// so membership cannot be validated.
	ErrServerUnavailable = errors.New("cannot reach game server")
	// ErrPlayerNotFound means the id is not in the current roster.
	ErrPlayerNotFound = errors.New("player id not found")
	// ErrAlreadyActive rejects a second login for a player mid-game.
	ErrAlreadyActive = errors.New("player already in an active session")
	// ErrEliminated rejects login for an eliminated player.
	ErrEliminated = errors.New("player has been eliminated")
	// ErrCompleted rejects login for a player who already finished.
	ErrCompleted = errors.New("player has already completed")
)

// Auth validates login codes against the freshest roster it can get and
// dispatches the identity actions.
type Auth struct {
	dispatcher game.Dispatcher
	gw         syncpkg.Gateway
	adminCode  string
}

// NewAuth creates the login service.
func NewAuth(dispatcher game.Dispatcher, gw syncpkg.Gateway, adminCode string) *Auth {
	return &Auth{dispatcher: dispatcher, gw: gw, adminCode: adminCode}
}

// LoginResult reports who the device is now logged in as.
type LoginResult struct {
	Role     string `json:"role"` // "admin" or "player"
	PlayerID string `json:"playerId,omitempty"`
}

// Login resolves a raw code to an identity. The exact admin code logs the
// device in as admin. Anything else is treated as a player id: non-digits
// are stripped and the rest is left-padded to three digits, so "7", "007"
// and "VB-007" all resolve to player 007.
//
// Player validation runs against a fresh fetch of the shared document, not
// the possibly-stale local copy, and rejects ids that are unknown, already
// mid-game on another device, eliminated, or completed.
func (a *Auth) Login(ctx context.Context, code string) (LoginResult, error) {
	code = strings.TrimSpace(code)

	if code == a.adminCode {
		a.dispatcher.Dispatch(ctx, game.Action{Type: game.ActionLoginAdmin})
		log.Info().Msg("admin logged in")
		return LoginResult{Role: "admin"}, nil
	}

	id := normalizePlayerID(code)
	if id == "" {
		return LoginResult{}, ErrInvalidCode
	}

	remote, err := a.gw.FetchShared(ctx)
	if err != nil {
		return LoginResult{}, fmt.Errorf("%w: %v", ErrServerUnavailable, err)
	}

	var p *models.Player
	if remote != nil {
		for i := range remote.Players {
			if remote.Players[i].ID == id {
				p = &remote.Players[i]
				break
			}
		}
	}
	if p == nil {
		return LoginResult{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}

	switch p.Status {
	case models.StatusPlaying, models.StatusSelecting:
		return LoginResult{}, fmt.Errorf("%w: %s", ErrAlreadyActive, id)
	case models.StatusEliminated:
		return LoginResult{}, fmt.Errorf("%w: %s", ErrEliminated, id)
	case models.StatusCompleted:
		return LoginResult{}, fmt.Errorf("%w: %s", ErrCompleted, id)
	}

	a.dispatcher.Dispatch(ctx, game.Action{Type: game.ActionLoginPlayer, PlayerID: id})
	log.Info().Str("player_id", id).Msg("player logged in")
	return LoginResult{Role: "player", PlayerID: id}, nil
}

// Logout clears the device identity.
func (a *Auth) Logout(ctx context.Context) {
	a.dispatcher.Dispatch(ctx, game.Action{Type: game.ActionLogout})
	log.Info().Msg("logged out")
}

// normalizePlayerID strips non-digits and left-pads to three digits.
// Returns "" when no digits remain.
func normalizePlayerID(code string) string {
	var digits strings.Builder
	for _, r := range code {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	id := digits.String()
	if id == "" {
		return ""
	}
	for len(id) < 3 {
		id = "0" + id
	}
	return id
}
