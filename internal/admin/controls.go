package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/BibaPutt/vibeathon-arena/internal/game"
)

// ErrInvalidQualifyCount rejects non-positive cutoffs.
var ErrInvalidQualifyCount = errors.New("qualify count must be at least 1")

// DefaultExtension is the time added per "+5 minutes" press.
const DefaultExtension = 300

// Controls issues the admin-originated actions. There is no privileged path
// in the reducer; gating who may call these lives at the facade.
type Controls struct {
	dispatcher game.Dispatcher
	clock      clockwork.Clock
}

// NewControls creates the admin control surface.
func NewControls(dispatcher game.Dispatcher, clock clockwork.Clock) *Controls {
	return &Controls{dispatcher: dispatcher, clock: clock}
}

// ResetPlayer restores one player to the default shape, keeping the id.
func (c *Controls) ResetPlayer(ctx context.Context, playerID string) {
	c.dispatcher.Dispatch(ctx, game.Action{Type: game.ActionResetPlayer, PlayerID: playerID})
}

// ResetAll restores every player to the default shape.
func (c *Controls) ResetAll(ctx context.Context) {
	c.dispatcher.Dispatch(ctx, game.Action{Type: game.ActionResetAll})
}

// ResetEverything replaces the entire store with fresh defaults, clearing
// identity on this device too.
func (c *Controls) ResetEverything(ctx context.Context) {
	c.dispatcher.Dispatch(ctx, game.Action{Type: game.ActionResetEverything})
}

// ExtendTime adds extraSeconds to the global timer duration. The extension
// is retroactive: every in-progress deadline shifts because deadlines are
// derived from startTime plus the current duration.
func (c *Controls) ExtendTime(ctx context.Context, extraSeconds int) {
	c.dispatcher.Dispatch(ctx, game.Action{Type: game.ActionExtendTime, ExtraSeconds: extraSeconds})
}

// SetQualifyCount changes the qualification cutoff.
func (c *Controls) SetQualifyCount(ctx context.Context, count int) error {
	if count < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidQualifyCount, count)
	}
	c.dispatcher.Dispatch(ctx, game.Action{Type: game.ActionSetQualifyCount, Count: count})
	return nil
}

// StartRound marks the round active with the current time.
func (c *Controls) StartRound(ctx context.Context) {
	c.dispatcher.Dispatch(ctx, game.Action{
		Type:             game.ActionStartRound,
		RoundStartTimeMs: c.clock.Now().UnixMilli(),
	})
}

// EndRound marks the round inactive.
func (c *Controls) EndRound(ctx context.Context) {
	c.dispatcher.Dispatch(ctx, game.Action{Type: game.ActionEndRound})
}

// AddPlayer extends the roster with a new default player. Adding an
// existing id is a no-op.
func (c *Controls) AddPlayer(ctx context.Context, playerID string) {
	c.dispatcher.Dispatch(ctx, game.Action{Type: game.ActionAddPlayer, PlayerID: playerID})
}
