// Package arena runs the per-player interaction machine: problem
// assignment, drag accounting against a finite move budget, cooldown
// enforcement, the elimination countdown, and solution verification.
package arena

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/BibaPutt/vibeathon-arena/internal/catalog"
	"github.com/BibaPutt/vibeathon-arena/internal/game"
	"github.com/BibaPutt/vibeathon-arena/internal/models"
	"github.com/BibaPutt/vibeathon-arena/internal/session"
)

var (
	// ErrUnknownPlayer means the id does not exist in the roster.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrNotPlaying means the player hasn't reached the drag arena yet.
	ErrNotPlaying = errors.New("player is not in the playing phase")
	// ErrNoSession means no arena session was started for the player.
	ErrNoSession = errors.New("no active arena session")
	// ErrLocked rejects interaction after commit or elimination.
	ErrLocked = errors.New("arena is locked")
	// ErrCooldown rejects moves while the cooldown is running.
	ErrCooldown = errors.New("moves are in cooldown")
	// ErrNotAcknowledged rejects moves before the briefing is dismissed.
	ErrNotAcknowledged = errors.New("briefing not acknowledged")
)

// Tuning holds the engine's timing knobs.
type Tuning struct {
	Cooldown time.Duration // lock-out after the move budget is exhausted
	Tick     time.Duration // countdown/cooldown check interval
}

// DefaultTuning matches the original game: 30 s cooldown, 250 ms ticks.
func DefaultTuning() Tuning {
	return Tuning{Cooldown: 30 * time.Second, Tick: 250 * time.Millisecond}
}

// Engine manages arena sessions for the players active on this device.
type Engine struct {
	dispatcher game.Dispatcher
	bank       *catalog.Catalog
	store      session.Store
	clock      clockwork.Clock
	tuning     Tuning

	mu     sync.Mutex
	rng    *rand.Rand
	active map[string]*Session
}

// NewEngine creates an arena engine. The rng seeds problem selection and
// fragment shuffling; inject a fixed-seed source in tests.
func NewEngine(dispatcher game.Dispatcher, bank *catalog.Catalog, store session.Store, clock clockwork.Clock, rng *rand.Rand, tuning Tuning) *Engine {
	return &Engine{
		dispatcher: dispatcher,
		bank:       bank,
		store:      store,
		clock:      clock,
		tuning:     tuning,
		rng:        rng,
		active:     make(map[string]*Session),
	}
}

// StartSession enters the drag arena for a player. First entry assigns a
// random problem matching the player's difficulty and language and starts
// the countdown; re-entry reloads the assigned problem and restores the
// saved arrangement when one exists, reshuffling otherwise.
//
// A catalog with no matching problems returns catalog.ErrNoMatch: a
// blocking condition, not an elimination.
func (e *Engine) StartSession(ctx context.Context, playerID string) (*Session, error) {
	state := e.dispatcher.State()
	p := state.FindPlayer(playerID)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	if phase := game.PhaseFor(*p); phase != game.PhasePlaying {
		return nil, fmt.Errorf("%w: phase is %s", ErrNotPlaying, phase)
	}

	e.mu.Lock()
	if sess, ok := e.active[playerID]; ok {
		e.mu.Unlock()
		return sess, nil
	}
	e.mu.Unlock()

	var (
		problem models.Problem
		arr     models.Arrangement
	)

	if p.AssignedProblemID != "" {
		assigned, ok := e.bank.ByID(p.AssignedProblemID)
		if !ok {
			return nil, fmt.Errorf("%w: assigned problem %q missing from bank", catalog.ErrNoMatch, p.AssignedProblemID)
		}
		problem = assigned
		arr = e.restoreArrangement(ctx, playerID, problem)
	} else {
		chosen, err := e.pickProblem(p.Difficulty, p.Language)
		if err != nil {
			return nil, err
		}
		problem = chosen
		arr = models.Arrangement{Fragments: e.shuffle(problem.CodeChunks)}

		e.dispatcher.Dispatch(ctx, game.Action{
			Type:         game.ActionAssignProblem,
			PlayerID:     playerID,
			ProblemID:    problem.ID,
			AllowedMoves: problem.AllowedMoves,
		})
		e.dispatcher.Dispatch(ctx, game.Action{
			Type:        game.ActionStartPlaying,
			PlayerID:    playerID,
			StartTimeMs: e.clock.Now().UnixMilli(),
		})
	}

	sess := &Session{
		engine:    e,
		playerID:  playerID,
		problem:   problem,
		fragments: arr.Fragments,
		solution:  arr.Solution,
	}

	e.mu.Lock()
	e.active[playerID] = sess
	e.mu.Unlock()

	if err := e.store.SaveArrangement(ctx, playerID, arr); err != nil {
		log.Warn().Err(err).Str("player_id", playerID).Msg("failed to persist arrangement")
	}

	log.Info().
		Str("player_id", playerID).
		Str("problem_id", problem.ID).
		Int("allowed_moves", problem.AllowedMoves).
		Msg("arena session started")
	return sess, nil
}

// Session returns the active session for a player, if any.
func (e *Engine) Session(playerID string) (*Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sess, ok := e.active[playerID]
	return sess, ok
}

// CloseSession drops the in-memory session, e.g. on logout. The saved
// arrangement stays so a later login can resume.
func (e *Engine) CloseSession(playerID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.active, playerID)
}

// RunTimers drives the countdown and cooldown clocks for every active
// session until ctx is cancelled. Deadlines are recomputed on every tick so
// admin time extensions apply retroactively to in-progress players.
func (e *Engine) RunTimers(ctx context.Context) error {
	ticker := e.clock.NewTicker(e.tuning.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("arena timers shutting down")
			return nil
		case <-ticker.Chan():
			e.tick(ctx)
		}
	}
}

// tick advances every active session against the shared state.
func (e *Engine) tick(ctx context.Context) {
	state := e.dispatcher.State()
	now := e.clock.Now().UnixMilli()

	e.mu.Lock()
	sessions := make([]*Session, 0, len(e.active))
	for _, sess := range e.active {
		sessions = append(sessions, sess)
	}
	e.mu.Unlock()

	for _, sess := range sessions {
		p := state.FindPlayer(sess.playerID)
		if p == nil {
			continue
		}

		// An admin reset while the session was open: drop the stale session
		// and its saved arrangement so the player restarts clean.
		if p.AssignedProblemID == "" && p.Status == models.StatusIdle {
			e.CloseSession(sess.playerID)
			if err := e.store.ClearArrangement(ctx, sess.playerID); err != nil {
				log.Warn().Err(err).Str("player_id", sess.playerID).Msg("failed to clear arrangement after reset")
			}
			continue
		}

		if p.Status == models.StatusPlaying && p.StartTimeMs != nil {
			deadline := *p.StartTimeMs + int64(state.Config.TimerDurationSec)*1000
			if now >= deadline && sess.markEliminated() {
				log.Info().Str("player_id", sess.playerID).Msg("time expired, eliminating player")
				e.dispatcher.Dispatch(ctx, game.Action{Type: game.ActionEliminatePlayer, PlayerID: sess.playerID})
			}
		}

		if p.InCooldown && p.CooldownEndMs != nil && now >= *p.CooldownEndMs {
			log.Info().Str("player_id", sess.playerID).Msg("cooldown elapsed, refilling move budget")
			e.dispatcher.Dispatch(ctx, game.Action{Type: game.ActionEndCooldown, PlayerID: sess.playerID})
		}
	}
}

// pickProblem selects uniformly among bank entries for the pair.
func (e *Engine) pickProblem(difficulty models.Difficulty, language string) (models.Problem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bank.PickRandom(e.rng, difficulty, language)
}

// shuffle returns a Fisher-Yates shuffled copy of the chunks.
func (e *Engine) shuffle(chunks []models.CodeChunk) []models.CodeChunk {
	out := make([]models.CodeChunk, len(chunks))
	copy(out, chunks)
	e.mu.Lock()
	e.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	e.mu.Unlock()
	return out
}

// restoreArrangement loads the saved drag state for a reloaded session,
// falling back to a fresh shuffle when nothing usable was saved. A saved
// arrangement whose chunk multiset no longer matches the problem is
// discarded.
func (e *Engine) restoreArrangement(ctx context.Context, playerID string, problem models.Problem) models.Arrangement {
	saved, err := e.store.LoadArrangement(ctx, playerID)
	if err != nil {
		log.Warn().Err(err).Str("player_id", playerID).Msg("failed to load saved arrangement")
	}
	if saved != nil && coversChunkSet(*saved, problem) {
		return *saved
	}
	return models.Arrangement{Fragments: e.shuffle(problem.CodeChunks)}
}

// coversChunkSet checks that fragments+solution hold exactly the problem's
// chunk ids, each appearing in exactly one of the two lists.
func coversChunkSet(arr models.Arrangement, problem models.Problem) bool {
	if len(arr.Fragments)+len(arr.Solution) != len(problem.CodeChunks) {
		return false
	}
	seen := make(map[string]bool, len(problem.CodeChunks))
	for _, c := range problem.CodeChunks {
		seen[c.ID] = false
	}
	for _, c := range append(append([]models.CodeChunk{}, arr.Fragments...), arr.Solution...) {
		used, ok := seen[c.ID]
		if !ok || used {
			return false
		}
		seen[c.ID] = true
	}
	return true
}
