package arena

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/BibaPutt/vibeathon-arena/internal/game"
	"github.com/BibaPutt/vibeathon-arena/internal/models"
)

// List names one of the two chunk lists a move can touch.
type List string

const (
	ListFragments List = "fragments"
	ListSolution  List = "solution"
)

// MoveRequest is one drag gesture: take the chunk at FromIndex of the From
// list and insert it at ToIndex of the To list.
type MoveRequest struct {
	From      List `json:"from"`
	To        List `json:"to"`
	FromIndex int  `json:"fromIndex"`
	ToIndex   int  `json:"toIndex"`
}

// ExecuteResult is the outcome of a verification attempt.
type ExecuteResult struct {
	Correct          bool  `json:"correct"`
	Committed        bool  `json:"committed"`
	CompletionTimeMs int64 `json:"completionTime,omitempty"`
	Points           int   `json:"points,omitempty"`
}

// Session is one player's in-progress arena: the assigned problem plus the
// locally-owned drag arrangement. The arrangement never enters the shared
// document; it lives here and in the device store.
type Session struct {
	engine   *Engine
	playerID string

	mu           sync.Mutex
	problem      models.Problem
	fragments    []models.CodeChunk
	solution     []models.CodeChunk
	acknowledged bool
	locked       bool
	eliminated   bool
}

// Problem returns the assigned problem.
func (s *Session) Problem() models.Problem {
	return s.problem
}

// Acknowledge dismisses the pre-game briefing. Moves are rejected until the
// player has acknowledged it.
func (s *Session) Acknowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acknowledged = true
}

// Move applies one drag gesture with the budget rules:
//   - reorders inside the fragment pool are free
//   - every relocation between the pool and the solution, and every reorder
//     inside the solution, consumes one move
//   - the move that exhausts the budget starts the cooldown
//
// Out-of-range indexes are ignored and leave the arrangement unchanged, so
// a gesture racing a state refresh can never corrupt the lists.
func (s *Session) Move(ctx context.Context, req MoveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The player snapshot must be taken under s.mu: concurrent moves
	// otherwise both observe the pre-move budget and the exhausting move
	// never triggers the cooldown.
	p := s.engine.dispatcher.State().FindPlayer(s.playerID)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, s.playerID)
	}

	if s.locked || p.Status == models.StatusCompleted || p.Status == models.StatusEliminated {
		return ErrLocked
	}
	if !s.acknowledged {
		return ErrNotAcknowledged
	}
	if p.InCooldown {
		return ErrCooldown
	}

	src := s.list(req.From)
	dst := s.list(req.To)
	if src == nil || dst == nil {
		return fmt.Errorf("unknown list in move: %q -> %q", req.From, req.To)
	}
	if req.FromIndex < 0 || req.FromIndex >= len(*src) {
		return nil
	}

	// Valid insert positions run to the destination length as it will be
	// after the element leaves the source.
	limit := len(*dst)
	if req.From == req.To {
		limit--
	}
	if req.ToIndex < 0 || req.ToIndex > limit {
		return nil
	}

	moved := (*src)[req.FromIndex]
	*src = append((*src)[:req.FromIndex], (*src)[req.FromIndex+1:]...)

	*dst = append(*dst, models.CodeChunk{})
	copy((*dst)[req.ToIndex+1:], (*dst)[req.ToIndex:])
	(*dst)[req.ToIndex] = moved

	if countsAsMove(req) {
		remaining := p.DragsRemaining
		s.engine.dispatcher.Dispatch(ctx, game.Action{Type: game.ActionUseDrag, PlayerID: s.playerID})
		if remaining <= 1 {
			end := s.engine.clock.Now().Add(s.engine.tuning.Cooldown).UnixMilli()
			s.engine.dispatcher.Dispatch(ctx, game.Action{
				Type:          game.ActionStartCooldown,
				PlayerID:      s.playerID,
				CooldownEndMs: end,
			})
		}
	}

	s.persistLocked(ctx)
	return nil
}

// countsAsMove applies the budget rule: only fragment-pool-internal
// reorders are free.
func countsAsMove(req MoveRequest) bool {
	return !(req.From == ListFragments && req.To == ListFragments)
}

// Execute verifies the solution sequence against the canonical order. A
// correct arrangement is committed immediately: completion time and points
// are recorded and the session locks. An incorrect one reports failure and
// leaves the session open for more attempts.
func (s *Session) Execute(ctx context.Context) (ExecuteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.engine.dispatcher.State().FindPlayer(s.playerID)
	if p == nil {
		return ExecuteResult{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, s.playerID)
	}

	if s.locked || p.Status == models.StatusCompleted || p.Status == models.StatusEliminated {
		return ExecuteResult{}, ErrLocked
	}

	if !s.matchesSolutionLocked() {
		return ExecuteResult{Correct: false}, nil
	}

	if p.StartTimeMs == nil {
		// Shouldn't happen for a playing session; report success without a
		// recorded time rather than fabricating one.
		log.Warn().Str("player_id", s.playerID).Msg("correct solution but no start time recorded")
		return ExecuteResult{Correct: true}, nil
	}

	took := s.engine.clock.Now().UnixMilli() - *p.StartTimeMs
	points := p.Difficulty.Points()
	s.engine.dispatcher.Dispatch(ctx, game.Action{
		Type:             game.ActionCommitSolution,
		PlayerID:         s.playerID,
		CompletionTimeMs: took,
		Points:           points,
	})
	s.locked = true

	log.Info().
		Str("player_id", s.playerID).
		Int64("completion_ms", took).
		Int("points", points).
		Msg("solution committed")
	return ExecuteResult{Correct: true, Committed: true, CompletionTimeMs: took, Points: points}, nil
}

// matchesSolutionLocked compares the solution chunk ids element-wise against
// the canonical order. Callers hold s.mu.
func (s *Session) matchesSolutionLocked() bool {
	if len(s.solution) != len(s.problem.SolutionOrder) {
		return false
	}
	for i, chunk := range s.solution {
		if chunk.ID != s.problem.SolutionOrder[i] {
			return false
		}
	}
	return true
}

// markEliminated latches the one-shot elimination trigger. Returns true on
// the first call only.
func (s *Session) markEliminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eliminated {
		return false
	}
	s.eliminated = true
	s.locked = true
	return true
}

// Arrangement returns a copy of the current drag state.
func (s *Session) Arrangement() models.Arrangement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Arrangement{
		Fragments: append([]models.CodeChunk{}, s.fragments...),
		Solution:  append([]models.CodeChunk{}, s.solution...),
	}
}

// View is the render-ready snapshot of a session.
type View struct {
	PlayerID        string             `json:"playerId"`
	Problem         models.Problem     `json:"problem"`
	Fragments       []models.CodeChunk `json:"fragments"`
	Solution        []models.CodeChunk `json:"solution"`
	Acknowledged    bool               `json:"acknowledged"`
	Locked          bool               `json:"locked"`
	DragsRemaining  int                `json:"dragsRemaining"`
	TotalDrags      int                `json:"totalDrags"`
	InCooldown      bool               `json:"inCooldown"`
	CooldownSecLeft int                `json:"cooldownSecLeft"`
	TimeLeft        string             `json:"timeLeft"`
	TimeCritical    bool               `json:"timeCritical"`
}

// Snapshot assembles the session view against the current shared state.
// The countdown is recomputed here on every call, which is what makes admin
// time extensions land retroactively.
func (s *Session) Snapshot() View {
	state := s.engine.dispatcher.State()
	now := s.engine.clock.Now().UnixMilli()

	s.mu.Lock()
	view := View{
		PlayerID:     s.playerID,
		Problem:      s.problem,
		Fragments:    append([]models.CodeChunk{}, s.fragments...),
		Solution:     append([]models.CodeChunk{}, s.solution...),
		Acknowledged: s.acknowledged,
		Locked:       s.locked,
	}
	s.mu.Unlock()

	p := state.FindPlayer(s.playerID)
	if p == nil {
		return view
	}
	view.DragsRemaining = p.DragsRemaining
	view.TotalDrags = p.TotalDrags
	view.InCooldown = p.InCooldown

	if p.InCooldown && p.CooldownEndMs != nil {
		left := (*p.CooldownEndMs - now + 999) / 1000
		if left < 0 {
			left = 0
		}
		view.CooldownSecLeft = int(left)
	}

	if p.StartTimeMs != nil {
		deadline := *p.StartTimeMs + int64(state.Config.TimerDurationSec)*1000
		secLeft := (deadline - now) / 1000
		if secLeft < 0 {
			secLeft = 0
		}
		view.TimeLeft = fmt.Sprintf("%02d:%02d", secLeft/60, secLeft%60)
		view.TimeCritical = secLeft < 60
	}
	return view
}

// persistLocked writes the arrangement to the device store. Callers hold
// s.mu. Persistence failures only cost reload resilience, so they log.
func (s *Session) persistLocked(ctx context.Context) {
	arr := models.Arrangement{
		Fragments: append([]models.CodeChunk{}, s.fragments...),
		Solution:  append([]models.CodeChunk{}, s.solution...),
	}
	if err := s.engine.store.SaveArrangement(ctx, s.playerID, arr); err != nil {
		log.Warn().Err(err).Str("player_id", s.playerID).Msg("failed to persist arrangement")
	}
}

// list maps a List name to the backing slice. Callers hold s.mu.
func (s *Session) list(name List) *[]models.CodeChunk {
	switch name {
	case ListFragments:
		return &s.fragments
	case ListSolution:
		return &s.solution
	default:
		return nil
	}
}
