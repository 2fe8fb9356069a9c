// Package sync keeps the in-memory game state and the remote shared
// document loosely converged: it polls the blob store on a fixed interval,
// merges fetched documents while preserving device-local identity, and
// pushes the shared subset out after every shared-relevant dispatch.
//
// Consistency is eventual and last-write-wins. There are no vector clocks
// and no conflict detection; the poll interval bounds staleness, it does not
// guarantee convergence.
package sync

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/BibaPutt/vibeathon-arena/internal/game"
	"github.com/BibaPutt/vibeathon-arena/internal/models"
	"github.com/BibaPutt/vibeathon-arena/internal/session"
)

// Gateway is the blob store surface the loop depends on.
type Gateway interface {
	FetchShared(ctx context.Context) (*models.SharedState, error)
	PushShared(ctx context.Context, shared *models.SharedState) error
}

const defaultPushBuffer = 64

// Loop owns the game store for this device. All dispatches flow through it
// so that shared mutations are queued for push and identity changes are
// persisted, without the call sites recomputing anything.
type Loop struct {
	store    *game.Store
	gw       Gateway
	sessions session.Store
	clock    clockwork.Clock
	interval time.Duration

	pushCh     chan models.SharedState
	instanceID string // short ID for logging

	mu        sync.Mutex
	listeners []func(models.GameStore)
}

// NewLoop creates a sync loop around the given store.
func NewLoop(store *game.Store, gw Gateway, sessions session.Store, clock clockwork.Clock, interval time.Duration) *Loop {
	return &Loop{
		store:      store,
		gw:         gw,
		sessions:   sessions,
		clock:      clock,
		interval:   interval,
		pushCh:     make(chan models.SharedState, defaultPushBuffer),
		instanceID: uuid.New().String()[:8],
	}
}

// OnChange registers a callback invoked with the new state after every
// dispatch and every applied remote merge. Callbacks must not block.
func (l *Loop) OnChange(fn func(models.GameStore)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// State returns a snapshot of the current in-memory state.
func (l *Loop) State() models.GameStore {
	return l.store.Snapshot()
}

// Dispatch applies the action to the store, then queues a push of the new
// shared subset for shared actions and persists identity for session
// actions. The push is fire-and-forget; the caller never waits on it.
func (l *Loop) Dispatch(ctx context.Context, action game.Action) models.GameStore {
	next := l.store.Apply(action)

	if action.IsSession() {
		sess := models.LocalSession{CurrentPlayerID: next.CurrentPlayerID, IsAdmin: next.IsAdmin}
		if err := l.sessions.SaveSession(ctx, sess); err != nil {
			log.Error().Err(err).Str("instance", l.instanceID).Msg("failed to persist local session")
		}
	}

	if action.IsShared() {
		l.enqueuePush(next.ToShared())
	}

	l.notify(next)
	return next
}

// Run bootstraps state from the local session and one initial fetch, then
// polls the blob store until ctx is cancelled. The outbound pusher runs for
// the same lifetime.
func (l *Loop) Run(ctx context.Context) error {
	l.bootstrap(ctx)

	go l.pusher(ctx)

	ticker := l.clock.NewTicker(l.interval)
	defer ticker.Stop()

	log.Info().
		Str("instance", l.instanceID).
		Dur("interval", l.interval).
		Msg("sync loop started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("instance", l.instanceID).Msg("sync loop shutting down")
			return nil
		case <-ticker.Chan():
			l.refresh(ctx)
		}
	}
}

// bootstrap seeds identity from the device session and overlays the remote
// document when one is reachable.
func (l *Loop) bootstrap(ctx context.Context) {
	sess := l.sessions.LoadSession(ctx)

	seeded := l.store.Snapshot()
	seeded.CurrentPlayerID = sess.CurrentPlayerID
	seeded.IsAdmin = sess.IsAdmin
	if seeded.IsAdmin {
		// Identity fields are mutually exclusive; admin wins over a stale id.
		seeded.CurrentPlayerID = ""
	}
	l.store.Apply(game.Action{Type: game.ActionSetState, State: &seeded})

	l.refresh(ctx)
}

// refresh fetches the shared document and applies the merge result. A
// failed fetch leaves in-memory state untouched; the next poll retries.
func (l *Loop) refresh(ctx context.Context) {
	remote, err := l.gw.FetchShared(ctx)
	if err != nil {
		log.Warn().Err(err).Str("instance", l.instanceID).Msg("shared state fetch failed; keeping local state")
		return
	}
	if remote == nil {
		return
	}

	merged := MergeRemote(l.store.Snapshot(), *remote)
	next := l.store.Apply(game.Action{Type: game.ActionSetState, State: &merged})
	l.notify(next)
}

// enqueuePush hands a snapshot to the pusher. When the queue is full the
// snapshot is dropped; a later dispatch or poll will reconverge.
func (l *Loop) enqueuePush(shared models.SharedState) {
	select {
	case l.pushCh <- shared:
	default:
		log.Warn().Str("instance", l.instanceID).Msg("push queue full, dropping snapshot")
	}
}

// pusher drains the outbound queue. Failures are logged and not retried;
// the next shared dispatch carries the full document anyway.
func (l *Loop) pusher(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case shared := <-l.pushCh:
			if err := l.gw.PushShared(ctx, &shared); err != nil {
				log.Warn().Err(err).Str("instance", l.instanceID).Msg("shared state push failed")
			}
		}
	}
}

func (l *Loop) notify(state models.GameStore) {
	l.mu.Lock()
	listeners := make([]func(models.GameStore), len(l.listeners))
	copy(listeners, l.listeners)
	l.mu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}
