package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harshadmt/Mentor-Mate-sub000/internal/core"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/domain"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/metrics"
)

type sessionEntry struct {
	mu        sync.Mutex
	state     domain.SessionState
	startedAt time.Time
	endedAt   time.Time
}

// Tracker drives the per-room mentoring-session state machine. It is the
// sole mutator of session state. Every join of a video room calls OnJoin
// and every member disconnect calls OnDisconnect; both are idempotent, so
// duplicate events collapse into single transitions.
//
// Persistence is delegated to the session store. The in-memory transition
// always wins: a store outage is logged and counted, never propagated, so
// the signaling path cannot be stalled by a slow collaborator.
type Tracker struct {
	store   core.SessionStore
	metrics *metrics.Metrics
	timeout time.Duration

	mu       sync.Mutex
	sessions map[domain.RoomID]*sessionEntry
}

func NewTracker(store core.SessionStore, m *metrics.Metrics, timeout time.Duration) *Tracker {
	return &Tracker{
		store:    store,
		metrics:  m,
		timeout:  timeout,
		sessions: make(map[domain.RoomID]*sessionEntry),
	}
}

func (t *Tracker) entry(room domain.RoomID) *sessionEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.sessions[room]
	if !ok {
		e = &sessionEntry{state: domain.SessionNotStarted}
		t.sessions[room] = e
	}
	return e
}

// OnJoin marks the session active. Called on every video-room join;
// only the first call transitions, the rest are no-ops.
func (t *Tracker) OnJoin(room domain.RoomID) {
	e := t.entry(room)

	e.mu.Lock()
	if e.state != domain.SessionNotStarted {
		state := e.state
		e.mu.Unlock()
		log.Debug().Str("module", "app.tracker").Str("room", string(room)).Str("state", state.String()).Msg("start skipped: already transitioned")
		return
	}
	e.state = domain.SessionActive
	e.startedAt = time.Now()
	e.mu.Unlock()

	log.Info().Str("module", "app.tracker").Str("room", string(room)).Msg("session started")
	t.persist(room, "start", t.store.MarkSessionStart)
}

// OnDisconnect completes the session when any member of the room drops,
// not specifically the last one. Idempotent and terminal: once Completed,
// further calls for that room id are no-ops.
func (t *Tracker) OnDisconnect(room domain.RoomID) {
	t.mu.Lock()
	e, ok := t.sessions[room]
	t.mu.Unlock()
	if !ok {
		return
	}

	e.mu.Lock()
	if e.state != domain.SessionActive {
		state := e.state
		e.mu.Unlock()
		log.Debug().Str("module", "app.tracker").Str("room", string(room)).Str("state", state.String()).Msg("end skipped: not active")
		return
	}
	e.state = domain.SessionCompleted
	e.endedAt = time.Now()
	e.mu.Unlock()

	log.Info().Str("module", "app.tracker").Str("room", string(room)).Msg("session completed")
	t.persist(room, "end", t.store.MarkSessionEnd)
}

// State reports the current lifecycle state for the room.
func (t *Tracker) State(room domain.RoomID) domain.SessionState {
	t.mu.Lock()
	e, ok := t.sessions[room]
	t.mu.Unlock()
	if !ok {
		return domain.SessionNotStarted
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// persist runs outside the entry lock so store latency cannot serialize
// unrelated rooms behind it.
func (t *Tracker) persist(room domain.RoomID, op string, fn func(context.Context, domain.RoomID) error) {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()
	if err := fn(ctx, room); err != nil {
		t.metrics.Inc(metrics.SessionPersistFail)
		log.Error().Err(err).Str("module", "app.tracker").Str("room", string(room)).Str("op", op).Msg("session store call failed")
	}
}
