package app

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harshadmt/Mentor-Mate-sub000/internal/core"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/domain"
)

// Connection is a read-only snapshot of one live transport connection.
type Connection struct {
	ID        domain.ConnID
	UserID    domain.UserID
	Signal    core.SignalConnection
	LastSeen  time.Time
	ChatRoom  domain.RoomID
	VideoRoom domain.RoomID
}

type connEntry struct {
	userID    domain.UserID
	signal    core.SignalConnection
	lastSeen  time.Time
	chatRoom  domain.RoomID
	videoRoom domain.RoomID
	closing   bool
}

// Registry is the sole owner of live connections. Rooms hold only ids;
// everything transport-related resolves through here.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[domain.ConnID]*connEntry)}
}

func (r *Registry) Register(id domain.ConnID, sig core.SignalConnection) Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := &connEntry{signal: sig, lastSeen: time.Now()}
	r.conns[id] = e
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("registered connection")
	return snapshot(id, e)
}

// Touch refreshes the heartbeat timestamp. Unknown ids are ignored;
// a pong can race with its own disconnect.
func (r *Registry) Touch(id domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[id]; ok {
		e.lastSeen = time.Now()
	}
}

// Unregister removes the connection. Idempotent: a second call reports
// already-gone instead of failing, since disconnect events can arrive twice.
func (r *Registry) Unregister(id domain.ConnID) (Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		log.Debug().Str("module", "app.registry").Str("conn", string(id)).Msg("unregister: already gone")
		return Connection{}, false
	}
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("unregistered connection")
	return snapshot(id, e), true
}

func (r *Registry) Exists(id domain.ConnID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[id]
	return ok
}

func (r *Registry) Lookup(id domain.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok || e.signal == nil {
		return nil, false
	}
	return e.signal, true
}

// BeginClose flips the entry into closing state. It returns true exactly
// once per connection, which makes the supervisor's disconnect unit run
// at most once no matter how many disconnect events arrive.
func (r *Registry) BeginClose(id domain.ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok || e.closing {
		return false
	}
	e.closing = true
	return true
}

func (r *Registry) SetUser(id domain.ConnID, uid domain.UserID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[id]; ok {
		e.userID = uid
	}
}

// SetRoom records the room binding for the given kind. It refuses closing
// entries so a join cannot slip in behind a concurrent disconnect.
func (r *Registry) SetRoom(id domain.ConnID, kind domain.RoomKind, room domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok || e.closing {
		return false
	}
	switch kind {
	case domain.KindChat:
		e.chatRoom = room
	case domain.KindVideo:
		e.videoRoom = room
	}
	return true
}

func (r *Registry) ClearRoom(id domain.ConnID, kind domain.RoomKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return
	}
	switch kind {
	case domain.KindChat:
		e.chatRoom = ""
	case domain.KindVideo:
		e.videoRoom = ""
	}
}

// Get returns a snapshot of the connection record.
func (r *Registry) Get(id domain.ConnID) (Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok {
		return Connection{}, false
	}
	return snapshot(id, e), true
}

// Stale lists connections whose last heartbeat predates cutoff and that
// are not already being torn down.
func (r *Registry) Stale(cutoff time.Time) []domain.ConnID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.ConnID
	for id, e := range r.conns {
		if !e.closing && e.lastSeen.Before(cutoff) {
			out = append(out, id)
		}
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

func snapshot(id domain.ConnID, e *connEntry) Connection {
	return Connection{
		ID:        id,
		UserID:    e.userID,
		Signal:    e.signal,
		LastSeen:  e.lastSeen,
		ChatRoom:  e.chatRoom,
		VideoRoom: e.videoRoom,
	}
}
