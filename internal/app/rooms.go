package app

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/harshadmt/Mentor-Mate-sub000/internal/core"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/domain"
)

// ErrKindMismatch guards chat and video rooms from collapsing into the
// same namespace: a join with the wrong kind is rejected, never coerced.
var ErrKindMismatch = errors.New("room exists with different kind")

type JoinResult struct {
	First   bool
	Members []domain.ConnID
}

type LeaveResult struct {
	Remaining []domain.ConnID
	Deleted   bool
}

// PublishResult reports delivery stats/backpressure to the caller.
type PublishResult struct {
	SentTo  int
	Dropped []domain.ConnID
}

type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	Kind        string        `json:"kind"`
	MemberCount int           `json:"member_count"`
}

// room is the single-writer unit: every mutating operation on one room id
// goes through its mutex, so two concurrent first-joins cannot both win.
type room struct {
	id   domain.RoomID
	kind domain.RoomKind

	mu      sync.Mutex
	members map[domain.ConnID]struct{}
	dead    bool
}

// Rooms owns room membership for both kinds. It holds connection ids only;
// actual delivery resolves through the registry. Lock order is always
// manager then room, never the reverse.
type Rooms struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*room
	conns core.ConnResolver
}

func NewRooms(conns core.ConnResolver) *Rooms {
	return &Rooms{
		rooms: make(map[domain.RoomID]*room),
		conns: conns,
	}
}

func (m *Rooms) getOrCreate(id domain.RoomID, kind domain.RoomKind) *room {
	m.mu.RLock()
	r, ok := m.rooms[id]
	m.mu.RUnlock()
	if ok {
		return r
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok = m.rooms[id]; ok {
		return r
	}
	r = &room{
		id:      id,
		kind:    kind,
		members: make(map[domain.ConnID]struct{}),
	}
	m.rooms[id] = r
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("kind", kind.String()).Msg("room created")
	return r
}

// Join adds the connection to the room, creating it on first use.
func (m *Rooms) Join(id domain.RoomID, conn domain.ConnID, kind domain.RoomKind) (JoinResult, error) {
	for {
		r := m.getOrCreate(id, kind)
		r.mu.Lock()
		if r.dead {
			// Lost a race with delete-on-empty; the map entry is fresh now.
			r.mu.Unlock()
			continue
		}
		if r.kind != kind {
			r.mu.Unlock()
			return JoinResult{}, ErrKindMismatch
		}
		others := memberIDs(r, conn)
		r.members[conn] = struct{}{}
		res := JoinResult{First: len(r.members) == 1, Members: others}
		r.mu.Unlock()
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("conn", string(conn)).Bool("first", res.First).Msg("member joined")
		return res, nil
	}
}

// Leave removes the connection; removing a non-member is a no-op.
// The room is deleted exactly when its member set becomes empty.
func (m *Rooms) Leave(id domain.RoomID, conn domain.ConnID) LeaveResult {
	m.mu.RLock()
	r, ok := m.rooms[id]
	m.mu.RUnlock()
	if !ok {
		return LeaveResult{}
	}

	r.mu.Lock()
	delete(r.members, conn)
	remaining := memberIDs(r, "")
	empty := len(r.members) == 0
	r.mu.Unlock()

	deleted := false
	if empty {
		m.mu.Lock()
		r.mu.Lock()
		if len(r.members) == 0 && !r.dead && m.rooms[id] == r {
			r.dead = true
			delete(m.rooms, id)
			deleted = true
		}
		r.mu.Unlock()
		m.mu.Unlock()
	}
	if deleted {
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room deleted")
	}
	return LeaveResult{Remaining: remaining, Deleted: deleted}
}

// Broadcast delivers the frame to every member except the sender.
// Delivery is best-effort per recipient; one slow member never blocks the rest.
func (m *Rooms) Broadcast(id domain.RoomID, except domain.ConnID, frame core.Frame) PublishResult {
	members := m.Snapshot(id)
	res := PublishResult{}
	for _, cid := range members {
		if cid == except {
			continue
		}
		sig, ok := m.conns.Lookup(cid)
		if !ok {
			res.Dropped = append(res.Dropped, cid)
			continue
		}
		if err := sig.TrySend(frame); err != nil {
			res.Dropped = append(res.Dropped, cid)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "app.rooms").Str("room", string(id)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

// Snapshot returns the current member ids; the lock is not held afterwards.
func (m *Rooms) Snapshot(id domain.RoomID) []domain.ConnID {
	m.mu.RLock()
	r, ok := m.rooms[id]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return memberIDs(r, "")
}

// Kind reports the room's kind, if the room exists.
func (m *Rooms) Kind(id domain.RoomID) (domain.RoomKind, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	if !ok {
		return 0, false
	}
	return r.kind, true
}

func (m *Rooms) List() []RoomInfo {
	m.mu.RLock()
	rooms := make([]*room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	out := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		r.mu.Lock()
		out = append(out, RoomInfo{ID: r.id, Kind: r.kind.String(), MemberCount: len(r.members)})
		r.mu.Unlock()
	}
	return out
}

// memberIDs must be called with r.mu held.
func memberIDs(r *room, except domain.ConnID) []domain.ConnID {
	out := make([]domain.ConnID, 0, len(r.members))
	for cid := range r.members {
		if cid == except {
			continue
		}
		out = append(out, cid)
	}
	return out
}
