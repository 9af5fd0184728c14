package app

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harshadmt/Mentor-Mate-sub000/internal/domain"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/metrics"
)

var ErrNotRegistered = errors.New("connection not registered")

// Supervisor coordinates the components that must move together: it runs
// the heartbeat sweep and owns the join/disconnect sequences that keep
// room membership, the registry and the session tracker consistent.
type Supervisor struct {
	Registry *Registry
	Rooms    *Rooms
	Tracker  *Tracker
	Metrics  *metrics.Metrics

	HeartbeatTimeout time.Duration
}

// Run sweeps for connections whose heartbeat lapsed and tears them down
// through the same path as an explicit close. Blocks until ctx is done.
func (s *Supervisor) Run(ctx context.Context) {
	interval := s.HeartbeatTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-s.HeartbeatTimeout)
			for _, id := range s.Registry.Stale(cutoff) {
				log.Warn().Str("module", "app.supervisor").Str("conn", string(id)).Msg("heartbeat timeout")
				s.Metrics.Inc(metrics.ConnTimeout)
				s.Disconnect(id)
			}
		}
	}
}

// JoinChat puts the connection into a chat room, creating it on demand.
func (s *Supervisor) JoinChat(conn domain.ConnID, room domain.RoomID) (JoinResult, error) {
	if err := room.Validate(); err != nil {
		return JoinResult{}, err
	}
	if !s.Registry.Exists(conn) {
		return JoinResult{}, ErrNotRegistered
	}

	if c, ok := s.Registry.Get(conn); ok && c.ChatRoom != "" && c.ChatRoom != room {
		s.leaveChat(conn, c.ChatRoom, c.UserID)
	}

	res, err := s.Rooms.Join(room, conn, domain.KindChat)
	if err != nil {
		return JoinResult{}, err
	}
	if !s.Registry.SetRoom(conn, domain.KindChat, room) {
		// Disconnect won the race; undo so the room never holds a dead member.
		s.Rooms.Leave(room, conn)
		return JoinResult{}, ErrNotRegistered
	}
	return res, nil
}

// JoinVideo puts the connection into a video room, marks the mentoring
// session started and announces the newcomer to members already present.
func (s *Supervisor) JoinVideo(conn domain.ConnID, user domain.UserID, room domain.RoomID) (JoinResult, error) {
	if err := room.Validate(); err != nil {
		return JoinResult{}, err
	}
	if err := user.Validate(); err != nil {
		return JoinResult{}, err
	}
	if !s.Registry.Exists(conn) {
		return JoinResult{}, ErrNotRegistered
	}
	s.Registry.SetUser(conn, user)

	// A connection sits in at most one video room; switching rooms is a
	// disconnect for the old one, including its session transition.
	if c, ok := s.Registry.Get(conn); ok && c.VideoRoom != "" && c.VideoRoom != room {
		s.leaveVideo(conn, c.VideoRoom, c.UserID)
	}

	res, err := s.Rooms.Join(room, conn, domain.KindVideo)
	if err != nil {
		return JoinResult{}, err
	}
	if !s.Registry.SetRoom(conn, domain.KindVideo, room) {
		s.Rooms.Leave(room, conn)
		return JoinResult{}, ErrNotRegistered
	}

	s.Tracker.OnJoin(room)

	frame, err := json.Marshal(struct {
		Type   string        `json:"type"`
		UserID domain.UserID `json:"userId"`
		ConnID domain.ConnID `json:"connectionId"`
	}{Type: "user-joined", UserID: user, ConnID: conn})
	if err == nil {
		s.notifyPeers(res.Members, frame)
	}
	return res, nil
}

// Disconnect is the single logical teardown unit per connection: leave all
// rooms, advance the session lifecycle, notify remaining peers, unregister,
// close the transport. BeginClose makes it run at most once, so duplicate
// disconnect events are reported as already-handled rather than failing.
func (s *Supervisor) Disconnect(id domain.ConnID) bool {
	if !s.Registry.BeginClose(id) {
		log.Debug().Str("module", "app.supervisor").Str("conn", string(id)).Msg("disconnect: already handled")
		return false
	}
	c, _ := s.Registry.Get(id)

	if c.ChatRoom != "" {
		s.leaveChat(id, c.ChatRoom, c.UserID)
	}
	if c.VideoRoom != "" {
		s.leaveVideo(id, c.VideoRoom, c.UserID)
	}

	if removed, ok := s.Registry.Unregister(id); ok && removed.Signal != nil {
		removed.Signal.Close()
	}
	log.Info().Str("module", "app.supervisor").Str("conn", string(id)).Msg("disconnected")
	return true
}

func (s *Supervisor) leaveChat(id domain.ConnID, room domain.RoomID, user domain.UserID) {
	res := s.Rooms.Leave(room, id)
	s.Registry.ClearRoom(id, domain.KindChat)
	frame, err := json.Marshal(struct {
		Type   string        `json:"type"`
		UserID domain.UserID `json:"userId,omitempty"`
		ConnID domain.ConnID `json:"connectionId"`
	}{Type: "peer-left", UserID: user, ConnID: id})
	if err == nil {
		s.notifyPeers(res.Remaining, frame)
	}
}

func (s *Supervisor) leaveVideo(id domain.ConnID, room domain.RoomID, user domain.UserID) {
	res := s.Rooms.Leave(room, id)
	s.Registry.ClearRoom(id, domain.KindVideo)
	s.Tracker.OnDisconnect(room)
	frame, err := json.Marshal(struct {
		Type   string        `json:"type"`
		UserID domain.UserID `json:"userId"`
	}{Type: "user-disconnected", UserID: user})
	if err == nil {
		s.notifyPeers(res.Remaining, frame)
	}
}

// notifyPeers is best-effort fanout; a full buffer on one peer is its
// own problem, not the disconnecting connection's.
func (s *Supervisor) notifyPeers(ids []domain.ConnID, frame []byte) {
	for _, cid := range ids {
		sig, ok := s.Registry.Lookup(cid)
		if !ok {
			continue
		}
		_ = sig.TrySend(frame)
	}
}
