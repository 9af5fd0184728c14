package core

import (
	"context"

	"github.com/harshadmt/Mentor-Mate-sub000/internal/domain"
)

// Frame is a raw outbound payload, already encoded for the wire.
type Frame []byte

// SignalConnection abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// ConnResolver maps a connection id to its live transport endpoint.
// Implemented by the registry; rooms and relays never own connections.
type ConnResolver interface {
	Lookup(id domain.ConnID) (SignalConnection, bool)
}

// SessionStore persists mentoring-session lifecycle transitions.
// A failed call must never block or roll back the in-memory state machine.
type SessionStore interface {
	MarkSessionStart(ctx context.Context, room domain.RoomID) error
	MarkSessionEnd(ctx context.Context, room domain.RoomID) error
}

// Notifier is the notification collaborator fired after a chat send.
type Notifier interface {
	CreateNotification(ctx context.Context, n domain.Notification) error
}

// MessageStore persists chat messages off the broadcast path.
// A failed write must never surface to the sender.
type MessageStore interface {
	Persist(ctx context.Context, sender, receiver domain.UserID, content string) (domain.MessageRecord, error)
}
