package domain

import "errors"

const MaxRoomIDLen = 64

var (
	ErrRoomIDEmpty   = errors.New("room id empty")
	ErrRoomIDTooLong = errors.New("room id too long")
)

type (
	// ConnID identifies a single live transport connection.
	ConnID string

	// RoomID is a caller-supplied room name; rooms are created on first join.
	RoomID string
)

func (r RoomID) Validate() error {
	if len(r) == 0 {
		return ErrRoomIDEmpty
	}
	if len(r) > MaxRoomIDLen {
		return ErrRoomIDTooLong
	}
	return nil
}

// RoomKind separates the chat namespace from the video namespace.
// A room never changes kind after creation.
type RoomKind int

const (
	KindChat RoomKind = iota
	KindVideo
)

func (k RoomKind) String() string {
	switch k {
	case KindChat:
		return "chat"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}
