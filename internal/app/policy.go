package app

import "github.com/harshadmt/Mentor-Mate-sub000/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens to a member whose send buffer is full
// during a broadcast. Delivery stays best-effort either way; the policy
// only controls whether the slow member keeps its seat.
type Policy interface {
	OnBackpressure(room domain.RoomID, conn domain.ConnID) BackpressureAction
}

// SimplePolicy drops the frame and leaves the member connected; the
// heartbeat supervisor will reap it if it is actually dead.
type SimplePolicy struct{}

func (SimplePolicy) OnBackpressure(room domain.RoomID, conn domain.ConnID) BackpressureAction {
	return DropFrame
}
