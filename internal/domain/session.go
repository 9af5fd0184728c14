package domain

// SessionState is the lifecycle of one mentoring call, keyed by video room id.
// Transitions are monotonic: NotStarted -> Active -> Completed, never back.
type SessionState int

const (
	SessionNotStarted SessionState = iota
	SessionActive
	SessionCompleted
)

func (s SessionState) String() string {
	switch s {
	case SessionNotStarted:
		return "not_started"
	case SessionActive:
		return "active"
	case SessionCompleted:
		return "completed"
	default:
		return "unknown"
	}
}
