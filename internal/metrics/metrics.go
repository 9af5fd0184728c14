// Package metrics is a minimal, concurrency-safe counter registry.
//
// The production deployment is expected to plug into a real metrics backend;
// this type exists to keep relay/supervisor logic testable while still
// counting the events operators care about.
package metrics

import "sync"

// Counter names used by the realtime layer.
const (
	RelaySent          = "relay_sent"
	RelayMiss          = "relay_miss"
	NotifyFail         = "notify_fail"
	SessionPersistFail = "session_persist_fail"
	MsgPersistFail     = "msg_persist_fail"
	ChatDropped        = "chat_dropped"
	ConnTimeout        = "conn_timeout"
)

type Metrics struct {
	mu sync.Mutex
	m  map[string]uint64
}

func New() *Metrics {
	return &Metrics{
		m: make(map[string]uint64),
	}
}

func (m *Metrics) Inc(name string) {
	m.mu.Lock()
	m.m[name]++
	m.mu.Unlock()
}

func (m *Metrics) Get(name string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.m[name]
}

// Snapshot copies all counters, for the debug endpoint.
func (m *Metrics) Snapshot() map[string]uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]uint64, len(m.m))
	for k, v := range m.m {
		out[k] = v
	}
	return out
}
