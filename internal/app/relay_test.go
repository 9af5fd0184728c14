package app

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/harshadmt/Mentor-Mate-sub000/internal/metrics"
)

func TestRelayForwardsVerbatim(t *testing.T) {
	conns := newFakeResolver()
	target := &fakeConn{}
	conns.add("c2", target)

	m := metrics.New()
	r := NewRelay(conns, m)

	payload := json.RawMessage(`{"sdp":"x"}`)
	if err := r.Forward(SignalOffer, "c1", "c2", payload); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	frames := target.Frames()
	if len(frames) != 1 {
		t.Fatalf("frames: got %d want 1", len(frames))
	}
	var env struct {
		Type    string          `json:"type"`
		From    string          `json:"from"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(frames[0], &env); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if env.Type != "receive-offer" {
		t.Fatalf("Type: got %q want %q", env.Type, "receive-offer")
	}
	if env.From != "c1" {
		t.Fatalf("From: got %q want %q", env.From, "c1")
	}
	if string(env.Payload) != `{"sdp":"x"}` {
		t.Fatalf("Payload altered: got %s", env.Payload)
	}
	if got := m.Get(metrics.RelaySent); got != 1 {
		t.Fatalf("relay_sent: got %d want 1", got)
	}
}

func TestRelayEchoTypes(t *testing.T) {
	cases := []struct {
		kind SignalKind
		want string
	}{
		{SignalOffer, "receive-offer"},
		{SignalAnswer, "receive-answer"},
		{SignalICECandidate, "receive-ice-candidate"},
	}
	for _, tc := range cases {
		conns := newFakeResolver()
		target := &fakeConn{}
		conns.add("t", target)
		r := NewRelay(conns, metrics.New())

		if err := r.Forward(tc.kind, "s", "t", json.RawMessage(`{}`)); err != nil {
			t.Fatalf("%s: Forward: %v", tc.kind, err)
		}
		var env struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(target.Frames()[0], &env); err != nil {
			t.Fatalf("json.Unmarshal: %v", err)
		}
		if env.Type != tc.want {
			t.Fatalf("%s: got %q want %q", tc.kind, env.Type, tc.want)
		}
	}
}

func TestRelayMissOnUnknownTarget(t *testing.T) {
	m := metrics.New()
	r := NewRelay(newFakeResolver(), m)

	// Dropped silently: signaling is time-sensitive, never queued.
	if err := r.Forward(SignalOffer, "c1", "gone", json.RawMessage(`{}`)); err != nil {
		t.Fatalf("Forward to unknown target: %v", err)
	}
	if got := m.Get(metrics.RelayMiss); got != 1 {
		t.Fatalf("relay_miss: got %d want 1", got)
	}
}

func TestRelayMissOnSendFailure(t *testing.T) {
	conns := newFakeResolver()
	conns.add("c2", &fakeConn{failSend: true})
	m := metrics.New()
	r := NewRelay(conns, m)

	if err := r.Forward(SignalAnswer, "c1", "c2", json.RawMessage(`{}`)); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if got := m.Get(metrics.RelayMiss); got != 1 {
		t.Fatalf("relay_miss: got %d want 1", got)
	}
}

func TestRelayUnknownKind(t *testing.T) {
	r := NewRelay(newFakeResolver(), metrics.New())
	err := r.Forward(SignalKind("renegotiate"), "c1", "c2", json.RawMessage(`{}`))
	if !errors.Is(err, ErrUnknownSignalKind) {
		t.Fatalf("got %v want ErrUnknownSignalKind", err)
	}
}
