package app

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/harshadmt/Mentor-Mate-sub000/internal/core"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/domain"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/metrics"
)

var ErrUnknownSignalKind = errors.New("unknown signal kind")

// SignalKind is one of the three WebRTC signaling message kinds the
// relay forwards. The payload itself is never interpreted.
type SignalKind string

const (
	SignalOffer        SignalKind = "offer"
	SignalAnswer       SignalKind = "answer"
	SignalICECandidate SignalKind = "ice-candidate"
)

// echoType is the event name the target receives.
func (k SignalKind) echoType() (string, bool) {
	switch k {
	case SignalOffer:
		return "receive-offer", true
	case SignalAnswer:
		return "receive-answer", true
	case SignalICECandidate:
		return "receive-ice-candidate", true
	default:
		return "", false
	}
}

// Relay forwards directed signaling messages between two connections.
// At-most-once: a message to an unknown or unreachable target is dropped
// and counted as a miss, never queued or retried.
type Relay struct {
	conns   core.ConnResolver
	metrics *metrics.Metrics
}

func NewRelay(conns core.ConnResolver, m *metrics.Metrics) *Relay {
	return &Relay{conns: conns, metrics: m}
}

type signalEnvelope struct {
	Type    string          `json:"type"`
	From    domain.ConnID   `json:"from"`
	Payload json.RawMessage `json:"payload"`
}

// Forward sends the payload verbatim to target, annotated with the sender id.
func (r *Relay) Forward(kind SignalKind, sender, target domain.ConnID, payload json.RawMessage) error {
	echo, ok := kind.echoType()
	if !ok {
		return ErrUnknownSignalKind
	}

	sig, ok := r.conns.Lookup(target)
	if !ok {
		r.metrics.Inc(metrics.RelayMiss)
		log.Debug().Str("module", "app.relay").Str("kind", string(kind)).Str("from", string(sender)).Str("target", string(target)).Msg("relay miss: target not connected")
		return nil
	}

	frame, err := json.Marshal(signalEnvelope{Type: echo, From: sender, Payload: payload})
	if err != nil {
		return err
	}
	if err := sig.TrySend(frame); err != nil {
		r.metrics.Inc(metrics.RelayMiss)
		log.Debug().Err(err).Str("module", "app.relay").Str("kind", string(kind)).Str("target", string(target)).Msg("relay miss: send failed")
		return nil
	}
	r.metrics.Inc(metrics.RelaySent)
	return nil
}
