package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/harshadmt/Mentor-Mate-sub000/internal/app"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/domain"
)

// handleRelay forwards offer/answer/ice-candidate frames. The signaling
// blob stays a json.RawMessage end to end; this server never reads SDP.
func (ctl *SignalWSController) handleRelay(
	sid domain.ConnID,
	conn *WsSignalConn,
	kind string,
	data []byte,
) {
	type relayPayload struct {
		Type      string          `json:"type"`
		Target    string          `json:"target"`
		Offer     json.RawMessage `json:"offer,omitempty"`
		Answer    json.RawMessage `json:"answer,omitempty"`
		Candidate json.RawMessage `json:"candidate,omitempty"`
	}
	var p relayPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("kind", kind).Msg("bad relay payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if p.Target == "" {
		ctl.sendError(conn, "missing target")
		return
	}

	var payload json.RawMessage
	switch app.SignalKind(kind) {
	case app.SignalOffer:
		payload = p.Offer
	case app.SignalAnswer:
		payload = p.Answer
	case app.SignalICECandidate:
		payload = p.Candidate
	}
	if len(payload) == 0 {
		ctl.sendError(conn, "missing payload")
		return
	}

	if err := ctl.Relay.Forward(app.SignalKind(kind), sid, domain.ConnID(p.Target), payload); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("kind", kind).Msg("relay failed")
		ctl.sendError(conn, "relay failed")
	}
}
