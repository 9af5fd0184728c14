package signal

import "github.com/harshadmt/Mentor-Mate-sub000/internal/domain"

// Application-level heartbeat; the registry timestamp is what the
// supervisor sweeps on.
func (ctl *SignalWSController) handlePing(
	sid domain.ConnID,
	conn *WsSignalConn,
) {
	ctl.Sup.Registry.Touch(sid)
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(conn, resp)
}
