package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/harshadmt/Mentor-Mate-sub000/internal/domain"
)

func (ctl *SignalWSController) handleSendMessage(
	sid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type messagePayload struct {
		Type     string `json:"type"`
		Room     string `json:"roomId"`
		Sender   string `json:"sender"`
		Receiver string `json:"receiver"`
		Content  string `json:"content"`
	}
	var p messagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad sendMessage payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	res, err := ctl.Chat.Send(
		domain.RoomID(p.Room),
		sid,
		domain.UserID(p.Sender),
		domain.UserID(p.Receiver),
		p.Content,
	)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(sid)).Msg("sendMessage rejected")
		ctl.sendError(conn, err.Error())
		return
	}

	ctl.sendJSON(conn, struct {
		Type   string `json:"type"`
		SentTo int    `json:"sentTo"`
	}{Type: "message_sent", SentTo: res.SentTo})
}
