package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/harshadmt/Mentor-Mate-sub000/internal/app"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/domain"
)

func (ctl *SignalWSController) handleJoinChat(
	sid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Type string `json:"type"`
		Room string `json:"roomId"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad joinRoom payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	roomID := domain.RoomID(p.Room)
	log.Info().Str("module", "signal").Str("conn", string(sid)).Str("room", p.Room).Msg("joinRoom")

	res, err := ctl.Sup.JoinChat(sid, roomID)
	if err != nil {
		ctl.joinError(conn, err)
		return
	}
	ctl.sendRoomState(conn, roomID, domain.KindChat, res)
}

func (ctl *SignalWSController) handleJoinVideo(
	sid domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Type string `json:"type"`
		Room string `json:"roomId"`
		User string `json:"userId"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join-room payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	roomID := domain.RoomID(p.Room)
	log.Info().Str("module", "signal").Str("conn", string(sid)).Str("room", p.Room).Str("user", p.User).Msg("join-room")

	res, err := ctl.Sup.JoinVideo(sid, domain.UserID(p.User), roomID)
	if err != nil {
		ctl.joinError(conn, err)
		return
	}
	ctl.sendRoomState(conn, roomID, domain.KindVideo, res)
}

// sendRoomState gives the joiner a snapshot of who is already present so
// it can address signaling offers at them.
func (ctl *SignalWSController) sendRoomState(conn *WsSignalConn, room domain.RoomID, kind domain.RoomKind, res app.JoinResult) {
	resp := struct {
		Type    string          `json:"type"`
		Room    domain.RoomID   `json:"roomId"`
		Kind    string          `json:"kind"`
		First   bool            `json:"first"`
		Members []domain.ConnID `json:"members"`
	}{
		Type:    "room_state",
		Room:    room,
		Kind:    kind.String(),
		First:   res.First,
		Members: res.Members,
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *SignalWSController) joinError(conn *WsSignalConn, err error) {
	switch {
	case errors.Is(err, app.ErrKindMismatch):
		ctl.sendError(conn, "room kind mismatch")
	case errors.Is(err, app.ErrNotRegistered):
		ctl.sendError(conn, "not connected")
	default:
		ctl.sendError(conn, err.Error())
	}
}
