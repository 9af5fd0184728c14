package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/harshadmt/Mentor-Mate-sub000/internal/domain"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	ticker := time.NewTicker(ctl.Cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, sid domain.ConnID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(sid)).Msg("readPump closing")
		ctl.Sup.Disconnect(sid)
		c.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.Cfg.HeartbeatTimeout))
	c.conn.SetPongHandler(func(string) error {
		ctl.Sup.Registry.Touch(sid)
		return c.conn.SetReadDeadline(time.Now().Add(ctl.Cfg.HeartbeatTimeout))
	})

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("conn", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("conn", string(sid)).Msg("readPump read error")
				return
			}
			// Any inbound event counts as liveness.
			ctl.Sup.Registry.Touch(sid)
			_ = c.conn.SetReadDeadline(time.Now().Add(ctl.Cfg.HeartbeatTimeout))
			ctl.handleSignal(sid, c, data)
		}
	}
}

func (ctl *SignalWSController) handleSignal(sid domain.ConnID, c *WsSignalConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case "joinRoom":
		ctl.handleJoinChat(sid, c, data)
	case "join-room":
		ctl.handleJoinVideo(sid, c, data)
	case "sendMessage":
		ctl.handleSendMessage(sid, c, data)
	case "offer", "answer", "ice-candidate":
		ctl.handleRelay(sid, c, env.Type, data)
	case "ping":
		ctl.handlePing(sid, c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *SignalWSController) sendError(c *WsSignalConn, msg string) {
	ctl.sendJSON(c, map[string]any{
		"type":  "error",
		"error": msg,
	})
}
