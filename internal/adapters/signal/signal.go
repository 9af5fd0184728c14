package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/harshadmt/Mentor-Mate-sub000/internal/app"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/auth"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/config"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/core"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type SignalWSController struct {
	Sup      *app.Supervisor
	Relay    *app.Relay
	Chat     *app.Chat
	Verifier *auth.TokenVerifier
	Cfg      *config.Config
}

func NewSignalWSController(sup *app.Supervisor, relay *app.Relay, chat *app.Chat, verifier *auth.TokenVerifier, cfg *config.Config) *SignalWSController {
	return &SignalWSController{
		Sup:      sup,
		Relay:    relay,
		Chat:     chat,
		Verifier: verifier,
		Cfg:      cfg,
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := domain.ConnID(uuid.NewString())
	log.Info().Str("module", "signal").Str("conn", string(sid)).Str("client", c.GetString("client_token")).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.Cfg.ReadLimit)

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.Cfg.SendBuffer),
	}

	ctl.Sup.Registry.Register(sid, conn)

	// Token is optional: anonymous connections can still join rooms, they
	// just carry no marketplace user id until join-room supplies one.
	if tok := c.Query("token"); tok != "" && ctl.Verifier != nil {
		if uid, err := ctl.Verifier.UserFromToken(tok); err != nil {
			log.Warn().Err(err).Str("module", "signal").Str("conn", string(sid)).Msg("token rejected")
		} else {
			ctl.Sup.Registry.SetUser(sid, uid)
		}
	}

	ctl.sendJSON(conn, struct {
		Type   string        `json:"type"`
		ConnID domain.ConnID `json:"connectionId"`
	}{Type: "connected", ConnID: sid})

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		ctl.writePump(ctx, conn)
		cancel()
	}()
	go func() {
		ctl.readPump(ctx, sid, conn)
		cancel()
	}()
}
