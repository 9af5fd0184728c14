package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/harshadmt/Mentor-Mate-sub000/internal/adapters/signal"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/app"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/config"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/metrics"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware pins a browser to a stable opaque token. It is not
// an identity; connection ids stay per-socket.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, ctl *signal.SignalWSController, rooms *app.Rooms, m *metrics.Metrics) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("MentorMateSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	api.GET("/ws/signal", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("ws signal endpoint hit")
		ctl.HandleSignal(ctx, c)
	})

	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, rooms.List())
	})

	// Both peers need the same ICE servers to gather matching candidates.
	api.GET("/rtc/config", func(c *gin.Context) {
		ice := []webrtc.ICEServer{{URLs: cfg.StunURLs}}
		c.JSON(http.StatusOK, gin.H{"iceServers": ice})
	})

	api.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, m.Snapshot())
	})

	return r
}
