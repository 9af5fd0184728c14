package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/harshadmt/Mentor-Mate-sub000/internal/adapters/http"
	signalws "github.com/harshadmt/Mentor-Mate-sub000/internal/adapters/signal"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/app"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/auth"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/config"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/core"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/metrics"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	var (
		sessions core.SessionStore
		notifier core.Notifier
		messages core.MessageStore
	)
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect collaborator store")
		}
		defer pg.Close()
		sessions, notifier, messages = pg, pg, pg
	} else {
		log.Warn().Msg("no database_url configured, collaborator effects are log-only")
		sessions, notifier, messages = store.Noop{}, store.Noop{}, store.Noop{}
	}

	m := metrics.New()
	registry := app.NewRegistry()
	rooms := app.NewRooms(registry)
	tracker := app.NewTracker(sessions, m, cfg.CollabTimeout)
	relay := app.NewRelay(registry, m)

	sup := &app.Supervisor{
		Registry:         registry,
		Rooms:            rooms,
		Tracker:          tracker,
		Metrics:          m,
		HeartbeatTimeout: cfg.HeartbeatTimeout,
	}
	go sup.Run(ctx)

	chat := app.NewChat(rooms, messages, notifier, m, app.SimplePolicy{}, sup, cfg.CollabTimeout)

	var verifier *auth.TokenVerifier
	if cfg.Secret != "" {
		verifier = auth.NewTokenVerifier(cfg.Secret)
	}

	ctl := signalws.NewSignalWSController(sup, relay, chat, verifier, cfg)

	r := router.SetupRouter(ctx, cfg, ctl, rooms, m)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("MentorMate realtime server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
