package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/practice-api/internal/app"
	"github.com/jwalitptl/practice-api/internal/config"
	"github.com/jwalitptl/practice-api/internal/handler/appointment"
	"github.com/jwalitptl/practice-api/internal/handler/broadcast"
	"github.com/jwalitptl/practice-api/internal/handler/health"
	"github.com/jwalitptl/practice-api/internal/handler/journal"
	"github.com/jwalitptl/practice-api/internal/handler/meditation"
	"github.com/jwalitptl/practice-api/internal/handler/patient"
	"github.com/jwalitptl/practice-api/internal/handler/prometheus"
	"github.com/jwalitptl/practice-api/internal/handler/session"
	"github.com/jwalitptl/practice-api/internal/middleware"
	"github.com/jwalitptl/practice-api/internal/router"
	"github.com/jwalitptl/practice-api/pkg/auth"
	"github.com/jwalitptl/practice-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	zl := logger.Setup(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, zl)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store.Driver).Str("feed", cfg.Feed.Driver).Msg("failed to initialize")
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error().Err(err).Msg("failed to release connections")
		}
	}()

	handlers := router.Handlers{
		Appointments: appointment.NewHandler(a.Appointments),
		Patients:     patient.NewHandler(a.Patients),
		Sessions:     session.NewHandler(a.Ledger),
		Journal:      journal.NewHandler(a.Journal),
		Broadcasts:   broadcast.NewHandler(a.Broadcasts),
		Meditations:  meditation.NewHandler(a.Meditations),
		Health:       health.NewHandler(a.Checks()),
		Metrics:      prometheus.New(cfg.Metrics.Namespace, a.Registry),
	}

	authMiddleware := middleware.NewAuthMiddleware(auth.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer))

	r := router.NewRouter(authMiddleware, handlers, router.RouterConfig{
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimit: middleware.RateLimiterConfig{
			Rate:  router.Limit(cfg.RateLimit.RPS),
			Burst: cfg.RateLimit.Burst,
			TTL:   cfg.RateLimit.TTL,
		},
		CORSConfig:   middleware.DefaultCORSConfig(cfg.Server.AllowedOrigins),
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})
	r.Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r.Engine(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("failed to start server")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server exited properly")
}
