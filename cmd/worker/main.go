package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/practice-api/internal/app"
	"github.com/jwalitptl/practice-api/internal/config"
	"github.com/jwalitptl/practice-api/internal/digest"
	"github.com/jwalitptl/practice-api/internal/email"
	"github.com/jwalitptl/practice-api/pkg/logger"
)

const runTimeout = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	zl := logger.Setup(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, zl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize")
	}
	defer a.Close()

	if len(cfg.Digest.Recipients) == 0 {
		log.Warn().Msg("No digest recipients configured")
	}

	d := digest.New(
		a.Appointments,
		a.Patients,
		a.Ledger,
		email.NewSMTPService(cfg.Digest.From, cfg.Digest.SMTP),
		cfg.Digest.Recipients,
		a.Metrics,
		zl,
	)

	job, err := digest.NewJob(cfg.Digest.Schedule, a.Location, d, runTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule digest")
	}
	job.Start()
	log.Info().
		Str("schedule", cfg.Digest.Schedule).
		Int("recipients", len(cfg.Digest.Recipients)).
		Msg("Worker started")

	<-ctx.Done()
	log.Info().Msg("Shutting down...")
	<-job.Stop().Done()
}
