// Package app assembles the store, change feed and services shared by
// the API server and the worker.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/practice-api/internal/config"
	"github.com/jwalitptl/practice-api/internal/feed"
	"github.com/jwalitptl/practice-api/internal/handler/health"
	"github.com/jwalitptl/practice-api/internal/ledger"
	"github.com/jwalitptl/practice-api/internal/repository"
	"github.com/jwalitptl/practice-api/internal/repository/mongodb"
	"github.com/jwalitptl/practice-api/internal/repository/postgres"
	"github.com/jwalitptl/practice-api/internal/service/appointment"
	"github.com/jwalitptl/practice-api/internal/service/broadcast"
	"github.com/jwalitptl/practice-api/internal/service/journal"
	"github.com/jwalitptl/practice-api/internal/service/meditation"
	"github.com/jwalitptl/practice-api/internal/service/patient"
	"github.com/jwalitptl/practice-api/pkg/clock"
	"github.com/jwalitptl/practice-api/pkg/messaging"
	"github.com/jwalitptl/practice-api/pkg/messaging/redis"
	"github.com/jwalitptl/practice-api/pkg/metrics"
	"github.com/jwalitptl/practice-api/pkg/validator"
)

type App struct {
	Config    *config.Config
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
	Store     repository.Store
	Notifier  messaging.Notifier
	Hub       *feed.Hub
	Location  *time.Location
	WeekStart time.Weekday

	Appointments *appointment.Service
	Patients     *patient.Service
	Ledger       *ledger.Ledger
	Journal      *journal.Service
	Broadcasts   *broadcast.Service
	Meditations  *meditation.Library

	checks map[string]health.Pinger
}

// New connects to the configured store and feed and builds every
// service on top of them.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	loc, err := cfg.Calendar.Location()
	if err != nil {
		return nil, err
	}
	weekStart, err := cfg.Calendar.Weekday()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(cfg.Metrics.Namespace, registry)

	store, err := OpenStore(ctx, cfg, m)
	if err != nil {
		return nil, err
	}

	notifier, err := OpenNotifier(ctx, cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Registry:  registry,
		Metrics:   m,
		Store:     store,
		Notifier:  notifier,
		Hub:       feed.NewHub(notifier, m, logger),
		Location:  loc,
		WeekStart: weekStart,
		checks:    map[string]health.Pinger{"store": store.Health},
	}
	if p, ok := notifier.(health.Pinger); ok {
		a.checks["feed"] = p
	}

	a.build(clock.System(loc), validator.New(), logger)
	return a, nil
}

func (a *App) build(clk clock.Clock, v validator.Validator, logger zerolog.Logger) {
	a.Appointments = appointment.NewService(
		a.Store.Appointments, a.Store.Patients, a.Hub, clk, v, a.Metrics, logger,
		appointment.Options{Location: a.Location, WeekStart: a.WeekStart},
	)
	a.Patients = patient.NewService(a.Store.Patients, a.Appointments, a.Hub, v, logger)
	a.Ledger = ledger.New(a.Store.Sessions, a.Store.Patients, a.Hub, clk, v, a.Metrics, logger)
	a.Journal = journal.NewService(a.Store.Journal, a.Hub, v)
	a.Broadcasts = broadcast.NewService(a.Store.Broadcasts, a.Hub, v, a.Location)
	a.Meditations = meditation.NewLibrary(v)
}

// Checks lists the dependencies the readiness probe pings.
func (a *App) Checks() map[string]health.Pinger {
	return a.checks
}

func (a *App) Close() error {
	return errors.Join(a.Notifier.Close(), a.Store.Close())
}

// OpenStore connects to the backend named by store.driver.
func OpenStore(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (repository.Store, error) {
	switch cfg.Store.Driver {
	case "mongo":
		client, err := mongodb.Connect(ctx, cfg.Mongo)
		if err != nil {
			return repository.Store{}, err
		}
		db := client.Database(cfg.Mongo.Database)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return repository.Store{}, err
		}
		return mongodb.NewStore(client, db, m), nil
	case "postgres":
		db, err := postgres.NewDB(cfg.Database)
		if err != nil {
			return repository.Store{}, err
		}
		return postgres.NewStore(db, m), nil
	default:
		return repository.Store{}, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// OpenNotifier returns the Redis notifier when replicas must share change
// notices, and an in-process one otherwise.
func OpenNotifier(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (messaging.Notifier, error) {
	switch cfg.Feed.Driver {
	case "redis":
		return redis.NewNotifier(ctx, redis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, logger)
	case "memory":
		return messaging.NewMemoryNotifier(), nil
	default:
		return nil, fmt.Errorf("unknown feed driver %q", cfg.Feed.Driver)
	}
}
