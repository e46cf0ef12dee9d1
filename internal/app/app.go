// Package app wires the shared infrastructure used by both binaries.
package app

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ereshiii/pet-connect/internal/audit"
	"github.com/ereshiii/pet-connect/internal/config"
	dbpkg "github.com/ereshiii/pet-connect/internal/db"
	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
	"github.com/ereshiii/pet-connect/internal/infra/notify"
	infraRepo "github.com/ereshiii/pet-connect/internal/infra/repository"
	"github.com/ereshiii/pet-connect/internal/logger"
	"github.com/ereshiii/pet-connect/internal/metrics"
	"github.com/ereshiii/pet-connect/internal/timezone"
	"github.com/ereshiii/pet-connect/internal/usecase/jobs"
)

const metricsNamespace = "petconnect"

type App struct {
	Config   *config.Config
	Log      zerolog.Logger
	DB       *gorm.DB
	Repo     domain.Repository
	Notifier domain.Notifier
	Audit    *audit.Dispatcher
	AuditLog *audit.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Clock    timezone.Clock

	redis *redis.Client
}

// New opens the database and builds every shared dependency. subsystem
// labels the Prometheus collectors ("api" or "scheduler").
func New(ctx context.Context, cfg *config.Config, subsystem string) (*App, error) {
	log := logger.New(cfg.Env, cfg.LogLevel).With().Str("service", subsystem).Logger()

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	auditLog := audit.New(db)

	a := &App{
		Config:   cfg,
		Log:      log,
		DB:       db,
		Repo:     infraRepo.NewCachedHours(infraRepo.NewAppointmentGormRepository(db), cfg.HoursCacheTTL),
		Audit:    audit.NewDispatcher(auditLog, log),
		AuditLog: auditLog,
		Registry: reg,
		Metrics:  metrics.NewMetrics(reg, metricsNamespace, subsystem),
		Clock:    timezone.SystemClock{},
	}

	if cfg.RedisURL == "" {
		log.Warn().Msg("REDIS_URL not set, notifications are only logged")
		a.Notifier = notify.NewLogNotifier(log)
		return a, nil
	}

	client, err := notify.NewRedisClient(cfg.RedisURL)
	if err != nil {
		a.Close()
		return nil, err
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		a.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	a.redis = client
	a.Notifier = notify.NewRedisNotifier(client, cfg.NotifyChannel)

	return a, nil
}

// Jobs builds the batch job runner.
func (a *App) Jobs() *jobs.Runner {
	return jobs.NewRunner(jobs.Deps{
		Repo:          a.Repo,
		Notifier:      a.Notifier,
		Audit:         a.Audit,
		Metrics:       a.Metrics,
		Clock:         a.Clock,
		Log:           a.Log,
		BatchSize:     a.Config.BatchSize,
		SearchMaxDays: a.Config.SearchMaxDays,
	})
}

// Close flushes the audit queue and releases connections.
func (a *App) Close() {
	a.Audit.Close()

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Log.Warn().Err(err).Msg("closing redis")
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.Log.Warn().Err(err).Msg("closing database")
		}
	}
}
