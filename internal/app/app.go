// Package app wires configuration into the concrete adapters shared by the
// server and the one-shot reminder runner.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rokko/warranty-tracker/internal/api/handlers"
	"github.com/rokko/warranty-tracker/internal/config"
	"github.com/rokko/warranty-tracker/internal/dedup"
	"github.com/rokko/warranty-tracker/internal/email"
	"github.com/rokko/warranty-tracker/internal/email/resend"
	"github.com/rokko/warranty-tracker/internal/metrics"
	"github.com/rokko/warranty-tracker/internal/repository/postgres"
	"github.com/rokko/warranty-tracker/internal/service"
	"github.com/rokko/warranty-tracker/internal/storage/s3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const emailTimeout = 10 * time.Second

// NewLogger returns a console logger for local development and a JSON
// logger everywhere else.
func NewLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Environment == "development" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		logger = zerolog.New(output)
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// App holds the long-lived resources behind the services.
type App struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Registry *prometheus.Registry
	Services *service.Services
	Checks   []handlers.ReadinessCheck
}

// New connects to every configured backend. Redis and S3 are optional:
// without REDIS_URL reruns are not deduplicated, without S3 credentials
// receipt endpoints answer 503.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	db, err := postgres.NewConnection(cfg.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	a := &App{
		DB:       db,
		Registry: prometheus.NewRegistry(),
	}
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.Checks = append(a.Checks, handlers.ReadinessCheck{Name: "database", Check: func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}})

	deps := service.Deps{
		Metrics: metrics.New(a.Registry),
		Logger:  log,
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		a.Redis = redis.NewClient(opts)
		rdb := a.Redis
		a.Checks = append(a.Checks, handlers.ReadinessCheck{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
		if cfg.ReminderDedup {
			deps.Ledger = dedup.NewRedisLedger(rdb, dedup.DefaultTTL)
		}
	}

	if cfg.ReceiptStorageEnabled() {
		store, err := s3.NewStore(ctx, s3.Settings{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create receipt store: %w", err)
		}
		deps.Store = store
		a.Checks = append(a.Checks, handlers.ReadinessCheck{Name: "storage", Check: store.Ping})
	} else {
		log.Warn().Msg("[app.New] S3 is not configured, receipt uploads are disabled")
	}

	if cfg.ResendAPIKey != "" {
		deps.Sender = resend.NewSender(&http.Client{Timeout: emailTimeout}, resend.Settings{
			APIURL: cfg.ResendAPIURL,
			APIKey: cfg.ResendAPIKey,
		})
	} else {
		log.Warn().Msg("[app.New] RESEND_API_KEY is not set, reminder emails are only logged")
		deps.Sender = email.NewLogSender(log)
	}

	a.Services = service.NewServices(postgres.NewRepositories(db), cfg, deps)
	return a, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
