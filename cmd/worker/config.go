package main

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"sunkissed-backend/internal/config"
	"sunkissed-backend/internal/infrastructure/queue"
)

// Config holds all configuration for the worker
type Config struct {
	Redis           asynq.RedisClientOpt
	Concurrency     int
	ShutdownTimeout time.Duration
	HealthAddr      string
	Schedule        queue.ScheduleConfig
}

// loadConfig derives the worker settings from the application config.
func loadConfig(app *config.Config) *Config {
	cfg := &Config{
		Redis: asynq.RedisClientOpt{
			Addr:     app.Redis.Host,
			Password: app.Redis.Password,
			DB:       app.Redis.DB,
		},
		Concurrency:     app.Worker.Concurrency,
		ShutdownTimeout: app.Worker.ShutdownTimeout,
		HealthAddr:      getEnv("WORKER_HEALTH_ADDR", ":9999"),
		Schedule: queue.ScheduleConfig{
			TrendingEvery: app.Worker.TrendingEvery,
		},
	}

	log.Info().
		Str("redis", cfg.Redis.Addr).
		Int("concurrency", cfg.Concurrency).
		Str("trending_cron", cfg.Schedule.TrendingEvery).
		Msg("Worker config loaded")

	return cfg
}
