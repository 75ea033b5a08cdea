package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"sunkissed-backend/internal/shared"
	"sunkissed-backend/internal/shared/utils"
	"sunkissed-backend/pkg/logger"
)

// ScheduleConfig holds the cron specs for periodic jobs.
type ScheduleConfig struct {
	TrendingEvery string
}

type Scheduler struct {
	scheduler *asynq.Scheduler
	config    ScheduleConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, config ScheduleConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		config:    config,
	}
}

// RegisterJobs registers every periodic task.
func (s *Scheduler) RegisterJobs() error {
	return s.registerRefreshTrendingJob()
}

// ================================================
// Refresh trending designs
// ================================================
// The API serves trending from cache; this keeps the cached list warm.
func (s *Scheduler) registerRefreshTrendingJob() error {
	task, err := utils.NewTask(shared.TypeRefreshTrending, shared.RefreshTrendingPayload{})
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		s.config.TrendingEvery,
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(2*time.Minute),
		asynq.Unique(time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register RefreshTrending job", err)
		return err
	}

	logger.Info("Registered RefreshTrending", map[string]interface{}{"cron": s.config.TrendingEvery})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
