package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"quilltips-backend/internal/shared"
	"quilltips-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress string) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)
	return &Scheduler{scheduler: scheduler}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerRollupDailyViewsJob()
}

// Rolls up yesterday's raw page views shortly after midnight UTC, when
// the day's rows stop changing.
func (s *Scheduler) registerRollupDailyViewsJob() error {
	payload, err := json.Marshal(shared.RollupDailyViewsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeRollupDailyViews, payload)

	_, err = s.scheduler.Register(
		"30 0 * * *",
		task,
		asynq.Queue(shared.QueueAnalytics),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("failed to register RollupDailyViews job", err)
		return err
	}

	logger.Info("registered RollupDailyViews: daily at 00:30 UTC", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
