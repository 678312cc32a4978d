package main

import (
	"log"

	"quilltips-backend/internal/infrastructure/queue"
)

type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(cfg *Config) *asynqScheduler {
	scheduler := queue.NewScheduler(cfg.RedisAddr)

	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatalf("[Scheduler] failed to register: %v", err)
	}

	go func() {
		log.Println("[Scheduler] starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatalf("[Scheduler] failed: %v", err)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	log.Println("[Scheduler] shutting down...")
	s.Scheduler.Shutdown()
	log.Println("[Scheduler] stopped")
}
