package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"

	"quilltips-backend/internal/shared"
)

type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(cfg *Config, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{
			Queues: map[string]int{
				shared.QueueEmail:     10,
				shared.QueueDefault:   5,
				shared.QueueAnalytics: 2,
			},
			Concurrency: 10,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq] task failed - type: %s, error: %v", task.Type(), err)
			}),
		},
	)

	go func() {
		log.Println("[Worker] starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[Worker] failed: %v", err)
		}
	}()

	return &asynqServer{Server: srv}
}
