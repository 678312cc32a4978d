package main

import (
	"github.com/hibiken/asynq"

	analyticsJob "quilltips-backend/internal/domains/analytics/job"
	tipJob "quilltips-backend/internal/domains/tip/job"
	emailJob "quilltips-backend/internal/infrastructure/email/job"
	"quilltips-backend/internal/shared"
	"quilltips-backend/pkg/container"
)

// HandlerRegistry holds all job handlers.
type HandlerRegistry struct {
	sendReceipt *tipJob.SendReceiptHandler
	sendWelcome *emailJob.WelcomeEmailHandler
	rollupViews *analyticsJob.RollupHandler
}

func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		sendReceipt: tipJob.NewSendReceiptHandler(c.Email),
		sendWelcome: emailJob.NewWelcomeEmailHandler(c.Email),
		rollupViews: analyticsJob.NewRollupHandler(c.AnalyticsRepo),
	}
}

// RegisterHandlers wires every task type to its handler.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeSendTipReceipt, h.sendReceipt.ProcessTask)
	mux.HandleFunc(shared.TypeSendWelcomeEmail, h.sendWelcome.ProcessTask)
	mux.HandleFunc(shared.TypeRollupDailyViews, h.rollupViews.ProcessTask)
}
