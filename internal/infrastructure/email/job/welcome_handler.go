package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	emailInfra "quilltips-backend/internal/infrastructure/email"
	"quilltips-backend/internal/shared"
	"quilltips-backend/internal/shared/utils"
	"quilltips-backend/pkg/logger"
)

type WelcomeEmailHandler struct {
	emailService emailInfra.EmailService
}

func NewWelcomeEmailHandler(emailService emailInfra.EmailService) *WelcomeEmailHandler {
	return &WelcomeEmailHandler{emailService: emailService}
}

func (h *WelcomeEmailHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.WelcomeEmailPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	logger.Info("sending welcome email", map[string]interface{}{"email": payload.Email})

	err := h.emailService.SendWelcomeEmail(ctx, emailInfra.WelcomeData{
		Email: payload.Email,
		Name:  payload.Name,
	})
	if err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	return nil
}
