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

type SendReceiptHandler struct {
	emailService emailInfra.EmailService
}

func NewSendReceiptHandler(emailService emailInfra.EmailService) *SendReceiptHandler {
	return &SendReceiptHandler{emailService: emailService}
}

func (h *SendReceiptHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.TipReceiptPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	logger.Info("sending tip receipt", map[string]interface{}{
		"tip_id": payload.TipID,
		"email":  payload.ReaderEmail,
	})

	err := h.emailService.SendTipReceipt(ctx, emailInfra.TipReceiptData{
		Email:      payload.ReaderEmail,
		AuthorName: payload.AuthorName,
		BookTitle:  payload.BookTitle,
		Amount:     payload.Amount,
		Currency:   payload.Currency,
	})
	if err != nil {
		return fmt.Errorf("send receipt: %w", err)
	}
	return nil
}
