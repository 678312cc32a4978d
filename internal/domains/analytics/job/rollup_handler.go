package job

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"quilltips-backend/internal/domains/analytics/repository"
	"quilltips-backend/internal/shared"
	"quilltips-backend/internal/shared/utils"
	"quilltips-backend/pkg/logger"
)

type RollupHandler struct {
	repo repository.Repository
}

func NewRollupHandler(repo repository.Repository) *RollupHandler {
	return &RollupHandler{repo: repo}
}

func (h *RollupHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.RollupDailyViewsPayload
	if err := utils.UnmarshalTask(t, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	day := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	if payload.Day != "" {
		parsed, err := time.Parse("2006-01-02", payload.Day)
		if err != nil {
			return fmt.Errorf("invalid day %q: %w", payload.Day, err)
		}
		day = parsed
	}

	rolled, err := h.repo.RollupDay(ctx, day)
	if err != nil {
		return fmt.Errorf("rollup views for %s: %w", day.Format("2006-01-02"), err)
	}

	logger.Info("rolled up page views", map[string]interface{}{
		"day":  day.Format("2006-01-02"),
		"rows": rolled,
	})
	return nil
}
