package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"sunkissed-backend/internal/domains/design/model"
	"sunkissed-backend/internal/shared"
	"sunkissed-backend/internal/shared/utils"
)

// ViewCounter is implemented by the design service.
type ViewCounter interface {
	IncrementViews(ctx context.Context, code string) error
}

// RecordViewHandler increments the view counter of a shared design.
type RecordViewHandler struct {
	counter ViewCounter
}

func NewRecordViewHandler(counter ViewCounter) *RecordViewHandler {
	return &RecordViewHandler{counter: counter}
}

func (h *RecordViewHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.RecordDesignViewPayload
	if err := utils.UnmarshalTask(task, &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal RecordDesignView payload")
		return fmt.Errorf("unmarshal payload: %w", asynq.SkipRetry)
	}

	err := h.counter.IncrementViews(ctx, payload.ShareCode)
	if errors.Is(err, model.ErrDesignNotFound) {
		// deleted since the view was queued
		log.Debug().Str("share_code", payload.ShareCode).Msg("view for missing design dropped")
		return nil
	}
	if err != nil {
		log.Error().Err(err).Str("share_code", payload.ShareCode).Msg("Failed to record design view")
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}
