package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"sunkissed-backend/internal/domains/media/model"
	"sunkissed-backend/internal/domains/media/service"
	"sunkissed-backend/internal/shared"
	"sunkissed-backend/internal/shared/utils"
)

// ProcessUploadHandler renders the size variants of an uploaded image.
type ProcessUploadHandler struct {
	service service.ServiceInterface
}

func NewProcessUploadHandler(service service.ServiceInterface) *ProcessUploadHandler {
	return &ProcessUploadHandler{service: service}
}

func (h *ProcessUploadHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ProcessUploadPayload
	if err := utils.UnmarshalTask(task, &payload); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal ProcessUpload payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Info().Str("upload_id", payload.UploadID).Msg("processing upload variants")

	err := h.service.ProcessUpload(ctx, payload.UploadID)
	// Retrying cannot fix a missing row or an undecodable image.
	if errors.Is(err, model.ErrUploadNotFound) || errors.Is(err, model.ErrInvalidImage) {
		log.Warn().Err(err).Str("upload_id", payload.UploadID).Msg("dropping upload task")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if err != nil {
		log.Error().Err(err).Str("upload_id", payload.UploadID).Msg("failed to process upload")
		return fmt.Errorf("process upload: %w", err)
	}
	return nil
}

// DeleteUploadHandler removes every stored object of a deleted upload.
type DeleteUploadHandler struct {
	service service.ServiceInterface
}

func NewDeleteUploadHandler(service service.ServiceInterface) *DeleteUploadHandler {
	return &DeleteUploadHandler{service: service}
}

func (h *DeleteUploadHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeleteUploadPayload
	if err := utils.UnmarshalTask(task, &payload); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal DeleteUpload payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.service.DeleteObjects(ctx, payload.UploadID); err != nil {
		log.Error().Err(err).Str("upload_id", payload.UploadID).Msg("failed to delete upload objects")
		return fmt.Errorf("delete upload objects: %w", err)
	}

	log.Info().Str("upload_id", payload.UploadID).Msg("upload objects deleted")
	return nil
}
