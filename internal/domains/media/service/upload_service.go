package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"sunkissed-backend/internal/domains/media/model"
	"sunkissed-backend/internal/domains/media/repository"
	"sunkissed-backend/internal/infrastructure/storage"
	"sunkissed-backend/internal/shared"
	"sunkissed-backend/internal/shared/utils"
)

type ServiceInterface interface {
	// Upload validates and stores the original image, then queues variant
	// rendering.
	Upload(ctx context.Context, data []byte, uploadedBy *string) (*model.Upload, error)
	Get(ctx context.Context, id string) (*model.Upload, error)
	Delete(ctx context.Context, id string) error

	// Worker side
	ProcessUpload(ctx context.Context, id string) error
	DeleteObjects(ctx context.Context, id string) error
}

type UploadService struct {
	repo      repository.Repository
	storage   storage.ObjectStorage
	processor *storage.ImageProcessor
	enqueuer  shared.TaskEnqueuer
}

func NewService(
	repo repository.Repository,
	store storage.ObjectStorage,
	processor *storage.ImageProcessor,
	enqueuer shared.TaskEnqueuer,
) *UploadService {
	return &UploadService{
		repo:      repo,
		storage:   store,
		processor: processor,
		enqueuer:  enqueuer,
	}
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, model.ErrUploadNotFound
	}
	return id, nil
}

func extension(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}

func (s *UploadService) Upload(ctx context.Context, data []byte, uploadedBy *string) (*model.Upload, error) {
	if len(data) == 0 {
		return nil, model.ErrNoFile
	}
	info, err := s.processor.ValidateImage(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidImage, err)
	}

	upload := &model.Upload{
		ID:          uuid.New(),
		ContentType: info.ContentType,
		SizeBytes:   int64(len(data)),
		Width:       info.Width,
		Height:      info.Height,
		Variants:    map[string]string{},
		Status:      model.StatusPending,
		UploadedBy:  uploadedBy,
	}
	upload.ObjectKey = model.OriginalKey(upload.ID, extension(info.Format))

	url, err := s.storage.Upload(ctx, upload.ObjectKey, data, info.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStorage, err)
	}
	upload.URL = url

	if err := s.repo.Create(ctx, upload); err != nil {
		if delErr := s.storage.Delete(ctx, upload.ObjectKey); delErr != nil {
			log.Warn().Err(delErr).Str("key", upload.ObjectKey).Msg("failed to remove orphaned upload")
		}
		return nil, err
	}

	s.enqueue(shared.TypeProcessUploadImage, shared.ProcessUploadPayload{UploadID: upload.ID.String()},
		asynq.MaxRetry(3), asynq.Timeout(2*time.Minute))

	log.Info().
		Str("upload_id", upload.ID.String()).
		Int64("size", upload.SizeBytes).
		Str("content_type", upload.ContentType).
		Msg("image uploaded")
	return upload, nil
}

func (s *UploadService) enqueue(taskType string, payload interface{}, opts ...asynq.Option) {
	task, err := utils.NewTask(taskType, payload)
	if err != nil {
		log.Error().Err(err).Str("task", taskType).Msg("failed to encode task payload")
		return
	}
	opts = append(opts, asynq.Queue(shared.QueueMedia))
	if _, err := s.enqueuer.Enqueue(task, opts...); err != nil {
		log.Error().Err(err).Str("task", taskType).Msg("failed to enqueue media task")
	}
}

func (s *UploadService) Get(ctx context.Context, id string) (*model.Upload, error) {
	uploadID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, uploadID)
}

// Delete removes the record now and the stored objects in the background.
func (s *UploadService) Delete(ctx context.Context, id string) error {
	uploadID, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, uploadID); err != nil {
		return err
	}
	s.enqueue(shared.TypeDeleteUploadObjects, shared.DeleteUploadPayload{UploadID: id}, asynq.MaxRetry(5))
	return nil
}

// =====================================================
// WORKER
// =====================================================

// ProcessUpload renders every variant of the original and records their URLs.
// A broken original marks the upload failed.
func (s *UploadService) ProcessUpload(ctx context.Context, id string) error {
	uploadID, err := parseID(id)
	if err != nil {
		return err
	}
	upload, err := s.repo.GetByID(ctx, uploadID)
	if err != nil {
		return err
	}
	if upload.Status == model.StatusReady {
		return nil
	}

	original, err := s.storage.Download(ctx, upload.ObjectKey)
	if err != nil {
		return fmt.Errorf("download original: %w", err)
	}

	variants, err := s.processor.ProcessImage(original)
	if err != nil {
		if markErr := s.repo.MarkFailed(ctx, uploadID); markErr != nil {
			log.Warn().Err(markErr).Str("upload_id", id).Msg("failed to mark upload failed")
		}
		return fmt.Errorf("%w: %v", model.ErrInvalidImage, err)
	}

	urls := make(map[string]string, len(variants))
	for name, data := range variants {
		url, err := s.storage.Upload(ctx, model.VariantKey(uploadID, name), data, "image/jpeg")
		if err != nil {
			return fmt.Errorf("upload %s variant: %w", name, err)
		}
		urls[name] = url
	}

	if err := s.repo.MarkReady(ctx, uploadID, urls); err != nil {
		return err
	}
	log.Info().Str("upload_id", id).Int("variants", len(urls)).Msg("upload variants ready")
	return nil
}

func (s *UploadService) DeleteObjects(ctx context.Context, id string) error {
	uploadID, err := parseID(id)
	if err != nil {
		return err
	}
	return s.storage.DeleteByPrefix(ctx, model.KeyPrefix(uploadID))
}
