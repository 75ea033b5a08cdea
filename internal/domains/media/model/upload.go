package model

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"sunkissed-backend/internal/shared/response"
)

type UploadStatus string

const (
	StatusPending UploadStatus = "pending"
	StatusReady   UploadStatus = "ready"
	StatusFailed  UploadStatus = "failed"
)

type Upload struct {
	ID          uuid.UUID         `json:"id"`
	ObjectKey   string            `json:"object_key"`
	URL         string            `json:"url"`
	ContentType string            `json:"content_type"`
	SizeBytes   int64             `json:"size_bytes"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Variants    map[string]string `json:"variants"`
	Status      UploadStatus      `json:"status"`
	UploadedBy  *string           `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Object keys live below "uploads/<id>/".
func KeyPrefix(id uuid.UUID) string {
	return fmt.Sprintf("uploads/%s/", id)
}

func OriginalKey(id uuid.UUID, ext string) string {
	return KeyPrefix(id) + "original." + ext
}

func VariantKey(id uuid.UUID, variant string) string {
	return KeyPrefix(id) + variant + ".jpg"
}

// =====================================================
// ERRORS
// =====================================================

var (
	ErrNoFile         = errors.New("no file uploaded")
	ErrInvalidImage   = errors.New("invalid image")
	ErrUploadNotFound = errors.New("upload not found")
	ErrStorage        = errors.New("upload storage failed")
)

var mediaErrorMap = map[error]struct {
	Status  int
	Title   string
	Message string
}{
	ErrNoFile:         {http.StatusBadRequest, "No file", "Attach an image in the file field"},
	ErrInvalidImage:   {http.StatusBadRequest, "Invalid image", "Only JPEG and PNG images up to 5MB are accepted"},
	ErrUploadNotFound: {http.StatusNotFound, "Upload not found", "The upload does not exist"},
	ErrStorage:        {http.StatusInternalServerError, "Upload failed", "Upload failed, try again"},
}

// HandleMediaError writes the envelope for err and reports whether it did.
func HandleMediaError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for target, cfg := range mediaErrorMap {
		if errors.Is(err, target) {
			if cfg.Status >= http.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("media request failed")
			}
			response.Error(c, cfg.Status, cfg.Title, cfg.Message)
			return true
		}
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled media error")
	response.InternalServerError(c, "Internal server error")
	return true
}
