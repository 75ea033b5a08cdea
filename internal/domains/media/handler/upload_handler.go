package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"sunkissed-backend/internal/domains/media/model"
	"sunkissed-backend/internal/domains/media/service"
	"sunkissed-backend/internal/shared/middleware"
	"sunkissed-backend/internal/shared/response"
)

type UploadHandler struct {
	service  service.ServiceInterface
	maxBytes int64
}

func NewUploadHandler(service service.ServiceInterface, maxBytes int64) *UploadHandler {
	return &UploadHandler{service: service, maxBytes: maxBytes}
}

// Upload - POST /v1/admin/uploads (multipart field "file")
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		model.HandleMediaError(c, model.ErrNoFile)
		return
	}
	if fileHeader.Size > h.maxBytes {
		model.HandleMediaError(c, fmt.Errorf("%w: %d bytes", model.ErrInvalidImage, fileHeader.Size))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "cannot read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		response.BadRequest(c, "cannot read uploaded file")
		return
	}

	var uploadedBy *string
	if adminID, ok := middleware.GetAuthenticatedUserID(c); ok {
		uploadedBy = &adminID
	}

	upload, err := h.service.Upload(c.Request.Context(), data, uploadedBy)
	if model.HandleMediaError(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, "Image uploaded", upload)
}

// GetUpload - GET /v1/admin/uploads/:id
func (h *UploadHandler) GetUpload(c *gin.Context) {
	upload, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if model.HandleMediaError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Upload loaded", upload)
}

// DeleteUpload - DELETE /v1/admin/uploads/:id
func (h *UploadHandler) DeleteUpload(c *gin.Context) {
	if model.HandleMediaError(c, h.service.Delete(c.Request.Context(), c.Param("id"))) {
		return
	}
	response.Success(c, http.StatusOK, "Upload deleted", nil)
}
