package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sunkissed-backend/internal/domains/settings/model"
	"sunkissed-backend/internal/domains/settings/service"
	"sunkissed-backend/internal/shared/response"
)

type SettingsHandler struct {
	service service.ServiceInterface
}

func NewSettingsHandler(service service.ServiceInterface) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// GetSettings - GET /v1/settings
// An unconfigured store answers with an empty object.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.service.Get(c.Request.Context())
	if model.HandleSettingsError(c, err) {
		return
	}
	if settings == nil {
		response.Success(c, http.StatusOK, "Settings loaded", gin.H{})
		return
	}
	response.Success(c, http.StatusOK, "Settings loaded", settings)
}

// UpdateSettings - PUT /v1/admin/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	settings, err := h.service.Update(c.Request.Context(), req)
	if model.HandleSettingsError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Settings saved", settings)
}
