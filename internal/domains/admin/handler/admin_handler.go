package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sunkissed-backend/internal/domains/admin/model"
	"sunkissed-backend/internal/domains/admin/service"
	"sunkissed-backend/internal/shared/middleware"
	"sunkissed-backend/internal/shared/response"
)

type AdminHandler struct {
	service service.ServiceInterface
}

func NewAdminHandler(service service.ServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

// Login - POST /v1/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if model.HandleAdminError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Logged in", res)
}

// Me - GET /v1/admin/me
func (h *AdminHandler) Me(c *gin.Context) {
	adminID, _ := middleware.GetAuthenticatedUserID(c)

	admin, err := h.service.Me(c.Request.Context(), adminID)
	if model.HandleAdminError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Admin loaded", admin)
}
