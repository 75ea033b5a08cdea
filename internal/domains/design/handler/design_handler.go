package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sunkissed-backend/internal/domains/design/model"
	"sunkissed-backend/internal/domains/design/service"
	"sunkissed-backend/internal/shared/middleware"
	"sunkissed-backend/internal/shared/response"
)

type DesignHandler struct {
	service service.ServiceInterface
}

func NewDesignHandler(service service.ServiceInterface) *DesignHandler {
	return &DesignHandler{service: service}
}

// CreateDesign - POST /v1/custom-designs
func (h *DesignHandler) CreateDesign(c *gin.Context) {
	var req model.CreateDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if model.HandleDesignError(c, req.Validate()) {
		return
	}

	input := model.ShareDesignInput{
		JewelryItemID: req.JewelryItemID,
		SlotCount:     req.SlotCount,
		Placements:    req.Placements,
		Name:          req.Name,
		Tags:          req.Tags,
		TotalPrice:    req.TotalPrice,
		IsPublic:      req.IsPublic,
	}
	if userID, ok := middleware.GetAuthenticatedUserID(c); ok {
		input.UserID = &userID
	}

	design, err := h.service.ShareDesign(c.Request.Context(), input)
	if model.HandleDesignError(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, "Design shared", design)
}

// ListDesigns - GET /v1/custom-designs?code= | ?public=true | ?mine=true
func (h *DesignHandler) ListDesigns(c *gin.Context) {
	if code := c.Query("code"); code != "" {
		h.loadByCode(c, code)
		return
	}

	var q model.ListDesignsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	q.Normalize()

	var (
		designs []model.Design
		total   int
		err     error
	)
	switch {
	case c.Query("public") == "true":
		designs, total, err = h.service.ListPublic(c.Request.Context(), q)
	case c.Query("mine") == "true":
		userID, ok := middleware.GetAuthenticatedUserID(c)
		if !ok {
			response.Unauthorized(c, "login required")
			return
		}
		designs, total, err = h.service.ListMine(c.Request.Context(), userID, q)
	default:
		response.BadRequest(c, "one of code, public=true or mine=true is required")
		return
	}
	if model.HandleDesignError(c, err) {
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Designs loaded", designs, &response.Meta{
		Page: q.Page, Limit: q.Limit, Total: total,
	})
}

// GetDesign - GET /v1/custom-designs/:code
func (h *DesignHandler) GetDesign(c *gin.Context) {
	h.loadByCode(c, c.Param("code"))
}

func (h *DesignHandler) loadByCode(c *gin.Context, code string) {
	design, found, err := h.service.LoadDesign(c.Request.Context(), code)
	if model.HandleDesignError(c, err) {
		return
	}
	if !found {
		model.HandleDesignError(c, model.ErrDesignNotFound)
		return
	}

	h.service.RecordView(c.Request.Context(), design.ShareCode)
	response.Success(c, http.StatusOK, "Design loaded", design)
}

// Trending - GET /v1/custom-designs/trending
func (h *DesignHandler) Trending(c *gin.Context) {
	designs, err := h.service.Trending(c.Request.Context())
	if model.HandleDesignError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Trending designs", designs)
}

// ToggleLike - POST /v1/custom-designs/:code/like
func (h *DesignHandler) ToggleLike(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "login required")
		return
	}

	res, err := h.service.ToggleLike(c.Request.Context(), c.Param("code"), userID)
	if model.HandleDesignError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Like updated", res)
}

// DeleteDesign - DELETE /v1/custom-designs/:code (owner only)
func (h *DesignHandler) DeleteDesign(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "login required")
		return
	}
	if model.HandleDesignError(c, h.service.DeleteDesign(c.Request.Context(), c.Param("code"), &userID)) {
		return
	}
	response.Success(c, http.StatusOK, "Design deleted", nil)
}

// =====================================================
// ADMIN
// =====================================================

// AdminListDesigns - GET /v1/admin/custom-designs
func (h *DesignHandler) AdminListDesigns(c *gin.Context) {
	var q model.ListDesignsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	q.Normalize()

	designs, total, err := h.service.ListAll(c.Request.Context(), q)
	if model.HandleDesignError(c, err) {
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Designs loaded", designs, &response.Meta{
		Page: q.Page, Limit: q.Limit, Total: total,
	})
}

// AdminRecordPurchase - POST /v1/admin/custom-designs/:code/purchase
func (h *DesignHandler) AdminRecordPurchase(c *gin.Context) {
	count, err := h.service.RecordPurchase(c.Request.Context(), c.Param("code"))
	if model.HandleDesignError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Purchase recorded", gin.H{"purchase_count": count})
}

// AdminDeleteDesign - DELETE /v1/admin/custom-designs/:code
func (h *DesignHandler) AdminDeleteDesign(c *gin.Context) {
	if model.HandleDesignError(c, h.service.DeleteDesign(c.Request.Context(), c.Param("code"), nil)) {
		return
	}
	response.Success(c, http.StatusOK, "Design deleted", nil)
}

// AdminExportDesigns - GET /v1/admin/custom-designs/export
func (h *DesignHandler) AdminExportDesigns(c *gin.Context) {
	data, err := h.service.ExportDesigns(c.Request.Context())
	if model.HandleDesignError(c, err) {
		return
	}

	filename := fmt.Sprintf("custom-designs-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
