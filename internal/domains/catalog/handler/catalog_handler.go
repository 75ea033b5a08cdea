package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sunkissed-backend/internal/domains/catalog/model"
	"sunkissed-backend/internal/domains/catalog/service"
	"sunkissed-backend/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		model.HandleCatalogError(c, model.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// =====================================================
// PUBLIC
// =====================================================

// GetBuilderCatalog - GET /v1/builder/catalog
func (h *Handler) GetBuilderCatalog(c *gin.Context) {
	catalog, err := h.service.LoadCatalog(c.Request.Context())
	if model.HandleCatalogError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Catalog loaded", catalog)
}

// ListItems - GET /v1/jewelry-items?type=&charms=true
func (h *Handler) ListItems(c *gin.Context) {
	filter := model.ItemFilter{CharmsOnly: c.Query("charms") == "true"}
	if raw := c.Query("type"); raw != "" {
		typeID, err := uuid.Parse(raw)
		if err != nil {
			model.HandleCatalogError(c, model.ErrInvalidID)
			return
		}
		filter.TypeID = &typeID
	}

	items, err := h.service.ListItems(c.Request.Context(), filter)
	if model.HandleCatalogError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Jewelry items loaded", items)
}

// GetItem - GET /v1/jewelry-items/:id
func (h *Handler) GetItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := h.service.GetItem(c.Request.Context(), id)
	if model.HandleCatalogError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Jewelry item loaded", item)
}

// ListCharms - GET /v1/charms
func (h *Handler) ListCharms(c *gin.Context) {
	charms, err := h.service.ListCharms(c.Request.Context())
	if model.HandleCatalogError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Charms loaded", charms)
}

// GetCharm - GET /v1/charms/:id
func (h *Handler) GetCharm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	charm, err := h.service.GetCharm(c.Request.Context(), id)
	if model.HandleCatalogError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Charm loaded", charm)
}

// ListTypes - GET /v1/jewelry-types
func (h *Handler) ListTypes(c *gin.Context) {
	types, err := h.service.ListTypes(c.Request.Context())
	if model.HandleCatalogError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Jewelry types loaded", types)
}

// =====================================================
// ADMIN
// =====================================================

func (h *Handler) CreateItem(c *gin.Context) {
	var req model.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	item, err := h.service.CreateItem(c.Request.Context(), req)
	if model.HandleCatalogError(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, "Jewelry item created", item)
}

func (h *Handler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req model.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	item, err := h.service.UpdateItem(c.Request.Context(), id, req)
	if model.HandleCatalogError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Jewelry item updated", item)
}

func (h *Handler) DeleteItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if model.HandleCatalogError(c, h.service.DeleteItem(c.Request.Context(), id)) {
		return
	}
	response.Success(c, http.StatusOK, "Jewelry item deleted", nil)
}

func (h *Handler) CreateCharm(c *gin.Context) {
	var req model.CharmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	charm, err := h.service.CreateCharm(c.Request.Context(), req)
	if model.HandleCatalogError(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, "Charm created", charm)
}

func (h *Handler) UpdateCharm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req model.CharmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	charm, err := h.service.UpdateCharm(c.Request.Context(), id, req)
	if model.HandleCatalogError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Charm updated", charm)
}

func (h *Handler) DeleteCharm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if model.HandleCatalogError(c, h.service.DeleteCharm(c.Request.Context(), id)) {
		return
	}
	response.Success(c, http.StatusOK, "Charm deleted", nil)
}

func (h *Handler) CreateType(c *gin.Context) {
	var req model.TypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.service.CreateType(c.Request.Context(), req)
	if model.HandleCatalogError(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, "Jewelry type created", t)
}

func (h *Handler) UpdateType(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req model.TypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.service.UpdateType(c.Request.Context(), id, req)
	if model.HandleCatalogError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Jewelry type updated", t)
}

func (h *Handler) DeleteType(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if model.HandleCatalogError(c, h.service.DeleteType(c.Request.Context(), id)) {
		return
	}
	response.Success(c, http.StatusOK, "Jewelry type deleted", nil)
}
