package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sunkissed-backend/internal/domains/order/model"
	"sunkissed-backend/internal/domains/order/service"
	"sunkissed-backend/internal/shared/middleware"
	"sunkissed-backend/internal/shared/response"
)

type OrderHandler struct {
	service service.ServiceInterface
}

func NewOrderHandler(service service.ServiceInterface) *OrderHandler {
	return &OrderHandler{service: service}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		model.HandleOrderError(c, model.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

func customer(c *gin.Context) model.Customer {
	userID, _ := middleware.GetAuthenticatedUserID(c)
	return model.Customer{UserID: userID, Email: c.GetString(middleware.ContextKeyEmail)}
}

// =====================================================
// ACCOUNT
// =====================================================

// ListMyOrders - GET /v1/orders
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	orders, err := h.service.ListForCustomer(c.Request.Context(), customer(c))
	if model.HandleOrderError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Orders loaded", orders)
}

// GetMyOrder - GET /v1/orders/:id
func (h *OrderHandler) GetMyOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.service.GetForCustomer(c.Request.Context(), id, customer(c))
	if model.HandleOrderError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Order loaded", order)
}

// =====================================================
// ADMIN
// =====================================================

// AdminListOrders - GET /v1/admin/orders?status=&page=&limit=
func (h *OrderHandler) AdminListOrders(c *gin.Context) {
	var q model.ListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	q.Normalize()

	orders, total, err := h.service.ListAll(c.Request.Context(), q)
	if model.HandleOrderError(c, err) {
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Orders loaded", orders, &response.Meta{
		Page: q.Page, Limit: q.Limit, Total: total,
	})
}

// AdminGetOrder - GET /v1/admin/orders/:id
func (h *OrderHandler) AdminGetOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.service.Get(c.Request.Context(), id)
	if model.HandleOrderError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Order loaded", order)
}

// Dashboard - GET /v1/admin/dashboard
func (h *OrderHandler) Dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context())
	if model.HandleOrderError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Dashboard loaded", stats)
}
