package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sunkissed-backend/internal/domains/product/model"
	"sunkissed-backend/internal/domains/product/service"
	"sunkissed-backend/internal/shared/response"
	"sunkissed-backend/internal/shared/utils"
)

type ProductHandler struct {
	service service.ServiceInterface
}

func NewProductHandler(service service.ServiceInterface) *ProductHandler {
	return &ProductHandler{service: service}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		model.HandleProductError(c, model.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// =====================================================
// STOREFRONT
// =====================================================

// ListCategories - GET /v1/categories
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if model.HandleProductError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Categories loaded", categories)
}

// GetCategory - GET /v1/categories/:slug
func (h *ProductHandler) GetCategory(c *gin.Context) {
	category, err := h.service.GetCategoryBySlug(c.Request.Context(), c.Param("slug"))
	if model.HandleProductError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Category loaded", category)
}

// ListProducts - GET /v1/products?category=&featured=true&page=&limit=
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var q model.ListProductsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	q.Normalize()

	products, total, err := h.service.ListProducts(c.Request.Context(), q)
	if model.HandleProductError(c, err) {
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Products loaded", products, &response.Meta{
		Page: q.Page, Limit: q.Limit, Total: total,
	})
}

// GetProduct - GET /v1/products/:slug
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if model.HandleProductError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Product loaded", product)
}

// Search - GET /v1/search?q=&limit=
func (h *ProductHandler) Search(c *gin.Context) {
	limit := utils.ParseLimit(c.Query("limit"), model.MaxSearchResults, model.MaxSearchResults)

	result, err := h.service.Search(c.Request.Context(), c.Query("q"), limit)
	if model.HandleProductError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Search results", result)
}

// =====================================================
// ADMIN
// =====================================================

func (h *ProductHandler) AdminGetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	product, err := h.service.GetProduct(c.Request.Context(), id)
	if model.HandleProductError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Product loaded", product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req model.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	product, err := h.service.CreateProduct(c.Request.Context(), req)
	if model.HandleProductError(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, "Product created", product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req model.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	product, err := h.service.UpdateProduct(c.Request.Context(), id, req)
	if model.HandleProductError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Product updated", product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if model.HandleProductError(c, h.service.DeleteProduct(c.Request.Context(), id)) {
		return
	}
	response.Success(c, http.StatusOK, "Product deleted", nil)
}

func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var req model.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	category, err := h.service.CreateCategory(c.Request.Context(), req)
	if model.HandleProductError(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, "Category created", category)
}

func (h *ProductHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req model.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	category, err := h.service.UpdateCategory(c.Request.Context(), id, req)
	if model.HandleProductError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Category updated", category)
}

func (h *ProductHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if model.HandleProductError(c, h.service.DeleteCategory(c.Request.Context(), id)) {
		return
	}
	response.Success(c, http.StatusOK, "Category deleted", nil)
}
