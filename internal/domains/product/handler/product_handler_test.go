package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sunkissed-backend/internal/domains/product/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockService struct {
	mock.Mock
}

func (m *mockService) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called()
	c, _ := args.Get(0).([]model.Category)
	return c, args.Error(1)
}

func (m *mockService) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	args := m.Called(slug)
	c, _ := args.Get(0).(*model.Category)
	return c, args.Error(1)
}

func (m *mockService) CreateCategory(ctx context.Context, req model.CategoryRequest) (*model.Category, error) {
	args := m.Called(req)
	c, _ := args.Get(0).(*model.Category)
	return c, args.Error(1)
}

func (m *mockService) UpdateCategory(ctx context.Context, id uuid.UUID, req model.CategoryRequest) (*model.Category, error) {
	args := m.Called(id, req)
	c, _ := args.Get(0).(*model.Category)
	return c, args.Error(1)
}

func (m *mockService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *mockService) ListProducts(ctx context.Context, q model.ListProductsQuery) ([]model.ProductView, int, error) {
	args := m.Called(q)
	p, _ := args.Get(0).([]model.ProductView)
	return p, args.Int(1), args.Error(2)
}

func (m *mockService) GetProductBySlug(ctx context.Context, slug string) (*model.ProductView, error) {
	args := m.Called(slug)
	p, _ := args.Get(0).(*model.ProductView)
	return p, args.Error(1)
}

func (m *mockService) GetProduct(ctx context.Context, id uuid.UUID) (*model.ProductView, error) {
	args := m.Called(id)
	p, _ := args.Get(0).(*model.ProductView)
	return p, args.Error(1)
}

func (m *mockService) CreateProduct(ctx context.Context, req model.ProductRequest) (*model.ProductView, error) {
	args := m.Called(req)
	p, _ := args.Get(0).(*model.ProductView)
	return p, args.Error(1)
}

func (m *mockService) UpdateProduct(ctx context.Context, id uuid.UUID, req model.ProductRequest) (*model.ProductView, error) {
	args := m.Called(id, req)
	p, _ := args.Get(0).(*model.ProductView)
	return p, args.Error(1)
}

func (m *mockService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *mockService) Search(ctx context.Context, term string, limit int) (*model.SearchResult, error) {
	args := m.Called(term, limit)
	r, _ := args.Get(0).(*model.SearchResult)
	return r, args.Error(1)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Total int `json:"total"`
	} `json:"meta"`
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func newRouter(svc *mockService) *gin.Engine {
	h := NewProductHandler(svc)
	r := gin.New()
	r.GET("/categories", h.ListCategories)
	r.GET("/categories/:slug", h.GetCategory)
	r.GET("/products", h.ListProducts)
	r.GET("/products/:slug", h.GetProduct)
	r.GET("/search", h.Search)
	r.POST("/admin/products", h.CreateProduct)
	r.PUT("/admin/products/:id", h.UpdateProduct)
	r.DELETE("/admin/categories/:id", h.DeleteCategory)
	return r
}

func TestListProductsPassesNormalizedQuery(t *testing.T) {
	svc := &mockService{}
	want := model.ListProductsQuery{Category: "rings", Featured: true, Page: 2, Limit: 24}
	svc.On("ListProducts", want).Return([]model.ProductView{{Product: model.Product{Name: "Sun Ring"}}}, 30, nil)

	w, env := do(t, newRouter(svc), http.MethodGet, "/products?category=Rings&featured=true&page=2", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, env.Meta.Page)
	assert.Equal(t, 24, env.Meta.Limit)
	assert.Equal(t, 30, env.Meta.Total)
	svc.AssertExpectations(t)
}

func TestGetProductNotFound(t *testing.T) {
	svc := &mockService{}
	svc.On("GetProductBySlug", "missing").Return(nil, model.ErrProductNotFound)

	w, env := do(t, newRouter(svc), http.MethodGet, "/products/missing", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}

func TestGetCategory(t *testing.T) {
	svc := &mockService{}
	svc.On("GetCategoryBySlug", "rings").Return(&model.Category{Name: "Rings", Slug: "rings"}, nil)

	w, env := do(t, newRouter(svc), http.MethodGet, "/categories/rings", "")

	require.Equal(t, http.StatusOK, w.Code)
	var category model.Category
	require.NoError(t, json.Unmarshal(env.Data, &category))
	assert.Equal(t, "Rings", category.Name)
}

func TestSearch(t *testing.T) {
	t.Run("passes term and clamped limit", func(t *testing.T) {
		svc := &mockService{}
		svc.On("Search", "gold hoops", model.MaxSearchResults).
			Return(&model.SearchResult{Query: "gold hoops", Products: []model.ProductView{}}, nil)

		w, _ := do(t, newRouter(svc), http.MethodGet, "/search?q=gold+hoops&limit=500", "")

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("short term is a bad request", func(t *testing.T) {
		svc := &mockService{}
		svc.On("Search", "g", model.MaxSearchResults).Return(nil, model.ErrSearchTooShort)

		w, _ := do(t, newRouter(svc), http.MethodGet, "/search?q=g", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("store failure is unavailable", func(t *testing.T) {
		svc := &mockService{}
		svc.On("Search", "gold", 10).Return(nil, errors.Join(model.ErrRetrieval, errors.New("timeout")))

		w, _ := do(t, newRouter(svc), http.MethodGet, "/search?q=gold&limit=10", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestCreateProduct(t *testing.T) {
	categoryID := uuid.New()
	svc := &mockService{}
	svc.On("CreateProduct", mock.MatchedBy(func(req model.ProductRequest) bool {
		return req.Name == "Sun Hoops" && req.CategoryID == categoryID && req.Price.Equal(decimal.NewFromInt(24))
	})).Return(&model.ProductView{Product: model.Product{ID: uuid.New(), Name: "Sun Hoops"}}, nil)

	body := `{"name":"Sun Hoops","price":"24","category_id":"` + categoryID.String() + `"}`
	w, env := do(t, newRouter(svc), http.MethodPost, "/admin/products", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	svc.AssertExpectations(t)
}

func TestUpdateProductInvalidID(t *testing.T) {
	svc := &mockService{}

	w, _ := do(t, newRouter(svc), http.MethodPut, "/admin/products/not-a-uuid", `{"name":"x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything)
}

func TestDeleteCategoryInUse(t *testing.T) {
	id := uuid.New()
	svc := &mockService{}
	svc.On("DeleteCategory", id).Return(model.ErrCategoryInUse)

	w, _ := do(t, newRouter(svc), http.MethodDelete, "/admin/categories/"+id.String(), "")

	assert.Equal(t, http.StatusConflict, w.Code)
}
