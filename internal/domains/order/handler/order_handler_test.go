package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sunkissed-backend/internal/domains/order/model"
	"sunkissed-backend/internal/shared/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockService struct {
	mock.Mock
}

func (m *mockService) ListAll(ctx context.Context, q model.ListOrdersQuery) ([]model.Order, int, error) {
	args := m.Called(q)
	o, _ := args.Get(0).([]model.Order)
	return o, args.Int(1), args.Error(2)
}

func (m *mockService) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(id)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

func (m *mockService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	args := m.Called()
	s, _ := args.Get(0).(*model.DashboardStats)
	return s, args.Error(1)
}

func (m *mockService) ListForCustomer(ctx context.Context, customer model.Customer) ([]model.Order, error) {
	args := m.Called(customer)
	o, _ := args.Get(0).([]model.Order)
	return o, args.Error(1)
}

func (m *mockService) GetForCustomer(ctx context.Context, id uuid.UUID, customer model.Customer) (*model.Order, error) {
	args := m.Called(id, customer)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Total int `json:"total"`
	} `json:"meta"`
}

func newRouter(svc *mockService, userID string) *gin.Engine {
	h := NewOrderHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextKeyUserID, userID)
			c.Set(middleware.ContextKeyEmail, userID+"@example.com")
		}
		c.Next()
	})
	r.GET("/orders", h.ListMyOrders)
	r.GET("/orders/:id", h.GetMyOrder)
	r.GET("/admin/orders", h.AdminListOrders)
	r.GET("/admin/orders/:id", h.AdminGetOrder)
	r.GET("/admin/dashboard", h.Dashboard)
	return r
}

func get(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestListMyOrdersUsesTokenIdentity(t *testing.T) {
	svc := &mockService{}
	svc.On("ListForCustomer", model.Customer{UserID: "ana", Email: "ana@example.com"}).
		Return([]model.Order{{CustomerName: "Ana"}}, nil)

	w, env := get(t, newRouter(svc, "ana"), "/orders")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	svc.AssertExpectations(t)
}

func TestGetMyOrderOfAnotherCustomer(t *testing.T) {
	id := uuid.New()
	svc := &mockService{}
	svc.On("GetForCustomer", id, mock.Anything).Return(nil, model.ErrOrderNotFound)

	w, _ := get(t, newRouter(svc, "ana"), "/orders/"+id.String())

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMyOrderInvalidID(t *testing.T) {
	svc := &mockService{}

	w, _ := get(t, newRouter(svc, "ana"), "/orders/123")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "GetForCustomer", mock.Anything, mock.Anything)
}

func TestAdminListOrders(t *testing.T) {
	svc := &mockService{}
	want := model.ListOrdersQuery{Status: "pending", Page: 1, Limit: 20}
	svc.On("ListAll", want).Return([]model.Order{{Status: model.StatusPending}}, 41, nil)

	w, env := get(t, newRouter(svc, "admin"), "/admin/orders?status=PENDING")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 41, env.Meta.Total)
	assert.Equal(t, 20, env.Meta.Limit)
	svc.AssertExpectations(t)
}

func TestAdminListOrdersUnavailable(t *testing.T) {
	svc := &mockService{}
	svc.On("ListAll", mock.Anything).Return(nil, 0, model.ErrRetrieval)

	w, _ := get(t, newRouter(svc, "admin"), "/admin/orders")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDashboard(t *testing.T) {
	svc := &mockService{}
	svc.On("Dashboard").Return(&model.DashboardStats{
		Products: 12, Orders: 3, Revenue: decimal.NewFromInt(180), RecentOrders: []model.Order{},
	}, nil)

	w, env := get(t, newRouter(svc, "admin"), "/admin/dashboard")

	require.Equal(t, http.StatusOK, w.Code)
	var stats model.DashboardStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 12, stats.Products)
	assert.True(t, stats.Revenue.Equal(decimal.NewFromInt(180)))
}
