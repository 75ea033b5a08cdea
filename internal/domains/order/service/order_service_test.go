package service

import (
	"context"
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunkissed-backend/internal/domains/order/model"
)

type fakeRepo struct {
	orders     map[uuid.UUID]*model.Order
	lastStatus string
	lastLimit  int
	lastOffset int
	fail       error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: map[uuid.UUID]*model.Order{}}
}

func (f *fakeRepo) ListAll(ctx context.Context, status string, limit, offset int) ([]model.Order, int, error) {
	f.lastStatus, f.lastLimit, f.lastOffset = status, limit, offset
	if f.fail != nil {
		return nil, 0, f.fail
	}
	out := []model.Order{}
	for _, o := range f.orders {
		if status == "" || string(o.Status) == status {
			out = append(out, *o)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListForCustomer(ctx context.Context, customer model.Customer) ([]model.Order, error) {
	out := []model.Order{}
	for _, o := range f.orders {
		if (o.UserID != nil && *o.UserID == customer.UserID) || o.CustomerEmail == customer.Email {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeRepo) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (f *fakeRepo) Stats(ctx context.Context) (*model.DashboardStats, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return &model.DashboardStats{Orders: len(f.orders), Revenue: decimal.NewFromInt(120)}, nil
}

func addOrder(repo *fakeRepo, userID *string, email string, status model.Status) *model.Order {
	o := &model.Order{
		ID: uuid.New(), UserID: userID, CustomerName: "Ana", CustomerEmail: email,
		Status: status, Total: decimal.NewFromInt(60),
	}
	o.Finish()
	repo.orders[o.ID] = o
	return o
}

func TestListAllFiltersByStatus(t *testing.T) {
	repo := newFakeRepo()
	addOrder(repo, nil, "a@example.com", model.StatusPending)
	addOrder(repo, nil, "b@example.com", model.StatusShipped)
	svc := NewService(repo)

	orders, total, err := svc.ListAll(context.Background(), model.ListOrdersQuery{Status: " Shipped ", Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, "shipped", repo.lastStatus)
	assert.Equal(t, 10, repo.lastOffset)
}

func TestListAllRejectsUnknownStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, _, err := svc.ListAll(context.Background(), model.ListOrdersQuery{Status: "refunded"})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "Status")
	assert.Zero(t, repo.lastLimit)
}

func TestListAllStoreFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.fail = errors.New("connection reset")
	svc := NewService(repo)

	_, _, err := svc.ListAll(context.Background(), model.ListOrdersQuery{})
	assert.ErrorIs(t, err, model.ErrRetrieval)
	assert.Equal(t, 20, repo.lastLimit)
}

func TestGetForCustomer(t *testing.T) {
	repo := newFakeRepo()
	userID := "user-1"
	own := addOrder(repo, &userID, "ana@example.com", model.StatusPending)
	guest := addOrder(repo, nil, "Ana@Example.com", model.StatusDelivered)
	other := addOrder(repo, nil, "someone@example.com", model.StatusPending)
	svc := NewService(repo)
	customer := model.Customer{UserID: userID, Email: "ana@example.com"}

	got, err := svc.GetForCustomer(context.Background(), own.ID, customer)
	require.NoError(t, err)
	assert.Equal(t, own.Reference, got.Reference)

	_, err = svc.GetForCustomer(context.Background(), guest.ID, customer)
	assert.NoError(t, err, "guest order under the same email")

	_, err = svc.GetForCustomer(context.Background(), other.ID, customer)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)

	_, err = svc.GetForCustomer(context.Background(), own.ID, model.Customer{})
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestListForCustomerRequiresUser(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.ListForCustomer(context.Background(), model.Customer{Email: "ana@example.com"})
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestDashboard(t *testing.T) {
	repo := newFakeRepo()
	addOrder(repo, nil, "a@example.com", model.StatusPending)
	svc := NewService(repo)

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Orders)
	assert.NotNil(t, stats.RecentOrders)

	repo.fail = errors.New("timeout")
	_, err = svc.Dashboard(context.Background())
	assert.ErrorIs(t, err, model.ErrRetrieval)
}
