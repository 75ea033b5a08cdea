package service

import (
	"context"

	"github.com/google/uuid"

	"sunkissed-backend/internal/domains/order/model"
)

type ServiceInterface interface {
	ListAll(ctx context.Context, q model.ListOrdersQuery) ([]model.Order, int, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Order, error)
	Dashboard(ctx context.Context) (*model.DashboardStats, error)

	ListForCustomer(ctx context.Context, customer model.Customer) ([]model.Order, error)
	// GetForCustomer hides orders the customer did not place behind ErrOrderNotFound.
	GetForCustomer(ctx context.Context, id uuid.UUID, customer model.Customer) (*model.Order, error)
}
