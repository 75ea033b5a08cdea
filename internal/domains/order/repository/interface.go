package repository

import (
	"context"

	"github.com/google/uuid"

	"sunkissed-backend/internal/domains/order/model"
)

// Repository reads orders. There are no write methods; checkout owns them.
type Repository interface {
	// ListAll returns one page of orders, newest first, filtered by status
	// when status is non-empty.
	ListAll(ctx context.Context, status string, limit, offset int) ([]model.Order, int, error)
	// ListForCustomer returns orders placed by the user id or, for guest
	// orders, under the same email.
	ListForCustomer(ctx context.Context, customer model.Customer) ([]model.Order, error)
	// Get returns the order with its items.
	Get(ctx context.Context, id uuid.UUID) (*model.Order, error)
	Stats(ctx context.Context) (*model.DashboardStats, error)
}
