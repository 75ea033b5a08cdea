package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"sunkissed-backend/internal/domains/order/model"
	"sunkissed-backend/internal/domains/order/repository"
)

type OrderService struct {
	repo repository.Repository
}

func NewService(repo repository.Repository) ServiceInterface {
	return &OrderService{repo: repo}
}

func (s *OrderService) ListAll(ctx context.Context, q model.ListOrdersQuery) ([]model.Order, int, error) {
	q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, 0, err
	}

	orders, total, err := s.repo.ListAll(ctx, q.Status, q.Limit, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", model.ErrRetrieval, err)
	}
	return orders, total, nil
}

func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *OrderService) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRetrieval, err)
	}
	if stats.RecentOrders == nil {
		stats.RecentOrders = []model.Order{}
	}
	return stats, nil
}

func (s *OrderService) ListForCustomer(ctx context.Context, customer model.Customer) ([]model.Order, error) {
	if customer.UserID == "" {
		return nil, model.ErrUnauthorized
	}
	customer.Email = strings.TrimSpace(customer.Email)

	orders, err := s.repo.ListForCustomer(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRetrieval, err)
	}
	return orders, nil
}

func (s *OrderService) GetForCustomer(ctx context.Context, id uuid.UUID, customer model.Customer) (*model.Order, error) {
	if customer.UserID == "" {
		return nil, model.ErrUnauthorized
	}

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !placedBy(order, customer) {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

func placedBy(order *model.Order, customer model.Customer) bool {
	if order.UserID != nil && *order.UserID == customer.UserID {
		return true
	}
	email := strings.TrimSpace(customer.Email)
	return email != "" && strings.EqualFold(order.CustomerEmail, email)
}
