package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sunkissed-backend/internal/domains/order/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const orderColumns = `
	o.id, o.user_id, o.customer_name, o.customer_email, o.status, o.total,
	(SELECT COALESCE(SUM(i.quantity), 0) FROM order_items i WHERE i.order_id = o.id),
	o.created_at, o.updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.CustomerName, &o.CustomerEmail, &o.Status, &o.Total,
		&o.ItemCount, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Finish()
	return &o, nil
}

func (r *postgresRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return orders, nil
}

func (r *postgresRepository) ListAll(ctx context.Context, status string, limit, offset int) ([]model.Order, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM orders WHERE ($1 = '' OR status = $1)`
	if err := r.pool.QueryRow(ctx, countQuery, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM orders o
		WHERE ($1 = '' OR o.status = $1)
		ORDER BY o.created_at DESC
		LIMIT $2 OFFSET $3
	`, orderColumns)

	orders, err := r.queryOrders(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *postgresRepository) ListForCustomer(ctx context.Context, customer model.Customer) ([]model.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM orders o
		WHERE o.user_id = $1 OR LOWER(o.customer_email) = LOWER($2)
		ORDER BY o.created_at DESC
	`, orderColumns)

	return r.queryOrders(ctx, query, customer.UserID, customer.Email)
}

func (r *postgresRepository) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders o WHERE o.id = $1`, orderColumns)

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	order.Finish()
	return order, nil
}

func (r *postgresRepository) items(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, product_id, design_code, name, unit_price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY name
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	items := make([]model.OrderItem, 0)
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.DesignCode, &item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return items, nil
}

func (r *postgresRepository) Stats(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM designs),
			(SELECT COALESCE(SUM(total), 0) FROM orders WHERE status <> $1)
	`, string(model.StatusCancelled)).Scan(&stats.Products, &stats.Categories, &stats.Orders, &stats.Designs, &stats.Revenue)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	recent, _, err := r.ListAll(ctx, "", model.RecentOrderLimit, 0)
	if err != nil {
		return nil, err
	}
	stats.RecentOrders = recent
	return &stats, nil
}
