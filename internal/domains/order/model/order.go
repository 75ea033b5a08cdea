package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Order is a placed order. Orders are written by checkout, which lives
// outside this service; here they are only read.
type Order struct {
	ID            uuid.UUID       `json:"id"`
	Reference     string          `json:"reference"`
	UserID        *string         `json:"user_id,omitempty"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	Status        Status          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
	Items         []OrderItem     `json:"items,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderItem is one line. ProductID is nil once the product is deleted and
// DesignCode is set for configurator pieces.
type OrderItem struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  *uuid.UUID      `json:"product_id,omitempty"`
	DesignCode *string         `json:"design_code,omitempty"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

// ShortReference is the customer-facing order number: the last six
// characters of the id, upper-cased.
func ShortReference(id uuid.UUID) string {
	s := strings.ReplaceAll(id.String(), "-", "")
	return "#" + strings.ToUpper(s[len(s)-6:])
}

// Finish fills the derived fields after a load.
func (o *Order) Finish() {
	o.Reference = ShortReference(o.ID)
	for i := range o.Items {
		item := &o.Items[i]
		item.LineTotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	}
}

// DashboardStats is the admin overview. Revenue excludes cancelled orders.
type DashboardStats struct {
	Products     int             `json:"products"`
	Categories   int             `json:"categories"`
	Orders       int             `json:"orders"`
	Designs      int             `json:"designs"`
	Revenue      decimal.Decimal `json:"revenue"`
	RecentOrders []Order         `json:"recent_orders"`
}

const RecentOrderLimit = 5
