package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PersonalisedCategorySlug marks products that take an engraving.
const PersonalisedCategorySlug = "personalised-jewellery"

type Category struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Image        *string   `json:"image"`
	SortOrder    int       `json:"sort_order"`
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Product is a ready-made piece sold as is, outside the configurator.
type Product struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Slug         string           `json:"slug"`
	Description  string           `json:"description"`
	Price        decimal.Decimal  `json:"price"`
	CompareAt    *decimal.Decimal `json:"compare_at"`
	Images       []string         `json:"images"`
	CategoryID   uuid.UUID        `json:"category_id"`
	CategoryName string           `json:"category_name"`
	CategorySlug string           `json:"category_slug"`
	Featured     bool             `json:"featured"`
	InStock      bool             `json:"in_stock"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// OnSale reports whether a higher compare-at price is shown next to Price.
func (p Product) OnSale() bool {
	return p.CompareAt != nil && p.CompareAt.GreaterThan(p.Price)
}

func (p Product) Personalisable() bool {
	return p.CategorySlug == PersonalisedCategorySlug
}

// ProductView is the storefront shape of a product.
type ProductView struct {
	Product
	OnSale         bool `json:"on_sale"`
	Personalisable bool `json:"personalisable"`
}

func NewProductView(p Product) ProductView {
	if p.Images == nil {
		p.Images = []string{}
	}
	return ProductView{Product: p, OnSale: p.OnSale(), Personalisable: p.Personalisable()}
}

func NewProductViews(products []Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, NewProductView(p))
	}
	return views
}

type ProductFilter struct {
	CategorySlug string
	FeaturedOnly bool
	Limit        int
	Offset       int
}

// =====================================================
// CACHE KEYS
// =====================================================

const (
	CacheKeyCategories    = "shop:categories"
	CacheKeyProductPrefix = "shop:product:"
	CacheKeyPattern       = "shop:*"
)
