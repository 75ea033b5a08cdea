package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MaxProductImages = 10
	MinSearchLength  = 2
	MaxSearchResults = 50
)

// ========================================
// CATEGORY DTOs
// ========================================

type CategoryRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       *string `json:"image"`
	SortOrder   *int    `json:"sort_order"`
}

func (r CategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(2, 120)),
		validation.Field(&r.Image, validation.NilOrNotEmpty, is.RequestURI),
		validation.Field(&r.SortOrder, validation.When(r.SortOrder != nil, validation.Min(0))),
	)
}

func (r CategoryRequest) Apply(c *Category) {
	c.Name = strings.TrimSpace(r.Name)
	c.Description = r.Description
	c.Image = r.Image
	if r.SortOrder != nil {
		c.SortOrder = *r.SortOrder
	}
}

// ========================================
// PRODUCT DTOs
// ========================================

type ProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	CompareAt   *decimal.Decimal `json:"compare_at"`
	Images      []string         `json:"images"`
	CategoryID  uuid.UUID        `json:"category_id"`
	Featured    *bool            `json:"featured"`
	InStock     *bool            `json:"in_stock"`
}

func (r ProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(2, 200)),
		validation.Field(&r.Price, validation.By(nonNegative)),
		validation.Field(&r.CompareAt, validation.By(nonNegative)),
		validation.Field(&r.Images,
			validation.Length(0, MaxProductImages),
			validation.Each(validation.Required, is.RequestURI),
		),
		validation.Field(&r.CategoryID, validation.By(func(value interface{}) error {
			if id, ok := value.(uuid.UUID); ok && id == uuid.Nil {
				return validation.NewError("validation_required", "category_id is required")
			}
			return nil
		})),
	)
}

func (r ProductRequest) Apply(p *Product) {
	p.Name = strings.TrimSpace(r.Name)
	p.Description = r.Description
	p.Price = r.Price.Round(2)
	p.CompareAt = nil
	if r.CompareAt != nil {
		compareAt := r.CompareAt.Round(2)
		p.CompareAt = &compareAt
	}
	p.Images = append([]string{}, r.Images...)
	p.CategoryID = r.CategoryID
	if r.Featured != nil {
		p.Featured = *r.Featured
	}
	if r.InStock != nil {
		p.InStock = *r.InStock
	} else if p.ID == uuid.Nil {
		p.InStock = true
	}
}

type ListProductsQuery struct {
	Category string `form:"category"`
	Featured bool   `form:"featured"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

func (q *ListProductsQuery) Normalize() {
	q.Category = strings.TrimSpace(strings.ToLower(q.Category))
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 24
	}
}

func (q ListProductsQuery) Filter() ProductFilter {
	return ProductFilter{
		CategorySlug: q.Category,
		FeaturedOnly: q.Featured,
		Limit:        q.Limit,
		Offset:       (q.Page - 1) * q.Limit,
	}
}

// SearchResult echoes the normalized query next to its matches.
type SearchResult struct {
	Query    string        `json:"query"`
	Products []ProductView `json:"products"`
	Count    int           `json:"count"`
}

func nonNegative(value interface{}) error {
	var d *decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		d = &v
	case *decimal.Decimal:
		d = v
	}
	if d != nil && d.IsNegative() {
		return validation.NewError("validation_negative", "must not be negative")
	}
	return nil
}
