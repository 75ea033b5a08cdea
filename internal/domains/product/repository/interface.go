package repository

import (
	"context"

	"github.com/google/uuid"

	"sunkissed-backend/internal/domains/product/model"
)

// Repository is the data access contract for shop categories and products.
type Repository interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error)
	CreateCategory(ctx context.Context, c *model.Category) error
	UpdateCategory(ctx context.Context, c *model.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	// SearchProducts matches term against product name, description and
	// category name, case-insensitively.
	SearchProducts(ctx context.Context, term string, limit int) ([]model.Product, error)
	CreateProduct(ctx context.Context, p *model.Product) error
	UpdateProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// UniqueSlug returns base, or base with a numeric suffix, unused in table.
	UniqueSlug(ctx context.Context, table, base string, exclude uuid.UUID) (string, error)
}
