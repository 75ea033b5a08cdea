package service

import (
	"context"

	"github.com/google/uuid"

	"sunkissed-backend/internal/domains/product/model"
)

// ServiceInterface serves the ready-made shop: categories, products and search.
type ServiceInterface interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error)
	CreateCategory(ctx context.Context, req model.CategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req model.CategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListProducts(ctx context.Context, query model.ListProductsQuery) ([]model.ProductView, int, error)
	GetProductBySlug(ctx context.Context, slug string) (*model.ProductView, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.ProductView, error)
	CreateProduct(ctx context.Context, req model.ProductRequest) (*model.ProductView, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req model.ProductRequest) (*model.ProductView, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// Search trims term; a blank term yields an empty result, not an error.
	Search(ctx context.Context, term string, limit int) (*model.SearchResult, error)
}
