package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"sunkissed-backend/internal/domains/product/model"
	"sunkissed-backend/internal/domains/product/repository"
	"sunkissed-backend/internal/shared/utils"
	"sunkissed-backend/pkg/cache"
)

type ProductService struct {
	repo     repository.Repository
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewService(repo repository.Repository, c cache.Cache, cacheTTL time.Duration) ServiceInterface {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &ProductService{repo: repo, cache: c, cacheTTL: cacheTTL}
}

func cached[T any](ctx context.Context, s *ProductService, key string, load func() (T, error)) (T, error) {
	var hit T
	found, err := s.cache.Get(ctx, key, &hit)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("shop cache read failed")
	} else if found {
		return hit, nil
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("shop cache write failed")
	}
	return value, nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, model.CacheKeyPattern); err != nil {
		log.Warn().Err(err).Msg("shop cache invalidation failed")
	}
}

// =====================================================
// CATEGORIES
// =====================================================

func (s *ProductService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return cached(ctx, s, model.CacheKeyCategories, func() ([]model.Category, error) {
		categories, err := s.repo.ListCategories(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrRetrieval, err)
		}
		return categories, nil
	})
}

func (s *ProductService) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return s.repo.GetCategoryBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}

func (s *ProductService) CreateCategory(ctx context.Context, req model.CategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	category := &model.Category{}
	req.Apply(category)

	slug, err := s.repo.UniqueSlug(ctx, "categories", utils.GenerateSlug(category.Name), uuid.Nil)
	if err != nil {
		return nil, err
	}
	category.Slug = slug

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Info().Str("category_id", category.ID.String()).Str("slug", category.Slug).Msg("category created")
	return category, nil
}

func (s *ProductService) UpdateCategory(ctx context.Context, id uuid.UUID, req model.CategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	renamed := category.Name != strings.TrimSpace(req.Name)
	req.Apply(category)
	if renamed {
		slug, err := s.repo.UniqueSlug(ctx, "categories", utils.GenerateSlug(category.Name), category.ID)
		if err != nil {
			return nil, err
		}
		category.Slug = slug
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return category, nil
}

func (s *ProductService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// =====================================================
// PRODUCTS
// =====================================================

func (s *ProductService) ListProducts(ctx context.Context, query model.ListProductsQuery) ([]model.ProductView, int, error) {
	query.Normalize()

	products, total, err := s.repo.ListProducts(ctx, query.Filter())
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", model.ErrRetrieval, err)
	}
	return model.NewProductViews(products), total, nil
}

func (s *ProductService) GetProductBySlug(ctx context.Context, slug string) (*model.ProductView, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	product, err := cached(ctx, s, model.CacheKeyProductPrefix+slug, func() (*model.Product, error) {
		return s.repo.GetProductBySlug(ctx, slug)
	})
	if err != nil {
		return nil, err
	}
	view := model.NewProductView(*product)
	return &view, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*model.ProductView, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	view := model.NewProductView(*product)
	return &view, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req model.ProductRequest) (*model.ProductView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	product := &model.Product{}
	req.Apply(product)

	slug, err := s.repo.UniqueSlug(ctx, "products", utils.GenerateSlug(product.Name), uuid.Nil)
	if err != nil {
		return nil, err
	}
	product.Slug = slug

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Info().Str("product_id", product.ID.String()).Str("slug", product.Slug).Msg("product created")
	return s.GetProduct(ctx, product.ID)
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req model.ProductRequest) (*model.ProductView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.CategoryID != req.CategoryID {
		if _, err := s.repo.GetCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
	}

	renamed := product.Name != strings.TrimSpace(req.Name)
	req.Apply(product)
	if renamed {
		slug, err := s.repo.UniqueSlug(ctx, "products", utils.GenerateSlug(product.Name), product.ID)
		if err != nil {
			return nil, err
		}
		product.Slug = slug
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return s.GetProduct(ctx, product.ID)
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// =====================================================
// SEARCH
// =====================================================

func (s *ProductService) Search(ctx context.Context, term string, limit int) (*model.SearchResult, error) {
	term = strings.Join(strings.Fields(term), " ")
	result := &model.SearchResult{Query: term, Products: []model.ProductView{}}
	if term == "" {
		return result, nil
	}
	if utf8.RuneCountInString(term) < model.MinSearchLength {
		return nil, model.ErrSearchTooShort
	}
	if limit < 1 || limit > model.MaxSearchResults {
		limit = model.MaxSearchResults
	}

	products, err := s.repo.SearchProducts(ctx, term, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRetrieval, err)
	}
	result.Products = model.NewProductViews(products)
	result.Count = len(result.Products)
	return result, nil
}
