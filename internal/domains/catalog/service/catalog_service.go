package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"sunkissed-backend/internal/domains/catalog/model"
	"sunkissed-backend/internal/domains/catalog/repository"
	"sunkissed-backend/internal/shared/utils"
	"sunkissed-backend/pkg/cache"
)

type CatalogService struct {
	repo     repository.Repository
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewService(repo repository.Repository, c cache.Cache, cacheTTL time.Duration) ServiceInterface {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &CatalogService{repo: repo, cache: c, cacheTTL: cacheTTL}
}

// cached loads key from the cache, falling back to load and filling the cache.
// Cache failures are logged and never fail the read.
func cached[T any](ctx context.Context, s *CatalogService, key string, load func() (T, error)) (T, error) {
	var hit T
	found, err := s.cache.Get(ctx, key, &hit)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
	} else if found {
		return hit, nil
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
	return value, nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, model.CacheKeyPattern); err != nil {
		log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}

// =====================================================
// READS
// =====================================================

func (s *CatalogService) LoadCatalog(ctx context.Context) (*model.BuilderCatalog, error) {
	items, err := s.ListItems(ctx, model.ItemFilter{CharmsOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrCatalogRetrieval, err)
	}
	charms, err := s.ListCharms(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrCatalogRetrieval, err)
	}
	return &model.BuilderCatalog{Items: items, Charms: charms}, nil
}

func (s *CatalogService) ListItems(ctx context.Context, filter model.ItemFilter) ([]model.BaseItem, error) {
	if filter.TypeID != nil {
		return s.repo.ListItems(ctx, filter)
	}

	key := model.CacheKeyItems
	if filter.CharmsOnly {
		key = model.CacheKeyCharmItems
	}
	return cached(ctx, s, key, func() ([]model.BaseItem, error) {
		return s.repo.ListItems(ctx, filter)
	})
}

func (s *CatalogService) GetItem(ctx context.Context, id uuid.UUID) (*model.BaseItem, error) {
	item, err := cached(ctx, s, model.CacheKeyItemPrefix+id.String(), func() (*model.BaseItem, error) {
		return s.repo.GetItem(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if len(item.Slots) == 0 {
		if err := item.WithSlots(); err != nil {
			return nil, err
		}
	}
	return item, nil
}

func (s *CatalogService) ListCharms(ctx context.Context) ([]model.Charm, error) {
	return cached(ctx, s, model.CacheKeyCharms, func() ([]model.Charm, error) {
		return s.repo.ListCharms(ctx)
	})
}

func (s *CatalogService) GetCharm(ctx context.Context, id uuid.UUID) (*model.Charm, error) {
	return cached(ctx, s, model.CacheKeyCharmPrefix+id.String(), func() (*model.Charm, error) {
		return s.repo.GetCharm(ctx, id)
	})
}

func (s *CatalogService) CharmPrices(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	prices := make(map[uuid.UUID]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}

	charms, err := s.repo.GetCharmsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrCatalogRetrieval, err)
	}
	for _, charm := range charms {
		prices[charm.ID] = charm.Price
	}
	return prices, nil
}

func (s *CatalogService) ListTypes(ctx context.Context) ([]model.JewelryType, error) {
	return cached(ctx, s, model.CacheKeyTypes, func() ([]model.JewelryType, error) {
		return s.repo.ListTypes(ctx)
	})
}

// =====================================================
// ADMIN WRITES
// =====================================================

func (s *CatalogService) CreateItem(ctx context.Context, req model.ItemRequest) (*model.BaseItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetType(ctx, req.TypeID); err != nil {
		return nil, err
	}

	item := &model.BaseItem{}
	req.Apply(item)

	slug, err := s.repo.UniqueSlug(ctx, "jewelry_items", utils.GenerateSlug(item.Name), uuid.Nil)
	if err != nil {
		return nil, err
	}
	item.Slug = slug

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	if err := item.WithSlots(); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Info().Str("item_id", item.ID.String()).Str("slug", item.Slug).Msg("jewelry item created")
	return item, nil
}

func (s *CatalogService) UpdateItem(ctx context.Context, id uuid.UUID, req model.ItemRequest) (*model.BaseItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.TypeID != req.TypeID {
		if _, err := s.repo.GetType(ctx, req.TypeID); err != nil {
			return nil, err
		}
	}

	renamed := item.Name != req.Name
	req.Apply(item)
	if renamed {
		slug, err := s.repo.UniqueSlug(ctx, "jewelry_items", utils.GenerateSlug(item.Name), item.ID)
		if err != nil {
			return nil, err
		}
		item.Slug = slug
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	if err := item.WithSlots(); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return item, nil
}

func (s *CatalogService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) CreateCharm(ctx context.Context, req model.CharmRequest) (*model.Charm, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	charm := &model.Charm{}
	req.Apply(charm)

	slug, err := s.repo.UniqueSlug(ctx, "charms", utils.GenerateSlug(charm.Name), uuid.Nil)
	if err != nil {
		return nil, err
	}
	charm.Slug = slug

	if err := s.repo.CreateCharm(ctx, charm); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	log.Info().Str("charm_id", charm.ID.String()).Str("slug", charm.Slug).Msg("charm created")
	return charm, nil
}

func (s *CatalogService) UpdateCharm(ctx context.Context, id uuid.UUID, req model.CharmRequest) (*model.Charm, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	charm, err := s.repo.GetCharm(ctx, id)
	if err != nil {
		return nil, err
	}

	renamed := charm.Name != req.Name
	req.Apply(charm)
	if renamed {
		slug, err := s.repo.UniqueSlug(ctx, "charms", utils.GenerateSlug(charm.Name), charm.ID)
		if err != nil {
			return nil, err
		}
		charm.Slug = slug
	}

	if err := s.repo.UpdateCharm(ctx, charm); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return charm, nil
}

func (s *CatalogService) DeleteCharm(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCharm(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) CreateType(ctx context.Context, req model.TypeRequest) (*model.JewelryType, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t := &model.JewelryType{}
	req.Apply(t)

	slug, err := s.repo.UniqueSlug(ctx, "jewelry_types", utils.GenerateSlug(t.Name), uuid.Nil)
	if err != nil {
		return nil, err
	}
	t.Slug = slug

	if err := s.repo.CreateType(ctx, t); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return t, nil
}

func (s *CatalogService) UpdateType(ctx context.Context, id uuid.UUID, req model.TypeRequest) (*model.JewelryType, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.repo.GetType(ctx, id)
	if err != nil {
		return nil, err
	}

	renamed := t.Name != req.Name
	req.Apply(t)
	if renamed {
		slug, err := s.repo.UniqueSlug(ctx, "jewelry_types", utils.GenerateSlug(t.Name), t.ID)
		if err != nil {
			return nil, err
		}
		t.Slug = slug
	}

	if err := s.repo.UpdateType(ctx, t); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return t, nil
}

func (s *CatalogService) DeleteType(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteType(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}
