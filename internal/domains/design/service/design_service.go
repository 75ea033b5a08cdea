package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	catalogmodel "sunkissed-backend/internal/domains/catalog/model"
	"sunkissed-backend/internal/domains/design/builder"
	"sunkissed-backend/internal/domains/design/layout"
	"sunkissed-backend/internal/domains/design/model"
	"sunkissed-backend/internal/domains/design/repository"
	"sunkissed-backend/internal/shared"
	"sunkissed-backend/internal/shared/utils"
	"sunkissed-backend/pkg/cache"
)

const (
	publicListTTL = time.Minute
	trendingTTL   = time.Hour
)

type Options struct {
	ShareCodeAttempts int
	TrendingWindow    time.Duration
	TrendingLimit     int
}

type DesignService struct {
	repo     repository.Repository
	catalog  CatalogReader
	cache    cache.Cache
	enqueuer shared.TaskEnqueuer

	codeAttempts   int
	trendingWindow time.Duration
	trendingLimit  int

	newCode CodeGenerator
	now     func() time.Time
}

func NewService(
	repo repository.Repository,
	catalog CatalogReader,
	c cache.Cache,
	enqueuer shared.TaskEnqueuer,
	opts Options,
) *DesignService {
	if opts.ShareCodeAttempts < 1 {
		opts.ShareCodeAttempts = 5
	}
	if opts.TrendingWindow <= 0 {
		opts.TrendingWindow = 7 * 24 * time.Hour
	}
	if opts.TrendingLimit <= 0 {
		opts.TrendingLimit = 12
	}
	return &DesignService{
		repo:           repo,
		catalog:        catalog,
		cache:          c,
		enqueuer:       enqueuer,
		codeAttempts:   opts.ShareCodeAttempts,
		trendingWindow: opts.TrendingWindow,
		trendingLimit:  opts.TrendingLimit,
		newCode:        RandomShareCode,
		now:            time.Now,
	}
}

// =====================================================
// SHARE / LOAD
// =====================================================

func (s *DesignService) ShareDesign(ctx context.Context, in model.ShareDesignInput) (*model.Design, error) {
	item, err := s.catalog.GetItem(ctx, in.JewelryItemID)
	if errors.Is(err, catalogmodel.ErrItemNotFound) {
		return nil, model.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load item: %v", model.ErrPersistence, err)
	}
	if !item.SupportsCharms {
		return nil, model.ErrItemNoCharms
	}

	slotCount := in.SlotCount
	if slotCount == 0 {
		slotCount = item.SlotCount
	}
	if err := layout.ValidateItemSlotCount(slotCount); err != nil {
		return nil, err
	}

	placements, err := builder.PlacementsFromList(layout.NewSlotSet(slotCount), in.Placements)
	if err != nil {
		return nil, err
	}
	tags, err := builder.NormalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	prices, err := s.catalog.CharmPrices(ctx, placements.CharmIDs())
	if err != nil {
		return nil, fmt.Errorf("%w: load charm prices: %v", model.ErrPersistence, err)
	}
	total, err := builder.Total(item.Price, placements.List(), prices)
	if err != nil {
		return nil, err
	}
	if in.TotalPrice != nil && !in.TotalPrice.Round(2).Equal(total) {
		log.Warn().
			Str("client_total", in.TotalPrice.String()).
			Str("server_total", total.String()).
			Str("item_id", item.ID.String()).
			Msg("share rejected: total price mismatch")
		return nil, model.ErrPriceMismatch
	}

	design := &model.Design{
		UserID:           in.UserID,
		JewelryItemID:    item.ID,
		SlotCount:        slotCount,
		Placements:       placements.List(),
		Name:             builder.NormalizeName(in.Name),
		Tags:             tags,
		TotalPrice:       total,
		IsPublic:         in.IsPublic,
		JewelryItemName:  item.Name,
		JewelryItemImage: item.Image,
	}
	if err := s.persistWithUniqueCode(ctx, design); err != nil {
		log.Error().Err(err).Str("item_id", item.ID.String()).Msg("failed to share design")
		return nil, err
	}

	if design.IsPublic {
		s.invalidatePublic(ctx)
	}

	log.Info().
		Str("share_code", design.ShareCode).
		Str("item_id", item.ID.String()).
		Int("placements", len(design.Placements)).
		Str("total", design.TotalPrice.String()).
		Msg("design shared")
	return design, nil
}

func (s *DesignService) LoadDesign(ctx context.Context, code string) (*model.Design, bool, error) {
	code = model.NormalizeShareCode(code)
	if !model.IsWellFormedShareCode(code) {
		return nil, false, nil
	}

	design, err := s.repo.FindByShareCode(ctx, code)
	if errors.Is(err, model.ErrDesignNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", model.ErrRetrieval, err)
	}
	return design, true, nil
}

// =====================================================
// ENGAGEMENT
// =====================================================

// RecordView counts a view in the background. When the queue is unavailable
// the counter is updated inline.
func (s *DesignService) RecordView(ctx context.Context, code string) {
	code = model.NormalizeShareCode(code)

	if s.enqueuer != nil {
		task, err := utils.NewTask(shared.TypeRecordDesignView, shared.RecordDesignViewPayload{ShareCode: code})
		if err == nil {
			_, err = s.enqueuer.Enqueue(task, asynq.Queue(shared.QueueDesign), asynq.MaxRetry(3))
		}
		if err == nil {
			return
		}
		log.Warn().Err(err).Str("share_code", code).Msg("enqueue view failed, counting inline")
	}

	if err := s.repo.IncrementViews(ctx, code); err != nil {
		log.Warn().Err(err).Str("share_code", code).Msg("failed to count design view")
	}
}

func (s *DesignService) IncrementViews(ctx context.Context, code string) error {
	return s.repo.IncrementViews(ctx, model.NormalizeShareCode(code))
}

func (s *DesignService) ToggleLike(ctx context.Context, code, userID string) (*model.LikeResponse, error) {
	design, found, err := s.LoadDesign(ctx, code)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, model.ErrDesignNotFound
	}
	if !design.IsPublic && (design.UserID == nil || *design.UserID != userID) {
		return nil, model.ErrDesignNotPublic
	}

	liked, likes, err := s.repo.ToggleLike(ctx, design.ID, userID)
	if err != nil {
		return nil, err
	}
	return &model.LikeResponse{ShareCode: design.ShareCode, Liked: liked, Likes: likes}, nil
}

func (s *DesignService) RecordPurchase(ctx context.Context, code string) (int, error) {
	return s.repo.IncrementPurchases(ctx, model.NormalizeShareCode(code))
}

func (s *DesignService) DeleteDesign(ctx context.Context, code string, ownerID *string) error {
	if err := s.repo.Delete(ctx, model.NormalizeShareCode(code), ownerID); err != nil {
		return err
	}
	s.invalidatePublic(ctx)
	if err := s.cache.Delete(ctx, model.TrendingCacheKey); err != nil {
		log.Warn().Err(err).Msg("failed to drop trending cache")
	}
	return nil
}

// =====================================================
// LISTINGS
// =====================================================

type designPage struct {
	Designs []model.Design `json:"designs"`
	Total   int            `json:"total"`
}

func (s *DesignService) ListPublic(ctx context.Context, q model.ListDesignsQuery) ([]model.Design, int, error) {
	q.Normalize()
	key := fmt.Sprintf(model.PublicCacheKey, q.Page, q.Limit)

	var page designPage
	if found, err := s.cache.Get(ctx, key, &page); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("design cache read failed")
	} else if found {
		return page.Designs, page.Total, nil
	}

	designs, total, err := s.repo.ListPublic(ctx, q.Limit, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", model.ErrRetrieval, err)
	}

	if err := s.cache.Set(ctx, key, designPage{Designs: designs, Total: total}, publicListTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("design cache write failed")
	}
	return designs, total, nil
}

func (s *DesignService) ListMine(ctx context.Context, userID string, q model.ListDesignsQuery) ([]model.Design, int, error) {
	q.Normalize()
	designs, total, err := s.repo.ListByUser(ctx, userID, q.Limit, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", model.ErrRetrieval, err)
	}
	return designs, total, nil
}

func (s *DesignService) ListAll(ctx context.Context, q model.ListDesignsQuery) ([]model.Design, int, error) {
	q.Normalize()
	designs, total, err := s.repo.ListAll(ctx, q.Limit, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", model.ErrRetrieval, err)
	}
	return designs, total, nil
}

func (s *DesignService) Trending(ctx context.Context) ([]model.Design, error) {
	var designs []model.Design
	found, err := s.cache.Get(ctx, model.TrendingCacheKey, &designs)
	if err != nil {
		log.Warn().Err(err).Msg("trending cache read failed")
	}
	if found {
		return designs, nil
	}
	return s.RefreshTrending(ctx)
}

// RefreshTrending recomputes the trending list and stores it in the cache.
// The worker calls it on a schedule.
func (s *DesignService) RefreshTrending(ctx context.Context) ([]model.Design, error) {
	since := s.now().Add(-s.trendingWindow)
	designs, err := s.repo.ListTrending(ctx, since, s.trendingLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRetrieval, err)
	}

	if err := s.cache.Set(ctx, model.TrendingCacheKey, designs, trendingTTL); err != nil {
		log.Warn().Err(err).Msg("trending cache write failed")
	}
	return designs, nil
}

func (s *DesignService) invalidatePublic(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, model.PublicCacheGlob); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate public designs cache")
	}
}
