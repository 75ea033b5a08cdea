package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"sunkissed-backend/internal/domains/settings/model"
	"sunkissed-backend/internal/domains/settings/repository"
	"sunkissed-backend/pkg/cache"
)

type ServiceInterface interface {
	// Get returns nil when the store has not been configured yet.
	Get(ctx context.Context) (*model.Settings, error)
	Update(ctx context.Context, req model.UpdateSettingsRequest) (*model.Settings, error)
}

type SettingsService struct {
	repo  repository.Repository
	cache cache.Cache
	ttl   time.Duration
}

func NewService(repo repository.Repository, c cache.Cache, ttl time.Duration) *SettingsService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SettingsService{repo: repo, cache: c, ttl: ttl}
}

func (s *SettingsService) Get(ctx context.Context) (*model.Settings, error) {
	var cached model.Settings
	if found, err := s.cache.Get(ctx, model.CacheKey, &cached); err != nil {
		log.Warn().Err(err).Msg("settings cache read failed")
	} else if found {
		return &cached, nil
	}

	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSettingsUnavailable, err)
	}
	if settings == nil {
		return nil, nil
	}

	if err := s.cache.Set(ctx, model.CacheKey, settings, s.ttl); err != nil {
		log.Warn().Err(err).Msg("settings cache write failed")
	}
	return settings, nil
}

func (s *SettingsService) Update(ctx context.Context, req model.UpdateSettingsRequest) (*model.Settings, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	settings := req.ToSettings()
	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, model.CacheKey); err != nil {
		log.Warn().Err(err).Msg("settings cache invalidation failed")
	}
	log.Info().Str("store_name", settings.StoreName).Msg("store settings updated")
	return settings, nil
}
