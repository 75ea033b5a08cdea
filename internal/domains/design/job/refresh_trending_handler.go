package job

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"sunkissed-backend/internal/domains/design/model"
)

type TrendingRefresher interface {
	RefreshTrending(ctx context.Context) ([]model.Design, error)
}

// RefreshTrendingHandler rebuilds the cached trending list. Scheduled by the worker.
type RefreshTrendingHandler struct {
	refresher TrendingRefresher
}

func NewRefreshTrendingHandler(refresher TrendingRefresher) *RefreshTrendingHandler {
	return &RefreshTrendingHandler{refresher: refresher}
}

func (h *RefreshTrendingHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	start := time.Now()

	designs, err := h.refresher.RefreshTrending(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to refresh trending designs")
		return fmt.Errorf("refresh trending: %w", err)
	}

	log.Info().
		Int("designs", len(designs)).
		Dur("duration", time.Since(start)).
		Msg("Trending designs refreshed")
	return nil
}
