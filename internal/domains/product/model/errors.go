package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"sunkissed-backend/internal/shared/response"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrSlugExists       = errors.New("slug already exists")
	ErrCategoryInUse    = errors.New("category still has products")
	ErrSearchTooShort   = errors.New("search term too short")
	ErrInvalidID        = errors.New("invalid id")
	ErrRetrieval        = errors.New("unable to load products")
)

var productErrorMap = map[error]struct {
	Status  int
	Title   string
	Message string
}{
	ErrProductNotFound:  {http.StatusNotFound, "Product not found", "The product does not exist"},
	ErrCategoryNotFound: {http.StatusNotFound, "Category not found", "The category does not exist"},
	ErrSlugExists:       {http.StatusConflict, "Slug already exists", "Another record already uses this name"},
	ErrCategoryInUse:    {http.StatusConflict, "Category in use", "Move or delete its products first"},
	ErrSearchTooShort:   {http.StatusBadRequest, "Search too short", "Search for at least 2 characters"},
	ErrInvalidID:        {http.StatusBadRequest, "Invalid id", "The id must be a UUID"},
	ErrRetrieval:        {http.StatusServiceUnavailable, "Unable to load", "Unable to load products, try again"},
}

func HandleProductError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if response.ValidationError(c, err) {
		return true
	}

	for target, cfg := range productErrorMap {
		if errors.Is(err, target) {
			if cfg.Status >= http.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("product request failed")
			}
			response.Error(c, cfg.Status, cfg.Title, cfg.Message)
			return true
		}
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled product error")
	response.InternalServerError(c, "Internal server error")
	return true
}
