package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"sunkissed-backend/internal/shared/response"
)

var (
	ErrCatalogRetrieval = errors.New("unable to load catalog")
	ErrItemNotFound     = errors.New("jewelry item not found")
	ErrCharmNotFound    = errors.New("charm not found")
	ErrTypeNotFound     = errors.New("jewelry type not found")
	ErrSlugExists       = errors.New("slug already exists")
	ErrInUse            = errors.New("record is referenced by other records")
	ErrInvalidID        = errors.New("invalid id")
)

var catalogErrorMap = map[error]struct {
	Status  int
	Title   string
	Message string
}{
	ErrCatalogRetrieval: {http.StatusServiceUnavailable, "Unable to load", "Unable to load the catalog, try again"},
	ErrItemNotFound:     {http.StatusNotFound, "Item not found", "The jewelry item does not exist"},
	ErrCharmNotFound:    {http.StatusNotFound, "Charm not found", "The charm does not exist"},
	ErrTypeNotFound:     {http.StatusNotFound, "Type not found", "The jewelry type does not exist"},
	ErrSlugExists:       {http.StatusConflict, "Slug already exists", "Another record already uses this name"},
	ErrInUse:            {http.StatusConflict, "Record in use", "The record is still referenced and cannot be deleted"},
	ErrInvalidID:        {http.StatusBadRequest, "Invalid id", "The id must be a UUID"},
}

func HandleCatalogError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if response.ValidationError(c, err) {
		return true
	}

	for target, cfg := range catalogErrorMap {
		if errors.Is(err, target) {
			if cfg.Status >= http.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("catalog request failed")
			}
			response.Error(c, cfg.Status, cfg.Title, cfg.Message)
			return true
		}
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled catalog error")
	response.InternalServerError(c, "Internal server error")
	return true
}
