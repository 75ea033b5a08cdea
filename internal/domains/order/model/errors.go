package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"sunkissed-backend/internal/shared/response"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidID     = errors.New("invalid order id")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrRetrieval     = errors.New("unable to load orders")
)

var orderErrorMap = map[error]struct {
	Status  int
	Title   string
	Message string
}{
	ErrOrderNotFound: {http.StatusNotFound, "Order not found", "The order does not exist"},
	ErrInvalidID:     {http.StatusBadRequest, "Invalid id", "The order id must be a UUID"},
	ErrUnauthorized:  {http.StatusUnauthorized, "Unauthorized", "Sign in to see your orders"},
	ErrRetrieval:     {http.StatusServiceUnavailable, "Unable to load", "Unable to load orders, try again"},
}

func HandleOrderError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if response.ValidationError(c, err) {
		return true
	}

	for target, cfg := range orderErrorMap {
		if errors.Is(err, target) {
			if cfg.Status >= http.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("order request failed")
			}
			response.Error(c, cfg.Status, cfg.Title, cfg.Message)
			return true
		}
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled order error")
	response.InternalServerError(c, "Internal server error")
	return true
}
