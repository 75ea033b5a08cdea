package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"sunkissed-backend/internal/domains/design/layout"
	"sunkissed-backend/internal/shared/response"
)

var (
	// configurator
	ErrInvalidSlot        = errors.New("slot does not exist on this item")
	ErrInvalidTransition  = errors.New("action not allowed in the current builder state")
	ErrNoBaseSelected     = errors.New("select a base item first")
	ErrStaleRevision      = errors.New("session was changed by a newer request")
	ErrShareInProgress    = errors.New("a share request for this session is already in flight")
	ErrSessionNotFound    = errors.New("builder session not found")
	ErrUnknownCharm       = errors.New("unknown charm")
	ErrTooManyTags        = errors.New("too many tags")
	ErrInvalidTag         = errors.New("tag is too long")
	ErrDuplicatePlacement = errors.New("slot appears more than once")

	// share / persistence
	ErrItemNotFound       = errors.New("jewelry item not found")
	ErrItemNoCharms       = errors.New("jewelry item does not support charms")
	ErrPriceMismatch      = errors.New("total price does not match the current catalog")
	ErrShareCodeTaken     = errors.New("share code already exists")
	ErrShareCodeExhausted = errors.New("could not allocate a unique share code")
	ErrPersistence        = errors.New("failed to persist design")
	ErrDesignNotFound     = errors.New("design not found")
	ErrInvalidShareCode   = errors.New("invalid share code")
	ErrDesignNotPublic    = errors.New("design is not public")
	ErrRetrieval          = errors.New("failed to load designs")
)

var designErrorMap = map[error]struct {
	Status  int
	Title   string
	Message string
}{
	ErrInvalidSlot:        {http.StatusBadRequest, "Invalid slot", "The selected slot does not exist on this item"},
	ErrInvalidTransition:  {http.StatusConflict, "Invalid action", "This action is not allowed at the current step"},
	ErrNoBaseSelected:     {http.StatusConflict, "No base item", "Select a base item first"},
	ErrStaleRevision:      {http.StatusConflict, "Stale request", "The design was changed by a newer request. Refresh and try again"},
	ErrShareInProgress:    {http.StatusConflict, "Share in progress", "This design is already being shared"},
	ErrSessionNotFound:    {http.StatusNotFound, "Session not found", "The builder session does not exist or has expired"},
	ErrUnknownCharm:       {http.StatusBadRequest, "Unknown charm", "One of the charms does not exist"},
	ErrTooManyTags:        {http.StatusBadRequest, "Too many tags", "A design can have at most 10 tags"},
	ErrInvalidTag:         {http.StatusBadRequest, "Invalid tag", "Tags can be at most 30 characters"},
	ErrDuplicatePlacement: {http.StatusBadRequest, "Duplicate slot", "Each slot can hold only one charm"},
	ErrItemNotFound:       {http.StatusBadRequest, "Item not found", "The selected jewelry item does not exist"},
	ErrItemNoCharms:       {http.StatusBadRequest, "Charms not supported", "The selected jewelry item does not support charms"},
	ErrPriceMismatch:      {http.StatusConflict, "Price changed", "Prices have changed. Review the total and try again"},
	ErrShareCodeExhausted: {http.StatusServiceUnavailable, "Failed to share", "Failed to share, try again"},
	ErrPersistence:        {http.StatusInternalServerError, "Failed to share", "Failed to share, try again"},
	ErrDesignNotFound:     {http.StatusNotFound, "Design not found", "No design exists for this code"},
	ErrInvalidShareCode:   {http.StatusBadRequest, "Invalid code", "Share codes are 8 letters or digits"},
	ErrDesignNotPublic:    {http.StatusForbidden, "Design not public", "Only public designs can be liked"},
	ErrRetrieval:          {http.StatusServiceUnavailable, "Unable to load", "Unable to load designs, try again"},

	layout.ErrInvalidSlotCount: {http.StatusBadRequest, "Invalid slot count", "Slot count must be between 4 and 20"},
}

// HandleDesignError writes the envelope for err and reports whether it did.
func HandleDesignError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if response.ValidationError(c, err) {
		return true
	}

	// exhaustion is also a persistence failure; the specific entry wins
	if errors.Is(err, ErrShareCodeExhausted) {
		writeDesignError(c, err, ErrShareCodeExhausted)
		return true
	}
	for target := range designErrorMap {
		if errors.Is(err, target) {
			writeDesignError(c, err, target)
			return true
		}
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled design error")
	response.InternalServerError(c, "Internal server error")
	return true
}

func writeDesignError(c *gin.Context, err, target error) {
	cfg := designErrorMap[target]
	if cfg.Status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("design request failed")
	}
	response.Error(c, cfg.Status, cfg.Title, cfg.Message)
}
