package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"sunkissed-backend/internal/shared/response"
)

var (
	ErrChatNotFound       = errors.New("chat not found")
	ErrInvalidChatID      = errors.New("invalid chat id")
	ErrNotMember          = errors.New("not a member of this chat")
	ErrSelfChat           = errors.New("cannot start a chat with yourself")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUnknownMessageKind = errors.New("unknown message kind")
	ErrPayloadMismatch    = errors.New("message payload does not match its kind")
	ErrInvalidCursor      = errors.New("invalid after cursor")
	ErrSharedDesignAbsent = errors.New("shared design does not exist")
	ErrRetrieval          = errors.New("failed to load community data")
)

var communityErrorMap = map[error]struct {
	Status  int
	Title   string
	Message string
}{
	ErrChatNotFound:       {http.StatusNotFound, "Chat not found", "The chat does not exist"},
	ErrInvalidChatID:      {http.StatusBadRequest, "Invalid chat", "Chat id must be a UUID"},
	ErrNotMember:          {http.StatusForbidden, "Not a member", "You are not a member of this chat"},
	ErrSelfChat:           {http.StatusBadRequest, "Invalid chat", "You cannot start a chat with yourself"},
	ErrUserNotFound:       {http.StatusNotFound, "User not found", "The user does not exist"},
	ErrUsernameTaken:      {http.StatusConflict, "Username taken", "This username is already in use"},
	ErrUnknownMessageKind: {http.StatusBadRequest, "Invalid message", "Message kind must be text or design_share"},
	ErrPayloadMismatch:    {http.StatusBadRequest, "Invalid message", "Message payload does not match its kind"},
	ErrInvalidCursor:      {http.StatusBadRequest, "Invalid cursor", "after must be an RFC 3339 timestamp"},
	ErrSharedDesignAbsent: {http.StatusBadRequest, "Design not found", "The shared design does not exist"},
	ErrRetrieval:          {http.StatusServiceUnavailable, "Unable to load", "Unable to load messages, try again"},
}

// HandleCommunityError writes the envelope for err and reports whether it did.
func HandleCommunityError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if response.ValidationError(c, err) {
		return true
	}

	for target, cfg := range communityErrorMap {
		if errors.Is(err, target) {
			if cfg.Status >= http.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("community request failed")
			}
			response.Error(c, cfg.Status, cfg.Title, cfg.Message)
			return true
		}
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled community error")
	response.InternalServerError(c, "Internal server error")
	return true
}
