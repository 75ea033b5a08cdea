package model

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.]{3,30}$`)

// CreateChatRequest - POST /api/v1/community/chats
type CreateChatRequest struct {
	Type        ChatType `json:"type"`
	UserID      string   `json:"user_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IsPublic    bool     `json:"is_public"`
}

func (r *CreateChatRequest) Normalize() {
	r.UserID = strings.TrimSpace(r.UserID)
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
}

func (r CreateChatRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.In(ChatTypeDirect, ChatTypeGroup)),
		validation.Field(&r.UserID, validation.When(r.Type == ChatTypeDirect, validation.Required)),
		validation.Field(&r.Name,
			validation.When(r.Type == ChatTypeGroup, validation.Required),
			validation.RuneLength(0, 80),
		),
		validation.Field(&r.Description, validation.RuneLength(0, 500)),
	)
}

// SendMessageRequest - POST /api/v1/community/chats/:id/messages
type SendMessageRequest struct {
	MessageBody
}

// ListMessagesQuery - GET /api/v1/community/chats/:id/messages
type ListMessagesQuery struct {
	Limit int    `form:"limit"`
	After string `form:"after"`
}

// Normalize clamps the limit and parses the polling cursor.
func (q *ListMessagesQuery) Normalize() (*time.Time, error) {
	if q.Limit < 1 {
		q.Limit = DefaultMessageLimit
	}
	if q.Limit > MaxMessageLimit {
		q.Limit = MaxMessageLimit
	}
	if q.After == "" {
		return nil, nil
	}
	after, err := time.Parse(time.RFC3339Nano, q.After)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	return &after, nil
}

// UpdateProfileRequest - PUT /api/v1/community/profile
type UpdateProfileRequest struct {
	Name     string  `json:"name"`
	Username *string `json:"username"`
	Avatar   *string `json:"avatar"`
}

// Normalize trims fields, lower-cases the username and drops a leading "@".
// Empty optional fields become nil.
func (r *UpdateProfileRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	if r.Username != nil {
		u := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(*r.Username), "@"))
		r.Username = &u
		if u == "" {
			r.Username = nil
		}
	}
	if r.Avatar != nil {
		a := strings.TrimSpace(*r.Avatar)
		r.Avatar = &a
		if a == "" {
			r.Avatar = nil
		}
	}
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.RuneLength(0, 120)),
		validation.Field(&r.Username, validation.Match(usernamePattern).
			Error("must be 3-30 lowercase letters, digits, dots or underscores")),
		validation.Field(&r.Avatar, is.URL),
	)
}

// SearchQuery - GET /api/v1/community/search?q=
type SearchQuery struct {
	Q string `form:"q"`
}

// Term returns the cleaned search term and whether it is long enough to run.
func (q SearchQuery) Term() (string, bool) {
	term := strings.TrimPrefix(strings.TrimSpace(q.Q), "@")
	return term, len([]rune(term)) >= SearchMinLength
}

type ListChatsQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (q *ListChatsQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

func (q ListChatsQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}
