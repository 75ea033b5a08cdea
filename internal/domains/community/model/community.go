package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type ChatType string

const (
	ChatTypeDirect ChatType = "direct"
	ChatTypeGroup  ChatType = "group"
)

type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
)

const (
	DefaultMessageLimit = 50
	MaxMessageLimit     = 100
	MaxMessageLength    = 4000
	SearchMinLength     = 2
	SearchResultLimit   = 5
)

// Cache keys
const (
	ChatListCacheKey = "community:chats:%s"
	ProfileCacheKey  = "community:profile:%s"
)

// Profile is the community-facing identity of a shopper.
type Profile struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name"`
	Username  *string   `json:"username,omitempty"`
	Avatar    *string   `json:"avatar,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Member struct {
	UserID     string     `json:"user_id"`
	Role       MemberRole `json:"role"`
	IsMuted    bool       `json:"is_muted"`
	LastReadAt time.Time  `json:"last_read_at"`
	JoinedAt   time.Time  `json:"joined_at"`
	Name       string     `json:"name"`
	Username   *string    `json:"username,omitempty"`
	Avatar     *string    `json:"avatar,omitempty"`
}

type Chat struct {
	ID          uuid.UUID `json:"id"`
	Type        ChatType  `json:"type"`
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	OwnerID     *string   `json:"owner_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Viewer specific, filled for "my chats".
	Members     []Member   `json:"members,omitempty"`
	LastMessage *Message   `json:"last_message,omitempty"`
	UnreadCount int        `json:"unread_count"`
	MyRole      MemberRole `json:"my_role,omitempty"`
	IsMuted     bool       `json:"is_muted"`
	MemberCount int        `json:"member_count,omitempty"`
}

// AdminChat is a chat row in the admin overview.
type AdminChat struct {
	Chat
	OwnerName    string `json:"owner_name,omitempty"`
	OwnerEmail   string `json:"owner_email,omitempty"`
	MessageCount int    `json:"message_count"`
}

// =====================================================
// MESSAGES
// =====================================================

type MessageKind string

const (
	MessageKindText        MessageKind = "text"
	MessageKindDesignShare MessageKind = "design_share"
)

type TextBody struct {
	Content string `json:"content"`
}

// DesignShareBody points at a shared custom design, with an optional note.
type DesignShareBody struct {
	DesignCode string `json:"design_code"`
	Content    string `json:"content,omitempty"`
}

// MessageBody is a tagged union: Kind names which payload is set and the
// other payload must be nil.
type MessageBody struct {
	Kind        MessageKind      `json:"kind"`
	Text        *TextBody        `json:"text,omitempty"`
	DesignShare *DesignShareBody `json:"design_share,omitempty"`
}

func NewTextBody(content string) MessageBody {
	return MessageBody{Kind: MessageKindText, Text: &TextBody{Content: content}}
}

func NewDesignShareBody(code, content string) MessageBody {
	return MessageBody{Kind: MessageKindDesignShare, DesignShare: &DesignShareBody{DesignCode: code, Content: content}}
}

// Normalize trims the payload and upper-cases share codes.
func (b *MessageBody) Normalize() {
	if b.Text != nil {
		b.Text.Content = strings.TrimSpace(b.Text.Content)
	}
	if b.DesignShare != nil {
		b.DesignShare.DesignCode = strings.ToUpper(strings.TrimSpace(b.DesignShare.DesignCode))
		b.DesignShare.Content = strings.TrimSpace(b.DesignShare.Content)
	}
}

func (b MessageBody) Validate() error {
	switch b.Kind {
	case MessageKindText:
		if b.Text == nil || b.DesignShare != nil {
			return ErrPayloadMismatch
		}
		return validation.ValidateStruct(b.Text,
			validation.Field(&b.Text.Content, validation.Required, validation.RuneLength(1, MaxMessageLength)),
		)
	case MessageKindDesignShare:
		if b.DesignShare == nil || b.Text != nil {
			return ErrPayloadMismatch
		}
		return validation.ValidateStruct(b.DesignShare,
			validation.Field(&b.DesignShare.DesignCode, validation.Required, validation.Length(8, 8)),
			validation.Field(&b.DesignShare.Content, validation.RuneLength(0, MaxMessageLength)),
		)
	default:
		return ErrUnknownMessageKind
	}
}

// Columns flattens the body into the messages table layout.
func (b MessageBody) Columns() (kind MessageKind, content string, designCode *string) {
	switch b.Kind {
	case MessageKindText:
		if b.Text != nil {
			content = b.Text.Content
		}
	case MessageKindDesignShare:
		if b.DesignShare != nil {
			code := b.DesignShare.DesignCode
			content, designCode = b.DesignShare.Content, &code
		}
	}
	return b.Kind, content, designCode
}

// BodyFromColumns is the inverse of Columns.
func BodyFromColumns(kind, content string, designCode *string) (MessageBody, error) {
	switch MessageKind(kind) {
	case MessageKindText:
		return NewTextBody(content), nil
	case MessageKindDesignShare:
		if designCode == nil {
			return MessageBody{}, ErrPayloadMismatch
		}
		return NewDesignShareBody(*designCode, content), nil
	default:
		return MessageBody{}, ErrUnknownMessageKind
	}
}

type Sender struct {
	Name     string  `json:"name"`
	Username *string `json:"username,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

type Message struct {
	ID        uuid.UUID `json:"id"`
	ChatID    uuid.UUID `json:"chat_id"`
	SenderID  string    `json:"sender_id"`
	Sender    *Sender   `json:"sender,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	MessageBody
}

type SearchResult struct {
	Users  []Profile `json:"users"`
	Groups []Chat    `json:"groups"`
}
