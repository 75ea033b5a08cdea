package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sunkissed-backend/internal/domains/community/model"
)

type Repository interface {
	// Profiles
	UpsertProfile(ctx context.Context, userID, email string) (*model.Profile, error)
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, profile *model.Profile) error

	// Chats
	ListChats(ctx context.Context, userID string) ([]model.Chat, error)
	// CreateDirectChat returns the existing direct chat between a and b, or
	// creates one. created reports which happened.
	CreateDirectChat(ctx context.Context, a, b string) (chat *model.Chat, created bool, err error)
	CreateGroupChat(ctx context.Context, chat *model.Chat) error
	GetMembership(ctx context.Context, chatID uuid.UUID, userID string) (*model.Member, error)
	ListAllChats(ctx context.Context, limit, offset int) ([]model.AdminChat, int, error)

	// Messages
	ListMessages(ctx context.Context, chatID uuid.UUID, after *time.Time, limit int) ([]model.Message, error)
	MarkRead(ctx context.Context, chatID uuid.UUID, userID string, at time.Time) error
	// CreateMessage stores msg and bumps the chat and the sender's read
	// marker. It returns the ids of every chat member.
	CreateMessage(ctx context.Context, msg *model.Message) ([]string, error)

	// Search
	SearchUsers(ctx context.Context, term, excludeUserID string, limit int) ([]model.Profile, error)
	SearchGroups(ctx context.Context, term string, limit int) ([]model.Chat, error)
}
