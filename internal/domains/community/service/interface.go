package service

import (
	"context"

	designmodel "sunkissed-backend/internal/domains/design/model"
	"sunkissed-backend/internal/domains/community/model"
)

// DesignLookup resolves share codes sent in design_share messages.
// Implemented by the design service.
type DesignLookup interface {
	LoadDesign(ctx context.Context, code string) (*designmodel.Design, bool, error)
}

type ServiceInterface interface {
	// EnsureProfile creates the caller's profile on first contact.
	EnsureProfile(ctx context.Context, userID, email string) (*model.Profile, error)
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) (*model.Profile, error)

	ListChats(ctx context.Context, userID string) ([]model.Chat, error)
	// CreateChat returns an existing direct chat instead of creating a
	// duplicate; created reports which happened.
	CreateChat(ctx context.Context, userID string, req model.CreateChatRequest) (chat *model.Chat, created bool, err error)
	ListMessages(ctx context.Context, chatID, userID string, q model.ListMessagesQuery) ([]model.Message, error)
	SendMessage(ctx context.Context, chatID, userID string, body model.MessageBody) (*model.Message, error)
	Search(ctx context.Context, userID string, q model.SearchQuery) (*model.SearchResult, error)

	ListAllChats(ctx context.Context, q model.ListChatsQuery) ([]model.AdminChat, int, error)
}
