package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"sunkissed-backend/internal/domains/community/model"
	"sunkissed-backend/internal/domains/community/repository"
	"sunkissed-backend/pkg/cache"
)

const profileCacheTTL = 10 * time.Minute

type Options struct {
	// ChatListTTL bounds how stale a cached chat list can be; sends and
	// chat creation invalidate it for every member.
	ChatListTTL time.Duration
}

type CommunityService struct {
	repo        repository.Repository
	designs     DesignLookup
	cache       cache.Cache
	chatListTTL time.Duration
	now         func() time.Time
}

func NewService(repo repository.Repository, designs DesignLookup, c cache.Cache, opts Options) *CommunityService {
	if opts.ChatListTTL <= 0 {
		opts.ChatListTTL = 15 * time.Second
	}
	return &CommunityService{
		repo:        repo,
		designs:     designs,
		cache:       c,
		chatListTTL: opts.ChatListTTL,
		now:         time.Now,
	}
}

func (s *CommunityService) invalidateChatLists(ctx context.Context, userIDs ...string) {
	if len(userIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, fmt.Sprintf(model.ChatListCacheKey, id))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("chat list cache invalidation failed")
	}
}

func parseChatID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, model.ErrInvalidChatID
	}
	return id, nil
}

// =====================================================
// PROFILES
// =====================================================

func (s *CommunityService) EnsureProfile(ctx context.Context, userID, email string) (*model.Profile, error) {
	key := fmt.Sprintf(model.ProfileCacheKey, userID)

	var profile model.Profile
	if found, err := s.cache.Get(ctx, key, &profile); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("profile cache read failed")
	} else if found {
		return &profile, nil
	}

	p, err := s.repo.UpsertProfile(ctx, userID, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRetrieval, err)
	}
	if err := s.cache.Set(ctx, key, p, profileCacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("profile cache write failed")
	}
	return p, nil
}

func (s *CommunityService) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

func (s *CommunityService) UpdateProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) (*model.Profile, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	profile := &model.Profile{
		UserID:   userID,
		Name:     req.Name,
		Username: req.Username,
		Avatar:   req.Avatar,
	}
	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, fmt.Sprintf(model.ProfileCacheKey, userID)); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("profile cache invalidation failed")
	}
	return profile, nil
}

// =====================================================
// CHATS
// =====================================================

func (s *CommunityService) ListChats(ctx context.Context, userID string) ([]model.Chat, error) {
	key := fmt.Sprintf(model.ChatListCacheKey, userID)

	var chats []model.Chat
	if found, err := s.cache.Get(ctx, key, &chats); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("chat list cache read failed")
	} else if found {
		return chats, nil
	}

	chats, err := s.repo.ListChats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRetrieval, err)
	}
	if err := s.cache.Set(ctx, key, chats, s.chatListTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("chat list cache write failed")
	}
	return chats, nil
}

func (s *CommunityService) CreateChat(ctx context.Context, userID string, req model.CreateChatRequest) (*model.Chat, bool, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	if req.Type == model.ChatTypeDirect {
		if req.UserID == userID {
			return nil, false, model.ErrSelfChat
		}
		if _, err := s.repo.GetProfile(ctx, req.UserID); err != nil {
			return nil, false, err
		}

		chat, created, err := s.repo.CreateDirectChat(ctx, userID, req.UserID)
		if err != nil {
			return nil, false, err
		}
		if created {
			s.invalidateChatLists(ctx, userID, req.UserID)
			log.Info().Str("chat_id", chat.ID.String()).Str("user_id", userID).Msg("direct chat created")
		}
		return chat, created, nil
	}

	chat := &model.Chat{
		Type:     model.ChatTypeGroup,
		Name:     &req.Name,
		IsPublic: req.IsPublic,
		OwnerID:  &userID,
	}
	if req.Description != "" {
		chat.Description = &req.Description
	}
	if err := s.repo.CreateGroupChat(ctx, chat); err != nil {
		return nil, false, err
	}
	chat.MyRole = model.RoleOwner

	s.invalidateChatLists(ctx, userID)
	log.Info().Str("chat_id", chat.ID.String()).Str("owner_id", userID).Msg("group chat created")
	return chat, true, nil
}

func (s *CommunityService) ListAllChats(ctx context.Context, q model.ListChatsQuery) ([]model.AdminChat, int, error) {
	q.Normalize()
	chats, total, err := s.repo.ListAllChats(ctx, q.Limit, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", model.ErrRetrieval, err)
	}
	return chats, total, nil
}

// =====================================================
// MESSAGES
// =====================================================

// ListMessages requires membership and moves the caller's read marker to now.
func (s *CommunityService) ListMessages(ctx context.Context, chatID, userID string, q model.ListMessagesQuery) ([]model.Message, error) {
	id, err := parseChatID(chatID)
	if err != nil {
		return nil, err
	}
	after, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetMembership(ctx, id, userID); err != nil {
		return nil, err
	}

	messages, err := s.repo.ListMessages(ctx, id, after, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRetrieval, err)
	}

	if err := s.repo.MarkRead(ctx, id, userID, s.now()); err != nil {
		log.Warn().Err(err).Str("chat_id", chatID).Str("user_id", userID).Msg("failed to mark chat read")
	} else {
		s.invalidateChatLists(ctx, userID)
	}
	return messages, nil
}

func (s *CommunityService) SendMessage(ctx context.Context, chatID, userID string, body model.MessageBody) (*model.Message, error) {
	id, err := parseChatID(chatID)
	if err != nil {
		return nil, err
	}
	body.Normalize()
	if err := body.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetMembership(ctx, id, userID); err != nil {
		return nil, err
	}

	if body.Kind == model.MessageKindDesignShare {
		_, found, err := s.designs.LoadDesign(ctx, body.DesignShare.DesignCode)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, model.ErrSharedDesignAbsent
		}
	}

	msg := &model.Message{ChatID: id, SenderID: userID, MessageBody: body}
	memberIDs, err := s.repo.CreateMessage(ctx, msg)
	if err != nil {
		return nil, err
	}

	if profile, err := s.repo.GetProfile(ctx, userID); err == nil {
		msg.Sender = &model.Sender{Name: profile.Name, Username: profile.Username, Avatar: profile.Avatar}
	} else if !errors.Is(err, model.ErrUserNotFound) {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to load sender profile")
	}

	s.invalidateChatLists(ctx, memberIDs...)
	log.Debug().
		Str("chat_id", chatID).
		Str("sender_id", userID).
		Str("kind", string(body.Kind)).
		Msg("message sent")
	return msg, nil
}

// =====================================================
// SEARCH
// =====================================================

// Search matches users by username or name and public groups by name. Terms
// shorter than two characters return empty lists.
func (s *CommunityService) Search(ctx context.Context, userID string, q model.SearchQuery) (*model.SearchResult, error) {
	result := &model.SearchResult{Users: []model.Profile{}, Groups: []model.Chat{}}

	term, ok := q.Term()
	if !ok {
		return result, nil
	}

	users, err := s.repo.SearchUsers(ctx, term, userID, model.SearchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRetrieval, err)
	}
	groups, err := s.repo.SearchGroups(ctx, term, model.SearchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrRetrieval, err)
	}

	result.Users, result.Groups = users, groups
	return result, nil
}
