package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sunkissed-backend/internal/domains/community/model"
	designmodel "sunkissed-backend/internal/domains/design/model"
	"sunkissed-backend/pkg/cache"
)

// ----- repository -----

type fakeRepo struct {
	profiles  map[string]*model.Profile
	chats     map[uuid.UUID]*model.Chat
	members   map[uuid.UUID]map[string]*model.Member
	messages  map[uuid.UUID][]model.Message
	clock     time.Time
	listCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		profiles: map[string]*model.Profile{},
		chats:    map[uuid.UUID]*model.Chat{},
		members:  map[uuid.UUID]map[string]*model.Member{},
		messages: map[uuid.UUID][]model.Message{},
		clock:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRepo) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeRepo) UpsertProfile(ctx context.Context, userID, email string) (*model.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		p = &model.Profile{UserID: userID}
		f.profiles[userID] = p
	}
	if email != "" {
		p.Email = email
	}
	copied := *p
	return &copied, nil
}

func (f *fakeRepo) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeRepo) UpdateProfile(ctx context.Context, profile *model.Profile) error {
	if _, ok := f.profiles[profile.UserID]; !ok {
		return model.ErrUserNotFound
	}
	if profile.Username != nil {
		for id, p := range f.profiles {
			if id != profile.UserID && p.Username != nil && *p.Username == *profile.Username {
				return model.ErrUsernameTaken
			}
		}
	}
	copied := *profile
	f.profiles[profile.UserID] = &copied
	return nil
}

func (f *fakeRepo) ListChats(ctx context.Context, userID string) ([]model.Chat, error) {
	f.listCalls++
	out := []model.Chat{}
	for id, chat := range f.chats {
		m, ok := f.members[id][userID]
		if !ok {
			continue
		}
		c := *chat
		c.MyRole = m.Role
		msgs := f.messages[id]
		for _, msg := range msgs {
			if msg.SenderID != userID && msg.CreatedAt.After(m.LastReadAt) {
				c.UnreadCount++
			}
		}
		if len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			c.LastMessage = &last
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeRepo) addChat(chat *model.Chat, members map[string]model.MemberRole) {
	chat.ID = uuid.New()
	chat.CreatedAt = f.tick()
	chat.UpdatedAt = chat.CreatedAt
	f.chats[chat.ID] = chat
	f.members[chat.ID] = map[string]*model.Member{}
	for userID, role := range members {
		f.members[chat.ID][userID] = &model.Member{UserID: userID, Role: role, LastReadAt: chat.CreatedAt}
	}
}

func (f *fakeRepo) CreateDirectChat(ctx context.Context, a, b string) (*model.Chat, bool, error) {
	for id, chat := range f.chats {
		_, hasA := f.members[id][a]
		_, hasB := f.members[id][b]
		if chat.Type == model.ChatTypeDirect && hasA && hasB {
			copied := *chat
			return &copied, false, nil
		}
	}
	chat := &model.Chat{Type: model.ChatTypeDirect}
	f.addChat(chat, map[string]model.MemberRole{a: model.RoleMember, b: model.RoleMember})
	copied := *chat
	return &copied, true, nil
}

func (f *fakeRepo) CreateGroupChat(ctx context.Context, chat *model.Chat) error {
	stored := *chat
	f.addChat(&stored, map[string]model.MemberRole{*chat.OwnerID: model.RoleOwner})
	chat.ID, chat.CreatedAt, chat.UpdatedAt = stored.ID, stored.CreatedAt, stored.UpdatedAt
	return nil
}

func (f *fakeRepo) GetMembership(ctx context.Context, chatID uuid.UUID, userID string) (*model.Member, error) {
	if _, ok := f.chats[chatID]; !ok {
		return nil, model.ErrChatNotFound
	}
	m, ok := f.members[chatID][userID]
	if !ok {
		return nil, model.ErrNotMember
	}
	copied := *m
	return &copied, nil
}

func (f *fakeRepo) ListAllChats(ctx context.Context, limit, offset int) ([]model.AdminChat, int, error) {
	out := []model.AdminChat{}
	for id, chat := range f.chats {
		out = append(out, model.AdminChat{
			Chat:         *chat,
			MessageCount: len(f.messages[id]),
		})
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListMessages(ctx context.Context, chatID uuid.UUID, after *time.Time, limit int) ([]model.Message, error) {
	all := f.messages[chatID]
	out := []model.Message{}
	if after != nil {
		for _, m := range all {
			if m.CreatedAt.After(*after) && len(out) < limit {
				out = append(out, m)
			}
		}
		return out, nil
	}
	start := len(all) - limit
	if start < 0 {
		start = 0
	}
	return append(out, all[start:]...), nil
}

func (f *fakeRepo) MarkRead(ctx context.Context, chatID uuid.UUID, userID string, at time.Time) error {
	if m, ok := f.members[chatID][userID]; ok && at.After(m.LastReadAt) {
		m.LastReadAt = at
	}
	return nil
}

func (f *fakeRepo) CreateMessage(ctx context.Context, msg *model.Message) ([]string, error) {
	chat, ok := f.chats[msg.ChatID]
	if !ok {
		return nil, model.ErrChatNotFound
	}
	msg.ID = uuid.New()
	msg.CreatedAt = f.tick()
	f.messages[msg.ChatID] = append(f.messages[msg.ChatID], *msg)
	chat.UpdatedAt = msg.CreatedAt
	f.members[msg.ChatID][msg.SenderID].LastReadAt = msg.CreatedAt

	ids := []string{}
	for id := range f.members[msg.ChatID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeRepo) SearchUsers(ctx context.Context, term, excludeUserID string, limit int) ([]model.Profile, error) {
	term = strings.ToLower(term)
	out := []model.Profile{}
	for id, p := range f.profiles {
		if id == excludeUserID || len(out) == limit {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), term) ||
			(p.Username != nil && strings.Contains(*p.Username, term)) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRepo) SearchGroups(ctx context.Context, term string, limit int) ([]model.Chat, error) {
	term = strings.ToLower(term)
	out := []model.Chat{}
	for _, c := range f.chats {
		if c.Type != model.ChatTypeGroup || !c.IsPublic || c.Name == nil || len(out) == limit {
			continue
		}
		if strings.Contains(strings.ToLower(*c.Name), term) {
			out = append(out, *c)
		}
	}
	return out, nil
}

// ----- designs -----

type fakeDesigns map[string]bool

func (f fakeDesigns) LoadDesign(ctx context.Context, code string) (*designmodel.Design, bool, error) {
	if !f[code] {
		return nil, false, nil
	}
	return &designmodel.Design{ShareCode: code}, true, nil
}

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) (*CommunityService, *fakeRepo, *cache.MemoryCache) {
	t.Helper()
	repo := newFakeRepo()
	mem := cache.NewMemoryCache()
	svc := NewService(repo, fakeDesigns{"ABCD1234": true}, mem, Options{})
	svc.now = func() time.Time { return repo.clock.Add(time.Millisecond) }
	for _, id := range []string{"alice", "bob", "carol"} {
		_, err := repo.UpsertProfile(context.Background(), id, id+"@example.com")
		require.NoError(t, err)
	}
	repo.profiles["alice"].Name = "Alice Sun"
	repo.profiles["bob"].Name = "Bob Stone"
	repo.profiles["bob"].Username = strPtr("bobby")
	return svc, repo, mem
}

// =====================================================
// CHATS
// =====================================================

func TestCreateDirectChatReusesExisting(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	req := model.CreateChatRequest{Type: model.ChatTypeDirect, UserID: "bob"}

	first, created, err := svc.CreateChat(ctx, "alice", req)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := svc.CreateChat(ctx, "bob", model.CreateChatRequest{Type: model.ChatTypeDirect, UserID: "alice"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
}

func TestCreateDirectChatRejectsSelfAndUnknown(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.CreateChat(ctx, "alice", model.CreateChatRequest{Type: model.ChatTypeDirect, UserID: "alice"})
	assert.ErrorIs(t, err, model.ErrSelfChat)

	_, _, err = svc.CreateChat(ctx, "alice", model.CreateChatRequest{Type: model.ChatTypeDirect, UserID: "ghost"})
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestCreateGroupChatMakesOwner(t *testing.T) {
	svc, repo, _ := newTestService(t)

	chat, created, err := svc.CreateChat(context.Background(), "alice", model.CreateChatRequest{
		Type: model.ChatTypeGroup, Name: "  Gold lovers ", IsPublic: true,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Gold lovers", *chat.Name)
	assert.Equal(t, model.RoleOwner, repo.members[chat.ID]["alice"].Role)
}

func TestCreateGroupChatRequiresName(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, err := svc.CreateChat(context.Background(), "alice", model.CreateChatRequest{Type: model.ChatTypeGroup})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "name")
}

func TestListChatsIsCachedAndInvalidatedOnSend(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	chat, _, err := svc.CreateChat(ctx, "alice", model.CreateChatRequest{Type: model.ChatTypeDirect, UserID: "bob"})
	require.NoError(t, err)

	chats, err := svc.ListChats(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, 0, chats[0].UnreadCount)

	_, err = svc.ListChats(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	_, err = svc.SendMessage(ctx, chat.ID.String(), "alice", model.NewTextBody("hi bob"))
	require.NoError(t, err)

	chats, err = svc.ListChats(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
	assert.Equal(t, 1, chats[0].UnreadCount)
	require.NotNil(t, chats[0].LastMessage)
	assert.Equal(t, "hi bob", chats[0].LastMessage.Text.Content)
}

// =====================================================
// MESSAGES
// =====================================================

func TestSendMessageRequiresMembership(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	chat, _, err := svc.CreateChat(ctx, "alice", model.CreateChatRequest{Type: model.ChatTypeDirect, UserID: "bob"})
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, chat.ID.String(), "carol", model.NewTextBody("let me in"))
	assert.ErrorIs(t, err, model.ErrNotMember)

	_, err = svc.SendMessage(ctx, uuid.NewString(), "alice", model.NewTextBody("hello?"))
	assert.ErrorIs(t, err, model.ErrChatNotFound)

	_, err = svc.SendMessage(ctx, "not-a-uuid", "alice", model.NewTextBody("hello?"))
	assert.ErrorIs(t, err, model.ErrInvalidChatID)
}

func TestSendMessageValidatesPayload(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	chat, _, err := svc.CreateChat(ctx, "alice", model.CreateChatRequest{Type: model.ChatTypeDirect, UserID: "bob"})
	require.NoError(t, err)
	id := chat.ID.String()

	_, err = svc.SendMessage(ctx, id, "alice", model.NewTextBody("   "))
	var verrs validation.Errors
	assert.ErrorAs(t, err, &verrs)

	_, err = svc.SendMessage(ctx, id, "alice", model.MessageBody{Kind: "voice"})
	assert.ErrorIs(t, err, model.ErrUnknownMessageKind)

	_, err = svc.SendMessage(ctx, id, "alice", model.MessageBody{
		Kind: model.MessageKindText, DesignShare: &model.DesignShareBody{DesignCode: "ABCD1234"},
	})
	assert.ErrorIs(t, err, model.ErrPayloadMismatch)
}

func TestSendDesignShareChecksCode(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	chat, _, err := svc.CreateChat(ctx, "alice", model.CreateChatRequest{Type: model.ChatTypeDirect, UserID: "bob"})
	require.NoError(t, err)

	msg, err := svc.SendMessage(ctx, chat.ID.String(), "alice", model.NewDesignShareBody("abcd1234", "look!"))
	require.NoError(t, err)
	assert.Equal(t, "ABCD1234", msg.DesignShare.DesignCode)
	require.NotNil(t, msg.Sender)
	assert.Equal(t, "Alice Sun", msg.Sender.Name)

	_, err = svc.SendMessage(ctx, chat.ID.String(), "alice", model.NewDesignShareBody("ZZZZ9999", ""))
	assert.ErrorIs(t, err, model.ErrSharedDesignAbsent)
}

func TestListMessagesLimitCursorAndRead(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	chat, _, err := svc.CreateChat(ctx, "alice", model.CreateChatRequest{Type: model.ChatTypeDirect, UserID: "bob"})
	require.NoError(t, err)
	id := chat.ID.String()

	for i := 0; i < 5; i++ {
		_, err := svc.SendMessage(ctx, id, "alice", model.NewTextBody(fmt.Sprintf("m%d", i)))
		require.NoError(t, err)
	}

	msgs, err := svc.ListMessages(ctx, id, "bob", model.ListMessagesQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m3", msgs[0].Text.Content)
	assert.Equal(t, "m4", msgs[1].Text.Content)
	assert.False(t, repo.members[chat.ID]["bob"].LastReadAt.Before(msgs[1].CreatedAt))

	cursor := msgs[0].CreatedAt.Format(time.RFC3339Nano)
	newer, err := svc.ListMessages(ctx, id, "bob", model.ListMessagesQuery{After: cursor})
	require.NoError(t, err)
	require.Len(t, newer, 1)
	assert.Equal(t, "m4", newer[0].Text.Content)

	_, err = svc.ListMessages(ctx, id, "bob", model.ListMessagesQuery{After: "yesterday"})
	assert.ErrorIs(t, err, model.ErrInvalidCursor)

	_, err = svc.ListMessages(ctx, id, "carol", model.ListMessagesQuery{})
	assert.ErrorIs(t, err, model.ErrNotMember)
}

func TestListMessagesQueryClampsLimit(t *testing.T) {
	q := model.ListMessagesQuery{}
	_, err := q.Normalize()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultMessageLimit, q.Limit)

	q = model.ListMessagesQuery{Limit: 500}
	_, err = q.Normalize()
	require.NoError(t, err)
	assert.Equal(t, model.MaxMessageLimit, q.Limit)
}

// =====================================================
// SEARCH / PROFILES
// =====================================================

func TestSearch(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	_, _, err := svc.CreateChat(ctx, "carol", model.CreateChatRequest{Type: model.ChatTypeGroup, Name: "Bobbin club", IsPublic: true})
	require.NoError(t, err)
	_, _, err = svc.CreateChat(ctx, "carol", model.CreateChatRequest{Type: model.ChatTypeGroup, Name: "Bobs secret"})
	require.NoError(t, err)

	res, err := svc.Search(ctx, "alice", model.SearchQuery{Q: "@bob"})
	require.NoError(t, err)
	require.Len(t, res.Users, 1)
	assert.Equal(t, "bob", res.Users[0].UserID)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, "Bobbin club", *res.Groups[0].Name)

	res, err = svc.Search(ctx, "bob", model.SearchQuery{Q: "bob"})
	require.NoError(t, err)
	assert.Empty(t, res.Users)

	res, err = svc.Search(ctx, "alice", model.SearchQuery{Q: "@b"})
	require.NoError(t, err)
	assert.Empty(t, res.Users)
	assert.Empty(t, res.Groups)
}

func TestEnsureProfileUsesCache(t *testing.T) {
	svc, repo, mem := newTestService(t)
	ctx := context.Background()

	p, err := svc.EnsureProfile(ctx, "dave", "dave@example.com")
	require.NoError(t, err)
	assert.Equal(t, "dave@example.com", p.Email)

	delete(repo.profiles, "dave")
	_, err = svc.EnsureProfile(ctx, "dave", "dave@example.com")
	require.NoError(t, err)
	assert.NotContains(t, repo.profiles, "dave")

	found, err := mem.Exists(ctx, fmt.Sprintf(model.ProfileCacheKey, "dave"))
	require.NoError(t, err)
	assert.True(t, found)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.UpdateProfile(ctx, "alice", model.UpdateProfileRequest{Name: " Alice ", Username: strPtr("@Alice_Sun")})
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, "alice_sun", *p.Username)

	_, err = svc.UpdateProfile(ctx, "alice", model.UpdateProfileRequest{Username: strPtr("bobby")})
	assert.ErrorIs(t, err, model.ErrUsernameTaken)

	_, err = svc.UpdateProfile(ctx, "alice", model.UpdateProfileRequest{Username: strPtr("a b")})
	var verrs validation.Errors
	assert.ErrorAs(t, err, &verrs)
}
