package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sunkissed-backend/internal/domains/community/model"
	"sunkissed-backend/internal/shared/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockService struct {
	mock.Mock
}

func (m *mockService) EnsureProfile(ctx context.Context, userID, email string) (*model.Profile, error) {
	args := m.Called(userID, email)
	p, _ := args.Get(0).(*model.Profile)
	return p, args.Error(1)
}

func (m *mockService) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	args := m.Called(userID)
	p, _ := args.Get(0).(*model.Profile)
	return p, args.Error(1)
}

func (m *mockService) UpdateProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) (*model.Profile, error) {
	args := m.Called(userID, req)
	p, _ := args.Get(0).(*model.Profile)
	return p, args.Error(1)
}

func (m *mockService) ListChats(ctx context.Context, userID string) ([]model.Chat, error) {
	args := m.Called(userID)
	c, _ := args.Get(0).([]model.Chat)
	return c, args.Error(1)
}

func (m *mockService) CreateChat(ctx context.Context, userID string, req model.CreateChatRequest) (*model.Chat, bool, error) {
	args := m.Called(userID, req)
	c, _ := args.Get(0).(*model.Chat)
	return c, args.Bool(1), args.Error(2)
}

func (m *mockService) ListMessages(ctx context.Context, chatID, userID string, q model.ListMessagesQuery) ([]model.Message, error) {
	args := m.Called(chatID, userID, q)
	msgs, _ := args.Get(0).([]model.Message)
	return msgs, args.Error(1)
}

func (m *mockService) SendMessage(ctx context.Context, chatID, userID string, body model.MessageBody) (*model.Message, error) {
	args := m.Called(chatID, userID, body)
	msg, _ := args.Get(0).(*model.Message)
	return msg, args.Error(1)
}

func (m *mockService) Search(ctx context.Context, userID string, q model.SearchQuery) (*model.SearchResult, error) {
	args := m.Called(userID, q)
	r, _ := args.Get(0).(*model.SearchResult)
	return r, args.Error(1)
}

func (m *mockService) ListAllChats(ctx context.Context, q model.ListChatsQuery) ([]model.AdminChat, int, error) {
	args := m.Called(q)
	c, _ := args.Get(0).([]model.AdminChat)
	return c, args.Int(1), args.Error(2)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func newRouter(svc *mockService, userID string) *gin.Engine {
	h := NewCommunityHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(middleware.ContextKeyUserID, userID)
			c.Set(middleware.ContextKeyEmail, userID+"@example.com")
		}
		c.Next()
	})
	g := r.Group("/community", h.RequireProfile())
	g.GET("/chats", h.ListChats)
	g.POST("/chats", h.CreateChat)
	g.GET("/chats/:id/messages", h.ListMessages)
	g.POST("/chats/:id/messages", h.SendMessage)
	g.GET("/search", h.Search)
	return r
}

func TestRequireProfileRejectsAnonymous(t *testing.T) {
	svc := &mockService{}
	w, env := do(t, newRouter(svc, ""), http.MethodGet, "/community/chats", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
	svc.AssertNotCalled(t, "ListChats", mock.Anything)
}

func TestCreateChatStatus(t *testing.T) {
	svc := &mockService{}
	svc.On("EnsureProfile", "alice", "alice@example.com").Return(&model.Profile{UserID: "alice"}, nil)
	req := model.CreateChatRequest{Type: model.ChatTypeDirect, UserID: "bob"}
	svc.On("CreateChat", "alice", req).Return(&model.Chat{ID: uuid.New()}, true, nil).Once()
	svc.On("CreateChat", "alice", req).Return(&model.Chat{ID: uuid.New()}, false, nil).Once()
	r := newRouter(svc, "alice")

	w, _ := do(t, r, http.MethodPost, "/community/chats", `{"type":"direct","user_id":"bob"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w, env := do(t, r, http.MethodPost, "/community/chats", `{"type":"direct","user_id":"bob"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Chat already exists", env.Message)
}

func TestSendMessageDecodesTaggedBody(t *testing.T) {
	svc := &mockService{}
	chatID := uuid.NewString()
	svc.On("EnsureProfile", "alice", mock.Anything).Return(&model.Profile{UserID: "alice"}, nil)
	body := model.NewDesignShareBody("ABCD1234", "my new bracelet")
	svc.On("SendMessage", chatID, "alice", body).
		Return(&model.Message{ID: uuid.New(), SenderID: "alice", MessageBody: body}, nil)

	w, env := do(t, newRouter(svc, "alice"), http.MethodPost, "/community/chats/"+chatID+"/messages",
		`{"kind":"design_share","design_share":{"design_code":"ABCD1234","content":"my new bracelet"}}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	assert.Equal(t, "design_share", msg["kind"])
	assert.NotContains(t, msg, "text")
	svc.AssertExpectations(t)
}

func TestSendMessageErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not member", model.ErrNotMember, http.StatusForbidden},
		{"chat missing", model.ErrChatNotFound, http.StatusNotFound},
		{"bad kind", model.ErrUnknownMessageKind, http.StatusBadRequest},
		{"storage", model.ErrRetrieval, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("EnsureProfile", "alice", mock.Anything).Return(&model.Profile{UserID: "alice"}, nil)
			svc.On("SendMessage", "c1", "alice", mock.Anything).Return(nil, tc.err)

			w, env := do(t, newRouter(svc, "alice"), http.MethodPost, "/community/chats/c1/messages",
				`{"kind":"text","text":{"content":"hi"}}`)
			assert.Equal(t, tc.status, w.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestListMessagesPassesQuery(t *testing.T) {
	svc := &mockService{}
	svc.On("EnsureProfile", "bob", mock.Anything).Return(&model.Profile{UserID: "bob"}, nil)
	q := model.ListMessagesQuery{Limit: 20, After: "2026-03-01T12:00:00Z"}
	svc.On("ListMessages", "c1", "bob", q).Return([]model.Message{}, nil)

	w, _ := do(t, newRouter(svc, "bob"), http.MethodGet,
		"/community/chats/c1/messages?limit=20&after=2026-03-01T12:00:00Z", "")

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestSearchReturnsBothLists(t *testing.T) {
	svc := &mockService{}
	svc.On("EnsureProfile", "bob", mock.Anything).Return(&model.Profile{UserID: "bob"}, nil)
	svc.On("Search", "bob", model.SearchQuery{Q: "@al"}).Return(&model.SearchResult{
		Users:  []model.Profile{{UserID: "alice", Name: "Alice"}},
		Groups: []model.Chat{},
	}, nil)

	w, env := do(t, newRouter(svc, "bob"), http.MethodGet, "/community/search?q=%40al", "")

	require.Equal(t, http.StatusOK, w.Code)
	var res model.SearchResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Len(t, res.Users, 1)
	assert.NotNil(t, res.Groups)
}
