package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sunkissed-backend/internal/domains/community/model"
	"sunkissed-backend/internal/domains/community/service"
	"sunkissed-backend/internal/shared/middleware"
	"sunkissed-backend/internal/shared/response"
)

type CommunityHandler struct {
	service service.ServiceInterface
}

func NewCommunityHandler(service service.ServiceInterface) *CommunityHandler {
	return &CommunityHandler{service: service}
}

// RequireProfile makes sure the authenticated caller has a profile row.
// Mount it after AuthMiddleware.
func (h *CommunityHandler) RequireProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetAuthenticatedUserID(c)
		if !ok {
			response.Unauthorized(c, "login required")
			c.Abort()
			return
		}
		_, err := h.service.EnsureProfile(c.Request.Context(), userID, c.GetString(middleware.ContextKeyEmail))
		if model.HandleCommunityError(c, err) {
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetProfile - GET /v1/community/profile
func (h *CommunityHandler) GetProfile(c *gin.Context) {
	userID, _ := middleware.GetAuthenticatedUserID(c)

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if model.HandleCommunityError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Profile loaded", profile)
}

// UpdateProfile - PUT /v1/community/profile
func (h *CommunityHandler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.GetAuthenticatedUserID(c)

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if model.HandleCommunityError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", profile)
}

// ListChats - GET /v1/community/chats
func (h *CommunityHandler) ListChats(c *gin.Context) {
	userID, _ := middleware.GetAuthenticatedUserID(c)

	chats, err := h.service.ListChats(c.Request.Context(), userID)
	if model.HandleCommunityError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Chats loaded", chats)
}

// CreateChat - POST /v1/community/chats
func (h *CommunityHandler) CreateChat(c *gin.Context) {
	userID, _ := middleware.GetAuthenticatedUserID(c)

	var req model.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	chat, created, err := h.service.CreateChat(c.Request.Context(), userID, req)
	if model.HandleCommunityError(c, err) {
		return
	}
	if !created {
		response.Success(c, http.StatusOK, "Chat already exists", chat)
		return
	}
	response.Success(c, http.StatusCreated, "Chat created", chat)
}

// ListMessages - GET /v1/community/chats/:id/messages?limit=&after=
func (h *CommunityHandler) ListMessages(c *gin.Context) {
	userID, _ := middleware.GetAuthenticatedUserID(c)

	var q model.ListMessagesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	messages, err := h.service.ListMessages(c.Request.Context(), c.Param("id"), userID, q)
	if model.HandleCommunityError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Messages loaded", messages)
}

// SendMessage - POST /v1/community/chats/:id/messages
func (h *CommunityHandler) SendMessage(c *gin.Context) {
	userID, _ := middleware.GetAuthenticatedUserID(c)

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.service.SendMessage(c.Request.Context(), c.Param("id"), userID, req.MessageBody)
	if model.HandleCommunityError(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, "Message sent", msg)
}

// Search - GET /v1/community/search?q=
func (h *CommunityHandler) Search(c *gin.Context) {
	userID, _ := middleware.GetAuthenticatedUserID(c)

	var q model.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Search(c.Request.Context(), userID, q)
	if model.HandleCommunityError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Search results", result)
}

// AdminListChats - GET /v1/admin/chats
func (h *CommunityHandler) AdminListChats(c *gin.Context) {
	var q model.ListChatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	q.Normalize()

	chats, total, err := h.service.ListAllChats(c.Request.Context(), q)
	if model.HandleCommunityError(c, err) {
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, "Chats loaded", chats, &response.Meta{
		Page: q.Page, Limit: q.Limit, Total: total,
	})
}
