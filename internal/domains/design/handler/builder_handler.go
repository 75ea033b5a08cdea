package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sunkissed-backend/internal/domains/design/model"
	"sunkissed-backend/internal/domains/design/service"
	"sunkissed-backend/internal/shared/middleware"
	"sunkissed-backend/internal/shared/response"
)

// BuilderHandler serves the configurator session endpoints under
// /v1/builder/sessions. Sessions belong to the caller's owner key.
type BuilderHandler struct {
	sessions service.SessionServiceInterface
}

func NewBuilderHandler(sessions service.SessionServiceInterface) *BuilderHandler {
	return &BuilderHandler{sessions: sessions}
}

func (h *BuilderHandler) respond(c *gin.Context, status int, msg string, view *model.SessionView, err error) {
	if model.HandleDesignError(c, err) {
		return
	}
	response.Success(c, status, msg, view)
}

// expectedRevision reads ?revision= for bodiless requests.
func expectedRevision(c *gin.Context) (*int64, bool) {
	raw := c.Query("revision")
	if raw == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.BadRequest(c, "revision must be an integer")
		return nil, false
	}
	return &n, true
}

func slotParam(c *gin.Context) (int, bool) {
	slotID, err := strconv.Atoi(c.Param("slotId"))
	if err != nil {
		model.HandleDesignError(c, model.ErrInvalidSlot)
		return 0, false
	}
	return slotID, true
}

// bindOptionalJSON accepts an empty body.
func bindOptionalJSON(c *gin.Context, dest interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dest); err != nil {
		response.BadRequest(c, err.Error())
		return false
	}
	return true
}

// CreateSession - POST /v1/builder/sessions
func (h *BuilderHandler) CreateSession(c *gin.Context) {
	var req model.CreateSessionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	view, err := h.sessions.Create(c.Request.Context(), middleware.GetOwnerKey(c), req)
	h.respond(c, http.StatusCreated, "Session created", view, err)
}

// GetSession - GET /v1/builder/sessions/:id
func (h *BuilderHandler) GetSession(c *gin.Context) {
	view, err := h.sessions.Get(c.Request.Context(), c.Param("id"), middleware.GetOwnerKey(c))
	h.respond(c, http.StatusOK, "Session loaded", view, err)
}

// SelectBase - PUT /v1/builder/sessions/:id/base
func (h *BuilderHandler) SelectBase(c *gin.Context) {
	var req model.SelectBaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	view, err := h.sessions.SelectBase(c.Request.Context(), c.Param("id"), middleware.GetOwnerKey(c), req)
	h.respond(c, http.StatusOK, "Base item selected", view, err)
}

// SetSlotCount - PUT /v1/builder/sessions/:id/slot-count
func (h *BuilderHandler) SetSlotCount(c *gin.Context) {
	var req model.SetSlotCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	view, err := h.sessions.SetSlotCount(c.Request.Context(), c.Param("id"), middleware.GetOwnerKey(c), req)
	h.respond(c, http.StatusOK, "Slot count updated", view, err)
}

// PlaceCharm - PUT /v1/builder/sessions/:id/placements/:slotId
func (h *BuilderHandler) PlaceCharm(c *gin.Context) {
	slotID, ok := slotParam(c)
	if !ok {
		return
	}
	var req model.PlaceCharmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	view, err := h.sessions.Place(c.Request.Context(), c.Param("id"), middleware.GetOwnerKey(c), slotID, req)
	h.respond(c, http.StatusOK, "Charm placed", view, err)
}

// RemoveCharm - DELETE /v1/builder/sessions/:id/placements/:slotId?revision=
func (h *BuilderHandler) RemoveCharm(c *gin.Context) {
	slotID, ok := slotParam(c)
	if !ok {
		return
	}
	expected, ok := expectedRevision(c)
	if !ok {
		return
	}
	view, err := h.sessions.Remove(c.Request.Context(), c.Param("id"), middleware.GetOwnerKey(c), slotID, expected)
	h.respond(c, http.StatusOK, "Charm removed", view, err)
}

// Finalize - POST /v1/builder/sessions/:id/finalize
func (h *BuilderHandler) Finalize(c *gin.Context) {
	var req model.FinalizeRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	view, err := h.sessions.Finalize(c.Request.Context(), c.Param("id"), middleware.GetOwnerKey(c), req)
	h.respond(c, http.StatusOK, "Design ready to share", view, err)
}

// Back - POST /v1/builder/sessions/:id/back
func (h *BuilderHandler) Back(c *gin.Context) {
	var req model.Revisioned
	if !bindOptionalJSON(c, &req) {
		return
	}
	view, err := h.sessions.Back(c.Request.Context(), c.Param("id"), middleware.GetOwnerKey(c), req.ExpectedRevision)
	h.respond(c, http.StatusOK, "Back to configuring", view, err)
}

// Share - POST /v1/builder/sessions/:id/share
func (h *BuilderHandler) Share(c *gin.Context) {
	var req model.ShareSessionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	var userID *string
	if id, ok := middleware.GetAuthenticatedUserID(c); ok {
		userID = &id
	}

	result, err := h.sessions.Share(c.Request.Context(), c.Param("id"), middleware.GetOwnerKey(c), userID, req)
	if model.HandleDesignError(c, err) {
		return
	}

	msg := "Design shared"
	if result.Superseded {
		msg = "Design shared from an earlier version of the session"
	}
	response.Success(c, http.StatusCreated, msg, result)
}
