package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/jalak-hijau/internal/application/dto"
	"github.com/turtacn/jalak-hijau/internal/application/service"
	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/errors"
)

// SessionHandler serves per-session dashboard state.
type SessionHandler struct {
	sessions *service.SessionAppService
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessions *service.SessionAppService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Get returns the caller's session, creating one when the header is absent or
// unknown.
func (h *SessionHandler) Get(c *gin.Context) {
	state, err := h.sessions.GetOrCreate(c.Request.Context(), sessionID(c))
	if err != nil {
		sendError(c, err)
		return
	}
	c.Header(constants.HeaderSessionID, state.SessionID)
	sendSuccess(c, http.StatusOK, dto.SessionResponse{Session: state})
}

// SelectAlert records which alert the session is focused on.
func (h *SessionHandler) SelectAlert(c *gin.Context) {
	var req dto.SelectAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, errors.Wrap(err, errors.CodeInvalidArgument, "invalid request body"))
		return
	}

	state, err := h.sessions.SelectAlert(c.Request.Context(), sessionID(c), req.AlertID)
	if err != nil {
		sendError(c, err)
		return
	}
	c.Header(constants.HeaderSessionID, state.SessionID)
	sendSuccess(c, http.StatusOK, dto.SessionResponse{Session: state})
}

// Reset clears the session state, keeping the id.
func (h *SessionHandler) Reset(c *gin.Context) {
	state, err := h.sessions.Reset(c.Request.Context(), sessionID(c))
	if err != nil {
		sendError(c, err)
		return
	}
	c.Header(constants.HeaderSessionID, state.SessionID)
	sendSuccess(c, http.StatusOK, dto.SessionResponse{Session: state})
}
