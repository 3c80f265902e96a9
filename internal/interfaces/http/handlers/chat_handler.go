package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/jalak-hijau/internal/application/dto"
	"github.com/turtacn/jalak-hijau/internal/application/service"
	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/errors"
)

// ChatHandler serves the investigation assistant chat.
type ChatHandler struct {
	chat *service.ChatAppService
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(chat *service.ChatAppService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Chat sends one user message and returns the assistant's reply. The session
// id rides the X-Session-ID header; the response echoes the (possibly newly
// created) session id both in the body and the header.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, errors.Wrap(err, errors.CodeInvalidArgument, "invalid request body"))
		return
	}

	resp, err := h.chat.Chat(c.Request.Context(), sessionID(c), req)
	if err != nil {
		sendError(c, err)
		return
	}
	c.Header(constants.HeaderSessionID, resp.SessionID)
	sendSuccess(c, http.StatusOK, resp)
}
