package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/jalak-hijau/internal/application/dto"
	"github.com/turtacn/jalak-hijau/internal/application/service"
	"github.com/turtacn/jalak-hijau/pkg/errors"
)

// InvestigationHandler serves investigation case endpoints.
type InvestigationHandler struct {
	investigations *service.InvestigationAppService
	sessions       *service.SessionAppService
}

// NewInvestigationHandler creates an InvestigationHandler.
func NewInvestigationHandler(investigations *service.InvestigationAppService, sessions *service.SessionAppService) *InvestigationHandler {
	return &InvestigationHandler{
		investigations: investigations,
		sessions:       sessions,
	}
}

// Open creates a case from an alert and flips the caller's session into
// investigation mode.
func (h *InvestigationHandler) Open(c *gin.Context) {
	var req dto.OpenInvestigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, errors.Wrap(err, errors.CodeInvalidArgument, "invalid request body"))
		return
	}

	inv, err := h.investigations.Open(c.Request.Context(), req)
	if err != nil {
		sendError(c, err)
		return
	}

	if sid := sessionID(c); sid != "" {
		if _, err := h.sessions.EnterInvestigation(c.Request.Context(), sid, inv.ID); err != nil {
			sendError(c, err)
			return
		}
	}
	sendSuccess(c, http.StatusCreated, inv)
}

// Get returns one case.
func (h *InvestigationHandler) Get(c *gin.Context) {
	inv, err := h.investigations.Get(c.Request.Context(), c.Param("investigation_id"))
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, inv)
}

// List returns a page of cases.
func (h *InvestigationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := h.investigations.List(c.Request.Context(), limit, offset)
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, resp)
}

// AddEvidence appends evidence to a case.
func (h *InvestigationHandler) AddEvidence(c *gin.Context) {
	var req dto.AddEvidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, errors.Wrap(err, errors.CodeInvalidArgument, "invalid request body"))
		return
	}

	inv, err := h.investigations.AddEvidence(c.Request.Context(), c.Param("investigation_id"), req)
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, inv)
}

// CompleteAction marks a next action as done.
func (h *InvestigationHandler) CompleteAction(c *gin.Context) {
	var req dto.CompleteActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, errors.Wrap(err, errors.CodeInvalidArgument, "invalid request body"))
		return
	}

	inv, err := h.investigations.CompleteAction(c.Request.Context(), c.Param("investigation_id"), req)
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, inv)
}

// Close closes a case.
func (h *InvestigationHandler) Close(c *gin.Context) {
	inv, err := h.investigations.Close(c.Request.Context(), c.Param("investigation_id"))
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, inv)
}

// Graph returns the financial flow graph around the case's company.
func (h *InvestigationHandler) Graph(c *gin.Context) {
	graph, err := h.investigations.Graph(c.Request.Context(), c.Param("investigation_id"))
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, graph)
}
