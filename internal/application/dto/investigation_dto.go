package dto

import (
	"github.com/turtacn/jalak-hijau/internal/domain/models"
)

// OpenInvestigationRequest opens an investigation case from an alert.
type OpenInvestigationRequest struct {
	AlertID    string `json:"alert_id" binding:"required"`
	AssignedTo string `json:"assigned_to"`
}

// AddEvidenceRequest appends one evidence item to a case.
type AddEvidenceRequest struct {
	Evidence string `json:"evidence" binding:"required"`
}

// CompleteActionRequest marks a next action as completed by index.
type CompleteActionRequest struct {
	ActionIndex int `json:"action_index"`
}

// InvestigationListResponse is a paged list of cases.
type InvestigationListResponse struct {
	Investigations []*models.Investigation `json:"investigations"`
	Pagination     PaginationResponse      `json:"pagination"`
}

// ChatRequest is one user turn of the investigation chat.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
	Degraded  bool   `json:"degraded"`
}

// SessionResponse exposes per-session state to the dashboard.
type SessionResponse struct {
	Session *models.SessionState `json:"session"`
}

// SelectAlertRequest records which alert the session is focused on.
type SelectAlertRequest struct {
	AlertID string `json:"alert_id" binding:"required"`
}
