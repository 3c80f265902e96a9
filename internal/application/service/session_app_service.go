package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/internal/domain/repository"
	"github.com/turtacn/jalak-hijau/pkg/errors"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// SessionAppService manages per-session dashboard state. Every piece of
// state the old single-user dashboard kept globally (selected alert, chat
// history, investigation mode) lives here, keyed by session id.
type SessionAppService struct {
	store  repository.SessionStore
	logger logger.Logger
}

// NewSessionAppService creates a SessionAppService.
func NewSessionAppService(store repository.SessionStore, log logger.Logger) *SessionAppService {
	return &SessionAppService{
		store:  store,
		logger: log.WithComponent("session-service"),
	}
}

// GetOrCreate returns the session for sessionID, creating a fresh one when
// the id is empty or unknown.
func (s *SessionAppService) GetOrCreate(ctx context.Context, sessionID string) (*models.SessionState, error) {
	if sessionID != "" {
		state, err := s.store.Get(ctx, sessionID)
		if err == nil {
			return state, nil
		}
		if !errors.IsNotFound(err) {
			return nil, err
		}
	}

	state := &models.SessionState{SessionID: uuid.NewString()}
	if err := s.store.Put(ctx, state); err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "session created", logger.Fields{"session_id": state.SessionID})
	return state, nil
}

// SelectAlert records the alert the session is focused on.
func (s *SessionAppService) SelectAlert(ctx context.Context, sessionID, alertID string) (*models.SessionState, error) {
	state, err := s.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state.SelectedAlertID = alertID
	if err := s.store.Put(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// EnterInvestigation flags the session as working a case.
func (s *SessionAppService) EnterInvestigation(ctx context.Context, sessionID, investigationID string) (*models.SessionState, error) {
	state, err := s.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state.InvestigationMode = true
	state.InvestigationID = investigationID
	if err := s.store.Put(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Reset clears the session back to a blank slate, keeping the id.
func (s *SessionAppService) Reset(ctx context.Context, sessionID string) (*models.SessionState, error) {
	state := &models.SessionState{SessionID: sessionID}
	if sessionID == "" {
		state.SessionID = uuid.NewString()
	}
	if err := s.store.Put(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// AppendChat appends a chat turn to the session history.
func (s *SessionAppService) AppendChat(ctx context.Context, state *models.SessionState, msgs ...models.ChatMessage) error {
	state.ChatHistory = append(state.ChatHistory, msgs...)
	// Bound the history so sessions never grow without limit.
	const maxHistory = 50
	if len(state.ChatHistory) > maxHistory {
		state.ChatHistory = state.ChatHistory[len(state.ChatHistory)-maxHistory:]
	}
	return s.store.Put(ctx, state)
}
