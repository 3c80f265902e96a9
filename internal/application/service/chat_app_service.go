package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/jalak-hijau/internal/application/dto"
	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/internal/infrastructure/ai"
	"github.com/turtacn/jalak-hijau/internal/infrastructure/monitoring"
	"github.com/turtacn/jalak-hijau/pkg/constants"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// ChatAppService runs the investigation assistant conversation. The upstream
// model is a pass-through collaborator: when it cannot be reached the service
// fails closed with a fixed apology and never surfaces the underlying error.
type ChatAppService struct {
	assistant ai.Assistant
	sessions  *SessionAppService
	alerts    *AlertAppService
	metrics   *monitoring.Metrics
	logger    logger.Logger
}

// NewChatAppService creates a ChatAppService. A nil assistant means chat is
// disabled; every request then degrades to the apology message.
func NewChatAppService(
	assistant ai.Assistant,
	sessions *SessionAppService,
	alerts *AlertAppService,
	metrics *monitoring.Metrics,
	log logger.Logger,
) *ChatAppService {
	return &ChatAppService{
		assistant: assistant,
		sessions:  sessions,
		alerts:    alerts,
		metrics:   metrics,
		logger:    log.WithComponent("chat-service"),
	}
}

// Chat sends one user turn and returns the assistant's reply. The session's
// selected alert, if any, is folded into the system prompt so the assistant
// answers in context.
func (s *ChatAppService) Chat(ctx context.Context, sessionID string, req dto.ChatRequest) (*dto.ChatResponse, error) {
	state, err := s.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	userMsg := models.ChatMessage{Role: "user", Content: req.Message, At: now}

	if s.assistant == nil {
		return s.degrade(ctx, state, userMsg, nil)
	}

	start := time.Now()
	reply, err := s.assistant.Complete(ctx, s.systemPrompt(ctx, state), state.ChatHistory, req.Message)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordChatRequest("degraded", time.Since(start))
		}
		return s.degrade(ctx, state, userMsg, err)
	}
	if s.metrics != nil {
		s.metrics.RecordChatRequest("ok", time.Since(start))
	}

	assistantMsg := models.ChatMessage{Role: "assistant", Content: reply, At: time.Now().UTC()}
	if err := s.sessions.AppendChat(ctx, state, userMsg, assistantMsg); err != nil {
		return nil, err
	}
	return &dto.ChatResponse{
		Reply:     reply,
		SessionID: state.SessionID,
	}, nil
}

// degrade records the user turn and the apology, keeping the conversation
// consistent even while the assistant is down.
func (s *ChatAppService) degrade(ctx context.Context, state *models.SessionState, userMsg models.ChatMessage, cause error) (*dto.ChatResponse, error) {
	if cause != nil {
		s.logger.Warn(ctx, "assistant unavailable, degrading", logger.Fields{
			"session_id": state.SessionID,
			"error":      cause.Error(),
		})
	}

	apology := models.ChatMessage{
		Role:    "assistant",
		Content: constants.ChatUnavailableMessage,
		At:      time.Now().UTC(),
	}
	if err := s.sessions.AppendChat(ctx, state, userMsg, apology); err != nil {
		return nil, err
	}
	return &dto.ChatResponse{
		Reply:     constants.ChatUnavailableMessage,
		SessionID: state.SessionID,
		Degraded:  true,
	}, nil
}

// systemPrompt frames the assistant as an environmental financial-crime
// analyst and injects the session's selected alert.
func (s *ChatAppService) systemPrompt(ctx context.Context, state *models.SessionState) string {
	var b strings.Builder
	b.WriteString("You are the JALAK-HIJAU investigation assistant, supporting analysts ")
	b.WriteString("who investigate links between illegal deforestation and money laundering in Indonesia. ")
	b.WriteString("Answer concisely and cite the data you were given. Reply in the language the analyst uses.")

	if state.SelectedAlertID != "" && s.alerts != nil {
		if alert, err := s.alerts.GetAlert(ctx, state.SelectedAlertID); err == nil {
			fmt.Fprintf(&b, "\n\nThe analyst is looking at alert %s: [%s] %s, company %s, location %s, risk %s.",
				alert.ID, alert.Type, alert.Details, alert.Company, alert.Location, alert.RiskLevel)
		}
	}
	if state.InvestigationMode && state.InvestigationID != "" {
		fmt.Fprintf(&b, "\nAn investigation case (%s) is open for this alert.", state.InvestigationID)
	}
	return b.String()
}
