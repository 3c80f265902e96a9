// Package ai wraps the OpenAI-compatible chat completion API used by the
// investigation assistant.
package ai

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/turtacn/jalak-hijau/internal/config"
	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/pkg/errors"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// Assistant produces a chat completion for an investigation conversation.
// Implementations return an error on any upstream failure; the caller decides
// how to degrade.
type Assistant interface {
	Complete(ctx context.Context, systemPrompt string, history []models.ChatMessage, userMessage string) (string, error)
}

// OpenAIAssistant implements Assistant against any OpenAI-compatible endpoint.
type OpenAIAssistant struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  logger.Logger
}

var _ Assistant = (*OpenAIAssistant)(nil)

// NewOpenAIAssistant creates an assistant. The API key comes from the secret
// provider or environment, resolved by the caller.
func NewOpenAIAssistant(cfg *config.AIConfig, apiKey string, log logger.Logger) *OpenAIAssistant {
	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIAssistant{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: timeout,
		logger:  log.WithComponent("ai-assistant"),
	}
}

// Complete sends the conversation and returns the assistant's reply.
func (a *OpenAIAssistant) Complete(ctx context.Context, systemPrompt string, history []models.ChatMessage, userMessage string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: messages,
	})
	if err != nil {
		a.logger.Warn(ctx, "chat completion failed", logger.Fields{"error": err.Error()})
		return "", errors.Wrap(err, errors.CodeUnavailable, "chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New(errors.CodeUnavailable, "chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
