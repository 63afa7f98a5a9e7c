package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"github.com/Lllllllleong/hoalens/internal/models"
)

// DefaultChatModel is the chat-completion model used when none is configured.
const DefaultChatModel = openai.GPT4oMini

// OpenAIChatModel implements ChatModel with the OpenAI chat-completion API.
type OpenAIChatModel struct {
	client *openai.Client
	model  string
}

// NewOpenAIChatModel creates the client. An empty baseURL uses the public API.
func NewOpenAIChatModel(apiKey, baseURL, model string) *OpenAIChatModel {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultChatModel
	}
	return &OpenAIChatModel{client: openai.NewClientWithConfig(config), model: model}
}

func (m *OpenAIChatModel) Complete(ctx context.Context, turns []models.Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openAIRole(t.Role),
			Content: t.Content,
		})
	}

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    m.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	slog.Debug("model usage",
		"model", m.model,
		"promptTokens", resp.Usage.PromptTokens,
		"completionTokens", resp.Usage.CompletionTokens,
		"totalTokens", resp.Usage.TotalTokens,
	)
	if len(resp.Choices) == 0 {
		return "", errors.New("no response generated")
	}
	return resp.Choices[0].Message.Content, nil
}

func openAIRole(r models.Role) string {
	switch r {
	case models.RoleSystem:
		return openai.ChatMessageRoleSystem
	case models.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}
