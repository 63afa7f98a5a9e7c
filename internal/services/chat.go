package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Lllllllleong/hoalens/internal/models"
	"github.com/Lllllllleong/hoalens/internal/store"
)

var (
	ErrInvalidRole       = errors.New("invalid chat role")
	ErrEmptyConversation = errors.New("conversation has no turns")
	ErrModelResponse     = errors.New("failed to get AI response")
)

// SampleQuestions are the starter questions offered in the chat tab.
var SampleQuestions = []string{
	"What are the parking rules?",
	"What are the noise restrictions and quiet hours?",
	"What modifications can I make to my home's exterior without HOA approval?",
}

// ChatModel returns the assistant reply to an ordered conversation.
type ChatModel interface {
	Complete(ctx context.Context, turns []models.Turn) (string, error)
}

// ChatFunction answers questions about one document.
type ChatFunction struct {
	model ChatModel
	docs  store.Store
}

func NewChat(model ChatModel, docs store.Store) *ChatFunction {
	return &ChatFunction{model: model, docs: docs}
}

// SystemTurn builds the turn that grounds the model in transcript.
func SystemTurn(transcript string) models.Turn {
	return models.Turn{
		Role: models.RoleSystem,
		Content: "You are a helpful AI assistant analyzing an HOA PDF document. Here is the document content:\n\n" +
			transcript +
			"\n\nPlease use this content to answer questions accurately. If a question cannot be answered using the document content, please say so.",
	}
}

// BuildConversation prepends the system turn when transcript is non-empty
// and keeps the caller's turns in order. History is never trimmed.
func BuildConversation(transcript string, turns []models.Turn) []models.Turn {
	out := make([]models.Turn, 0, len(turns)+1)
	if transcript != "" {
		out = append(out, SystemTurn(transcript))
	}
	return append(out, turns...)
}

// Reply sends the conversation for docID to the model once and returns the
// assistant's text. A missing document is treated as an empty transcript.
func (f *ChatFunction) Reply(ctx context.Context, docID string, turns []models.Turn) (string, error) {
	if len(turns) == 0 {
		return "", ErrEmptyConversation
	}
	for i, t := range turns {
		if !t.Role.Valid() {
			return "", fmt.Errorf("turn %d: %w: %q", i, ErrInvalidRole, t.Role)
		}
	}

	logCtx := slog.With("documentId", docID, "turns", len(turns))

	transcript, err := f.docs.GetTranscript(ctx, docID)
	if err != nil {
		return "", fmt.Errorf("failed to load transcript: %w", err)
	}

	reply, err := f.model.Complete(ctx, BuildConversation(transcript, turns))
	if err != nil {
		logCtx.Error("Chat completion failed", "error", err)
		return "", fmt.Errorf("%w: %w", ErrModelResponse, err)
	}
	logCtx.Info("Chat reply generated.", "characters", len(reply))
	return reply, nil
}
