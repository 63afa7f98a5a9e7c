package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/hoalens/internal/models"
	"github.com/Lllllllleong/hoalens/internal/store"
)

func TestReplyPrependsSystemTurn(t *testing.T) {
	ctx := context.Background()
	docs := store.NewMemoryStore()
	id, err := docs.InsertDocument(ctx, &models.Document{Transcript: "Quiet hours are 10pm to 7am."})
	require.NoError(t, err)

	model := &fakeChatModel{reply: "From 10pm to 7am."}
	f := NewChat(model, docs)

	turns := []models.Turn{
		{Role: models.RoleUser, Content: "What are the parking rules?"},
		{Role: models.RoleAssistant, Content: "The document does not say."},
		{Role: models.RoleUser, Content: "What are the quiet hours?"},
	}
	reply, err := f.Reply(ctx, id, turns)
	require.NoError(t, err)
	assert.Equal(t, "From 10pm to 7am.", reply)

	require.Len(t, model.turns, 4)
	assert.Equal(t, models.RoleSystem, model.turns[0].Role)
	assert.Contains(t, model.turns[0].Content, "Quiet hours are 10pm to 7am.")
	assert.Contains(t, model.turns[0].Content, "please say so")
	assert.Equal(t, turns, model.turns[1:])
}

func TestReplyWithEmptyTranscriptOmitsSystemTurn(t *testing.T) {
	ctx := context.Background()
	docs := store.NewMemoryStore()
	id, err := docs.InsertDocument(ctx, &models.Document{})
	require.NoError(t, err)

	model := &fakeChatModel{reply: "Hello"}
	turns := []models.Turn{{Role: models.RoleUser, Content: "Hi"}}
	reply, err := NewChat(model, docs).Reply(ctx, id, turns)
	require.NoError(t, err)
	assert.Equal(t, "Hello", reply)
	assert.Equal(t, turns, model.turns)
}

func TestReplyMissingDocumentStillAnswers(t *testing.T) {
	model := &fakeChatModel{reply: "ok"}
	turns := []models.Turn{{Role: models.RoleUser, Content: "Hi"}}
	reply, err := NewChat(model, store.NewMemoryStore()).Reply(context.Background(), "missing", turns)
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Equal(t, turns, model.turns)
}

func TestReplyRejectsBadInput(t *testing.T) {
	f := NewChat(&fakeChatModel{}, store.NewMemoryStore())

	_, err := f.Reply(context.Background(), "doc", nil)
	assert.ErrorIs(t, err, ErrEmptyConversation)

	_, err = f.Reply(context.Background(), "doc", []models.Turn{{Role: "tool", Content: "x"}})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestReplyModelFailure(t *testing.T) {
	boom := errors.New("rate limited")
	f := NewChat(&fakeChatModel{err: boom}, store.NewMemoryStore())
	_, err := f.Reply(context.Background(), "doc", []models.Turn{{Role: models.RoleUser, Content: "Hi"}})
	assert.ErrorIs(t, err, ErrModelResponse)
	assert.ErrorIs(t, err, boom)
}

func TestBuildConversationKeepsFullHistory(t *testing.T) {
	turns := make([]models.Turn, 200)
	for i := range turns {
		turns[i] = models.Turn{Role: models.RoleUser, Content: "q"}
	}
	assert.Len(t, BuildConversation("t", turns), 201)
	assert.Len(t, BuildConversation("", turns), 200)
}

func TestOpenAIRole(t *testing.T) {
	assert.Equal(t, "system", openAIRole(models.RoleSystem))
	assert.Equal(t, "assistant", openAIRole(models.RoleAssistant))
	assert.Equal(t, "user", openAIRole(models.RoleUser))
}
