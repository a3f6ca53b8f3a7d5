package chat

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/studynotes/internal/ai"
	"github.com/rcliao/studynotes/internal/ai/aitest"
	"github.com/rcliao/studynotes/internal/apperr"
	"github.com/rcliao/studynotes/internal/logger"
	"github.com/rcliao/studynotes/internal/model"
	"github.com/rcliao/studynotes/internal/store"
)

func setup(t *testing.T, replies ...aitest.Reply) (*Manager, *store.SQLiteStore, *model.Note, *aitest.Fake) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	n, err := s.CreateNote(context.Background(), store.NewNote{
		Title:   "Introduction to Algorithms",
		Content: "Big O notation describes the upper bound of algorithm complexity.",
	})
	require.NoError(t, err)

	fake := aitest.New(replies...)
	return New(s, fake, logger.Nop()), s, n, fake
}

func TestLoadEmpty(t *testing.T) {
	m, _, n, _ := setup(t)

	conv, err := m.Load(context.Background(), n.ID)
	require.NoError(t, err)
	assert.True(t, conv.Empty())
	assert.NotNil(t, conv.Turns)

	_, err = m.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAskPersistsTranscript(t *testing.T) {
	m, s, n, fake := setup(t,
		aitest.Text("Big O is an upper bound on growth rate."),
		aitest.Text("Binary search is O(log n)."),
	)
	ctx := context.Background()

	conv, err := m.Load(ctx, n.ID)
	require.NoError(t, err)

	reply, err := m.Ask(ctx, conv, "What is Big O?")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAssistant, reply.Role)
	assert.Equal(t, "Big O is an upper bound on growth rate.", reply.Content)

	call := fake.LastCall()
	assert.Equal(t, ai.Fast, call.Tier)
	assert.Contains(t, call.Prompt, "Title: Introduction to Algorithms")
	assert.Contains(t, call.Prompt, "Question: What is Big O?")

	_, err = m.Ask(ctx, conv, "And binary search?")
	require.NoError(t, err)

	stored, err := s.GetChat(ctx, n.ID)
	require.NoError(t, err)
	require.Len(t, stored.Messages, 4)
	assert.Equal(t, model.Transcript{
		{Role: model.RoleUser, Content: "What is Big O?"},
		{Role: model.RoleAssistant, Content: "Big O is an upper bound on growth rate."},
		{Role: model.RoleUser, Content: "And binary search?"},
		{Role: model.RoleAssistant, Content: "Binary search is O(log n)."},
	}, stored.Messages)

	reloaded, err := m.Load(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.Turns, reloaded.Turns)
}

func TestAskGenerationFailureKeepsQuestionOnly(t *testing.T) {
	m, s, n, _ := setup(t, aitest.Fail(&ai.GenerationError{Reason: ai.ReasonTimeout}))
	ctx := context.Background()

	conv, err := m.Load(ctx, n.ID)
	require.NoError(t, err)

	_, err = m.Ask(ctx, conv, "What is Big O?")
	assert.ErrorIs(t, err, apperr.ErrGeneration)

	require.Len(t, conv.Turns, 1)
	assert.Equal(t, model.RoleUser, conv.Turns[0].Role)
	assert.Equal(t, "What is Big O?", conv.Turns[0].Content)

	_, err = s.GetChat(ctx, n.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound, "nothing should be persisted")
}

func TestAskRejectsBlankQuestion(t *testing.T) {
	m, _, n, fake := setup(t, aitest.Text("x"))
	ctx := context.Background()

	conv, err := m.Load(ctx, n.ID)
	require.NoError(t, err)

	_, err = m.Ask(ctx, conv, "   ")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.True(t, conv.Empty())
	assert.Empty(t, fake.Calls())
}

// failingStore rejects every transcript write.
type failingStore struct {
	store.Store
}

func (failingStore) SaveTranscript(context.Context, string, model.Transcript) (*model.Chat, error) {
	return nil, fmt.Errorf("%w: disk full", apperr.ErrStorage)
}

func TestAskStorageFailureDropsAnswer(t *testing.T) {
	_, s, n, fake := setup(t, aitest.Text("answer"))
	m := New(failingStore{Store: s}, fake, logger.Nop())
	ctx := context.Background()

	conv, err := m.Load(ctx, n.ID)
	require.NoError(t, err)

	_, err = m.Ask(ctx, conv, "What is Big O?")
	assert.ErrorIs(t, err, apperr.ErrStorage)
	require.Len(t, conv.Turns, 1)
	assert.Equal(t, model.RoleUser, conv.Turns[0].Role)
}
