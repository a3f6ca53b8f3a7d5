package notes

import (
	"context"
	"errors"
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

const algorithmsContent = "Big O notation describes the upper bound of algorithm complexity. " +
	"Binary search runs in O(log n). QuickSort averages O(n log n)."

func newTestManager(t *testing.T, replies ...aitest.Reply) (*Manager, *store.SQLiteStore, *aitest.Fake) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	fake := aitest.New(replies...)
	return New(s, fake, logger.Nop()), s, fake
}

func TestCreateValidates(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Create(ctx, store.NewNote{Title: "   "})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = m.Create(ctx, store.NewNote{Title: "x", ContentType: "video"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = m.Create(ctx, store.NewNote{Title: "x", CourseID: "nope"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	n, err := m.Create(ctx, store.NewNote{Title: "  Algorithms  ", Content: algorithmsContent})
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", n.Title)
	assert.Equal(t, model.ContentText, n.ContentType)
}

func TestUpdateRejectsBlankTitle(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	n, err := m.Create(ctx, store.NewNote{Title: "x"})
	require.NoError(t, err)

	blank := " "
	_, err = m.Update(ctx, n.ID, store.NoteUpdate{Title: &blank})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateUnlinksCourse(t *testing.T) {
	m, s, _ := newTestManager(t)
	ctx := context.Background()

	c, err := s.CreateCourse(ctx, store.NewCourse{Name: "CS", Color: "#2563EB"})
	require.NoError(t, err)
	n, err := m.Create(ctx, store.NewNote{Title: "x", CourseID: c.ID})
	require.NoError(t, err)

	none := ""
	got, err := m.Update(ctx, n.ID, store.NoteUpdate{CourseID: &none})
	require.NoError(t, err)
	assert.Empty(t, got.CourseID)
}

func TestAnalyzeStoresAllFields(t *testing.T) {
	reply := "Here is the analysis:\n```json\n" + `{
  "summary": "Big O bounds growth. Binary search is logarithmic.",
  "concepts": ["Big O", "Binary Search", "QuickSort"],
  "topics": ["Complexity Analysis", "Searching"]
}` + "\n```"
	m, _, fake := newTestManager(t, aitest.Text(reply))
	ctx := context.Background()

	n, err := m.Create(ctx, store.NewNote{Title: "Introduction to Algorithms", Content: algorithmsContent})
	require.NoError(t, err)

	got, err := m.Analyze(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, got.Analyzed())
	assert.Equal(t, "Big O bounds growth. Binary search is logarithmic.", got.AISummary)
	assert.Equal(t, model.StringList{"Big O", "Binary Search", "QuickSort"}, got.AIConcepts)
	assert.Equal(t, model.StringList{"Complexity Analysis", "Searching"}, got.Topics)

	call := fake.LastCall()
	assert.Equal(t, ai.Thorough, call.Tier)
	assert.Contains(t, call.Prompt, "Note Title: Introduction to Algorithms")
	assert.Contains(t, call.Prompt, algorithmsContent)
}

func TestAnalyzeTwiceOverwrites(t *testing.T) {
	m, _, _ := newTestManager(t,
		aitest.Text(`{"summary":"first","concepts":["a","b"],"topics":["t1"]}`),
		aitest.Text(`{"summary":"second","concepts":["c"],"topics":[]}`),
	)
	ctx := context.Background()

	n, err := m.Create(ctx, store.NewNote{Title: "x", Content: "content"})
	require.NoError(t, err)

	_, err = m.Analyze(ctx, n.ID)
	require.NoError(t, err)
	got, err := m.Analyze(ctx, n.ID)
	require.NoError(t, err)

	assert.Equal(t, "second", got.AISummary)
	assert.Equal(t, model.StringList{"c"}, got.AIConcepts)
	assert.Equal(t, model.StringList{}, got.Topics)
}

func TestAnalyzeNoContent(t *testing.T) {
	m, _, fake := newTestManager(t, aitest.Text(`{}`))
	ctx := context.Background()

	n, err := m.Create(ctx, store.NewNote{Title: "Empty", Content: "  \n "})
	require.NoError(t, err)

	_, err = m.Analyze(ctx, n.ID)
	assert.ErrorIs(t, err, apperr.ErrNoContent)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Empty(t, fake.Calls(), "no request should be sent for an empty note")
}

func TestAnalyzeFailuresLeaveNoteUnchanged(t *testing.T) {
	tests := []struct {
		name  string
		reply aitest.Reply
		kind  error
	}{
		{"no json", aitest.Text("Sorry, I can't help with that."), apperr.ErrParse},
		{"malformed json", aitest.Text(`{"summary": "x", "concepts": [}`), apperr.ErrParse},
		{"missing summary", aitest.Text(`{"concepts":["a"],"topics":["b"]}`), apperr.ErrParse},
		{"missing topics", aitest.Text(`{"summary":"s","concepts":["a"]}`), apperr.ErrParse},
		{"generation error", aitest.Fail(&ai.GenerationError{Reason: ai.ReasonRateLimited}), apperr.ErrGeneration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, s, _ := newTestManager(t, tt.reply)
			ctx := context.Background()

			n, err := m.Create(ctx, store.NewNote{Title: "x", Content: algorithmsContent})
			require.NoError(t, err)

			_, err = m.Analyze(ctx, n.ID)
			assert.ErrorIs(t, err, tt.kind)

			got, err := s.GetNote(ctx, n.ID)
			require.NoError(t, err)
			assert.False(t, got.Analyzed())
			assert.Empty(t, got.AISummary)
			assert.Equal(t, n.UpdatedAt, got.UpdatedAt)
		})
	}
}

// deletingGenerator deletes the note while the request is in flight.
type deletingGenerator struct {
	store  store.Store
	noteID string
}

func (g *deletingGenerator) Generate(ctx context.Context, _ string, _ ai.Tier) (string, error) {
	if err := g.store.DeleteNote(ctx, g.noteID); err != nil {
		return "", err
	}
	return `{"summary":"s","concepts":[],"topics":[]}`, nil
}

func TestAnalyzeDeletedWhileWaiting(t *testing.T) {
	m, s, _ := newTestManager(t)
	ctx := context.Background()

	n, err := m.Create(ctx, store.NewNote{Title: "x", Content: "y"})
	require.NoError(t, err)
	m.gen = &deletingGenerator{store: s, noteID: n.ID}

	_, err = m.Analyze(ctx, n.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// cancellingGenerator cancels the caller's context before answering.
type cancellingGenerator struct {
	cancel context.CancelFunc
}

func (g *cancellingGenerator) Generate(context.Context, string, ai.Tier) (string, error) {
	g.cancel()
	return `{"summary":"s","concepts":[],"topics":[]}`, nil
}

func TestAnalyzeCancelledDropsResult(t *testing.T) {
	m, s, _ := newTestManager(t)
	n, err := m.Create(context.Background(), store.NewNote{Title: "x", Content: "y"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.gen = &cancellingGenerator{cancel: cancel}

	_, err = m.Analyze(ctx, n.ID)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)

	got, err := s.GetNote(context.Background(), n.ID)
	require.NoError(t, err)
	assert.False(t, got.Analyzed())
}

func TestSearch(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Search(ctx, "  ", "", 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = m.Create(ctx, store.NewNote{Title: "Algorithms", Content: algorithmsContent})
	require.NoError(t, err)
	_, err = m.Create(ctx, store.NewNote{Title: "Cells", Content: "Mitochondria"})
	require.NoError(t, err)

	got, err := m.Search(ctx, "quicksort", "", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Algorithms", got[0].Title)
}
