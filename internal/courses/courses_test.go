package courses

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/studynotes/internal/apperr"
	"github.com/rcliao/studynotes/internal/logger"
	"github.com/rcliao/studynotes/internal/model"
	"github.com/rcliao/studynotes/internal/store"
)

func newTestManager(t *testing.T) (*Manager, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s, logger.Nop()), s
}

func TestCreateDefaults(t *testing.T) {
	m, _ := newTestManager(t)

	c, err := m.Create(context.Background(), store.NewCourse{Name: " Computer Science 101 ", Code: "CS101"})
	require.NoError(t, err)
	assert.Equal(t, "Computer Science 101", c.Name)
	assert.Equal(t, "CS101", c.Code)
	assert.Equal(t, model.PresetColors[0], c.Color)
}

func TestCreateValidates(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Create(ctx, store.NewCourse{Name: ""})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = m.Create(ctx, store.NewCourse{Name: "x", Color: "blue"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	c, err := m.Create(ctx, store.NewCourse{Name: "x", Color: "7c3aed"})
	require.NoError(t, err)
	assert.Equal(t, "#7C3AED", c.Color)
}

func TestUpdateAndDelete(t *testing.T) {
	m, s := newTestManager(t)
	ctx := context.Background()

	c, err := m.Create(ctx, store.NewCourse{Name: "Biology"})
	require.NoError(t, err)
	n, err := s.CreateNote(ctx, store.NewNote{CourseID: c.ID, Title: "Cells"})
	require.NoError(t, err)

	blank := ""
	_, err = m.Update(ctx, c.ID, store.CourseUpdate{Name: &blank})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	color := "#059669"
	got, err := m.Update(ctx, c.ID, store.CourseUpdate{Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "#059669", got.Color)
	assert.Equal(t, "Biology", got.Name)

	require.NoError(t, m.Delete(ctx, c.ID))
	_, err = m.Get(ctx, c.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	note, err := s.GetNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Empty(t, note.CourseID)

	assert.ErrorIs(t, m.Delete(ctx, c.ID), apperr.ErrNotFound)
}
