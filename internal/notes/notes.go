// Package notes manages note records and their AI analysis.
package notes

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/studynotes/internal/ai"
	"github.com/rcliao/studynotes/internal/apperr"
	"github.com/rcliao/studynotes/internal/logger"
	"github.com/rcliao/studynotes/internal/model"
	"github.com/rcliao/studynotes/internal/store"
)

// Manager validates note edits and runs analysis against a Generator.
type Manager struct {
	store store.Store
	gen   ai.Generator
	log   *logger.Logger
}

// New creates a Manager.
func New(s store.Store, gen ai.Generator, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{store: s, gen: gen, log: log.With("component", "notes")}
}

// Create adds a note. The title is required and the content type defaults to
// text.
func (m *Manager) Create(ctx context.Context, p store.NewNote) (*model.Note, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return nil, fmt.Errorf("%w: title is required", apperr.ErrValidation)
	}
	if p.ContentType == "" {
		p.ContentType = model.ContentText
	}
	if !model.ValidContentTypes[p.ContentType] {
		return nil, fmt.Errorf("%w: unknown content type %q", apperr.ErrValidation, p.ContentType)
	}

	n, err := m.store.CreateNote(ctx, p)
	if err != nil {
		return nil, err
	}
	m.log.Debug("note created", "note_id", n.ID, "course_id", n.CourseID)
	return n, nil
}

// Update applies a partial edit. An empty CourseID unlinks the note.
func (m *Manager) Update(ctx context.Context, id string, u store.NoteUpdate) (*model.Note, error) {
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", apperr.ErrValidation)
		}
		u.Title = &title
	}
	if u.ContentType != nil && !model.ValidContentTypes[*u.ContentType] {
		return nil, fmt.Errorf("%w: unknown content type %q", apperr.ErrValidation, *u.ContentType)
	}
	return m.store.UpdateNote(ctx, id, u)
}

// Delete removes a note with its chat and quizzes.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.store.DeleteNote(ctx, id); err != nil {
		return err
	}
	m.log.Debug("note deleted", "note_id", id)
	return nil
}

func (m *Manager) Get(ctx context.Context, id string) (*model.Note, error) {
	return m.store.GetNote(ctx, id)
}

// List returns notes newest-updated first, optionally filtered by course.
func (m *Manager) List(ctx context.Context, courseID string, limit int) ([]model.Note, error) {
	return m.store.ListNotes(ctx, store.ListNotesParams{CourseID: courseID, Limit: limit})
}

// Search finds notes containing query in title, content or summary.
func (m *Manager) Search(ctx context.Context, query, courseID string, limit int) ([]model.Note, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", apperr.ErrValidation)
	}
	return m.store.SearchNotes(ctx, store.SearchParams{Query: query, CourseID: courseID, Limit: limit})
}

// analysisResponse mirrors the JSON object the model is asked for. Concepts
// and topics stay nil when the key is missing.
type analysisResponse struct {
	Summary  string           `json:"summary"`
	Concepts model.StringList `json:"concepts"`
	Topics   model.StringList `json:"topics"`
}

// Analyze asks the thorough tier for a summary, key concepts and topics and
// stores all three together. On any failure the note is left unchanged.
func (m *Manager) Analyze(ctx context.Context, id string) (*model.Note, error) {
	n, err := m.store.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(n.Content) == "" {
		return nil, apperr.ErrNoContent
	}

	text, err := m.gen.Generate(ctx, analysisPrompt(n), ai.Thorough)
	if err != nil {
		m.log.Warn("analysis request failed", "note_id", id, "error", err)
		return nil, err
	}

	var resp analysisResponse
	if err := ai.DecodeJSON(text, &resp); err != nil {
		m.log.Warn("analysis response unusable", "note_id", id, "error", err)
		return nil, err
	}
	a, err := resp.analysis()
	if err != nil {
		m.log.Warn("analysis response incomplete", "note_id", id, "error", err)
		return nil, err
	}

	// The user may have left or deleted the note while the model was working.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	updated, err := m.store.SaveAnalysis(ctx, id, a)
	if err != nil {
		return nil, err
	}
	m.log.Info("note analyzed", "note_id", id, "concepts", len(a.Concepts), "topics", len(a.Topics))
	return updated, nil
}

func (r analysisResponse) analysis() (model.Analysis, error) {
	summary := strings.TrimSpace(r.Summary)
	switch {
	case summary == "":
		return model.Analysis{}, fmt.Errorf("%w: analysis has no summary", apperr.ErrParse)
	case r.Concepts == nil:
		return model.Analysis{}, fmt.Errorf("%w: analysis has no concepts", apperr.ErrParse)
	case r.Topics == nil:
		return model.Analysis{}, fmt.Errorf("%w: analysis has no topics", apperr.ErrParse)
	}
	return model.Analysis{
		Summary:  summary,
		Concepts: trimAll(r.Concepts),
		Topics:   trimAll(r.Topics),
	}, nil
}

func trimAll(in model.StringList) model.StringList {
	out := make(model.StringList, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
