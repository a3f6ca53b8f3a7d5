package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rcliao/studynotes/internal/apperr"
	"github.com/rcliao/studynotes/internal/model"
)

const noteColumns = `n.id, n.course_id, n.title, n.content, n.content_type, n.file_uri,
	n.ai_summary, n.ai_concepts, n.topics, n.created_at, n.updated_at`

func (s *SQLiteStore) CreateNote(ctx context.Context, p NewNote) (*model.Note, error) {
	now := s.timestamp()
	id := s.newID()

	contentType := p.ContentType
	if contentType == "" {
		contentType = model.ContentText
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, course_id, title, content, content_type, file_uri, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, nullIfEmpty(p.CourseID), p.Title, nullIfEmpty(p.Content), string(contentType),
		nullIfEmpty(p.FileURI), now, now)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", classify(err, "note course reference"))
	}
	return s.GetNote(ctx, id)
}

func (s *SQLiteStore) GetNote(ctx context.Context, id string) (*model.Note, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes n WHERE n.id = ?`, id)
	n, err := scanNote(row)
	if err != nil {
		return nil, classify(err, "note "+id)
	}
	return &n, nil
}

func (s *SQLiteStore) UpdateNote(ctx context.Context, id string, u NoteUpdate) (*model.Note, error) {
	set := []string{"updated_at = ?"}
	args := []interface{}{s.timestamp()}

	if u.CourseID != nil {
		set = append(set, "course_id = ?")
		args = append(args, nullIfEmpty(*u.CourseID))
	}
	if u.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *u.Title)
	}
	if u.Content != nil {
		set = append(set, "content = ?")
		args = append(args, nullIfEmpty(*u.Content))
	}
	if u.ContentType != nil {
		set = append(set, "content_type = ?")
		args = append(args, string(*u.ContentType))
	}
	if u.FileURI != nil {
		set = append(set, "file_uri = ?")
		args = append(args, nullIfEmpty(*u.FileURI))
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", classify(err, "note course reference"))
	}
	if err := affected(res, "note "+id); err != nil {
		return nil, err
	}
	return s.GetNote(ctx, id)
}

func (s *SQLiteStore) SaveAnalysis(ctx context.Context, id string, a model.Analysis) (*model.Note, error) {
	if a.Concepts == nil || a.Topics == nil {
		return nil, fmt.Errorf("%w: analysis requires concepts and topics", apperr.ErrValidation)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET ai_summary = ?, ai_concepts = ?, topics = ?, updated_at = ? WHERE id = ?`,
		a.Summary, a.Concepts, a.Topics, s.timestamp(), id)
	if err != nil {
		return nil, fmt.Errorf("save analysis: %w", classify(err, "note analysis"))
	}
	if err := affected(res, "note "+id); err != nil {
		return nil, err
	}
	return s.GetNote(ctx, id)
}

func (s *SQLiteStore) DeleteNote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", classify(err, "note"))
	}
	return affected(res, "note "+id)
}

func (s *SQLiteStore) ListNotes(ctx context.Context, p ListNotesParams) ([]model.Note, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if p.CourseID != "" {
		where = append(where, "n.course_id = ?")
		args = append(args, p.CourseID)
	}

	query := fmt.Sprintf(`SELECT %s FROM notes n WHERE %s
		ORDER BY n.updated_at DESC, n.id DESC LIMIT ?`, noteColumns, strings.Join(where, " AND "))
	args = append(args, limitOrDefault(p.Limit))

	return s.queryNotes(ctx, query, args...)
}

func (s *SQLiteStore) queryNotes(ctx context.Context, query string, args ...interface{}) ([]model.Note, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "notes")
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, classify(err, "notes")
		}
		notes = append(notes, n)
	}
	return notes, classify(rows.Err(), "notes")
}

func scanNote(row scanner) (model.Note, error) {
	var n model.Note
	var courseID, content, fileURI, summary sql.NullString
	var contentType, createdAt, updatedAt string

	err := row.Scan(
		&n.ID, &courseID, &n.Title, &content, &contentType, &fileURI,
		&summary, &n.AIConcepts, &n.Topics, &createdAt, &updatedAt,
	)
	if err != nil {
		return n, err
	}

	n.CourseID = courseID.String
	n.Content = content.String
	n.ContentType = model.ContentType(contentType)
	n.FileURI = fileURI.String
	n.AISummary = summary.String
	n.CreatedAt = parseTime(createdAt)
	n.UpdatedAt = parseTime(updatedAt)
	return n, nil
}
