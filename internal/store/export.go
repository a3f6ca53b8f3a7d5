package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rcliao/studynotes/internal/apperr"
	"github.com/rcliao/studynotes/internal/model"
)

// Library is a full export of the store.
type Library struct {
	Courses []model.Course `json:"courses"`
	Notes   []model.Note   `json:"notes"`
	Chats   []model.Chat   `json:"chats"`
	Quizzes []model.Quiz   `json:"quizzes"`
}

// ImportResult counts rows written by Import.
type ImportResult struct {
	Courses int `json:"courses"`
	Notes   int `json:"notes"`
	Chats   int `json:"chats"`
	Quizzes int `json:"quizzes"`
}

// ExportAll returns every row in the store.
func (s *SQLiteStore) ExportAll(ctx context.Context) (*Library, error) {
	lib := &Library{}
	var err error

	if lib.Courses, err = s.ListCourses(ctx); err != nil {
		return nil, err
	}
	if lib.Notes, err = s.queryNotes(ctx,
		`SELECT `+noteColumns+` FROM notes n ORDER BY n.created_at, n.id`); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, note_id, messages, created_at, updated_at FROM chats ORDER BY created_at, id`)
	if err != nil {
		return nil, classify(err, "chats")
	}
	defer rows.Close()
	lib.Chats = []model.Chat{}
	for rows.Next() {
		var c model.Chat
		var createdAt, updatedAt string
		if err := rows.Scan(&c.ID, &c.NoteID, &c.Messages, &createdAt, &updatedAt); err != nil {
			return nil, classify(err, "chats")
		}
		c.CreatedAt = parseTime(createdAt)
		c.UpdatedAt = parseTime(updatedAt)
		lib.Chats = append(lib.Chats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "chats")
	}

	if lib.Quizzes, err = s.ListQuizzes(ctx, ListQuizzesParams{Limit: -1}); err != nil {
		return nil, err
	}
	return lib, nil
}

// Import writes an exported library in one transaction, keeping IDs and
// timestamps. Rows whose ID already exists are skipped.
func (s *SQLiteStore) Import(ctx context.Context, lib *Library) (*ImportResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify(err, "import")
	}
	defer tx.Rollback()

	res, err := importRows(ctx, tx, lib)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, classify(err, "import")
	}
	return res, nil
}

// Replace deletes all courses, notes, chats and quizzes and writes lib in
// their place. Nothing changes unless every row is written.
func (s *SQLiteStore) Replace(ctx context.Context, lib *Library) (*ImportResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify(err, "replace")
	}
	defer tx.Rollback()

	if err := deleteRows(ctx, tx); err != nil {
		return nil, err
	}
	res, err := importRows(ctx, tx, lib)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, classify(err, "replace")
	}
	return res, nil
}

func importRows(ctx context.Context, tx *sql.Tx, lib *Library) (*ImportResult, error) {
	res := &ImportResult{}
	insert := func(counter *int, relation, query string, args ...interface{}) error {
		r, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return classify(err, relation)
		}
		n, _ := r.RowsAffected()
		*counter += int(n)
		return nil
	}

	for _, c := range lib.Courses {
		if err := insert(&res.Courses, "course "+c.ID,
			`INSERT INTO courses (id, name, code, color, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
			c.ID, c.Name, nullIfEmpty(c.Code), c.Color, formatTime(c.CreatedAt), formatTime(c.UpdatedAt)); err != nil {
			return nil, err
		}
	}
	for _, n := range lib.Notes {
		if n.ContentType == "" {
			n.ContentType = model.ContentText
		}
		var summary interface{}
		if n.Analyzed() {
			summary = n.AISummary
		}
		if err := insert(&res.Notes, "note "+n.ID,
			`INSERT INTO notes (id, course_id, title, content, content_type, file_uri,
			                    ai_summary, ai_concepts, topics, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
			n.ID, nullIfEmpty(n.CourseID), n.Title, nullIfEmpty(n.Content), string(n.ContentType),
			nullIfEmpty(n.FileURI), summary, n.AIConcepts, n.Topics,
			formatTime(n.CreatedAt), formatTime(n.UpdatedAt)); err != nil {
			return nil, err
		}
	}
	for _, c := range lib.Chats {
		if err := c.Messages.Validate(); err != nil {
			return nil, fmt.Errorf("%w: chat %s: %v", apperr.ErrValidation, c.ID, err)
		}
		if err := insert(&res.Chats, "chat "+c.ID,
			`INSERT INTO chats (id, note_id, messages, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`,
			c.ID, c.NoteID, c.Messages, formatTime(c.CreatedAt), formatTime(c.UpdatedAt)); err != nil {
			return nil, err
		}
	}
	for _, q := range lib.Quizzes {
		var completedAt interface{}
		if q.CompletedAt != nil {
			completedAt = formatTime(*q.CompletedAt)
		}
		if (q.Score == nil) != (q.CompletedAt == nil) {
			return nil, fmt.Errorf("%w: quiz %s has score without completion time", apperr.ErrValidation, q.ID)
		}
		if q.Score != nil && (*q.Score < 0 || *q.Score > 100) {
			return nil, fmt.Errorf("%w: quiz %s score %d out of range", apperr.ErrValidation, q.ID, *q.Score)
		}
		if err := q.Questions.Validate(); err != nil {
			return nil, fmt.Errorf("%w: quiz %s: %v", apperr.ErrValidation, q.ID, err)
		}
		if err := insert(&res.Quizzes, "quiz "+q.ID,
			`INSERT INTO quizzes (id, note_id, topic, questions, score, completed_at, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`,
			q.ID, q.NoteID, nullIfEmpty(q.Topic), q.Questions, nullableInt(q.Score), completedAt,
			formatTime(q.CreatedAt)); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Reset deletes all courses, notes, chats and quizzes. Settings are kept.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(err, "reset")
	}
	defer tx.Rollback()

	if err := deleteRows(ctx, tx); err != nil {
		return err
	}
	return classify(tx.Commit(), "reset")
}

func deleteRows(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"quizzes", "chats", "notes", "courses"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return classify(err, table)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return sql.NullInt64{}
	}
	return *v
}
