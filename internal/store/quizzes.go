package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rcliao/studynotes/internal/apperr"
	"github.com/rcliao/studynotes/internal/model"
)

const quizColumns = `q.id, q.note_id, n.title, q.topic, q.questions, q.score, q.completed_at, q.created_at`

func (s *SQLiteStore) CreateQuiz(ctx context.Context, p NewQuiz) (*model.Quiz, error) {
	if err := p.Questions.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	id := s.newID()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quizzes (id, note_id, topic, questions, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, p.NoteID, nullIfEmpty(p.Topic), p.Questions, s.timestamp())
	if err != nil {
		return nil, fmt.Errorf("insert quiz: %w", classify(err, "quiz note reference"))
	}
	return s.GetQuiz(ctx, id)
}

func (s *SQLiteStore) GetQuiz(ctx context.Context, id string) (*model.Quiz, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+quizColumns+` FROM quizzes q JOIN notes n ON n.id = q.note_id WHERE q.id = ?`, id)
	q, err := scanQuiz(row)
	if err != nil {
		return nil, classify(err, "quiz "+id)
	}
	return &q, nil
}

func (s *SQLiteStore) CompleteQuiz(ctx context.Context, id string, score int) (*model.Quiz, error) {
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("%w: score %d out of range", apperr.ErrValidation, score)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE quizzes SET score = ?, completed_at = ? WHERE id = ? AND completed_at IS NULL`,
		score, s.timestamp(), id)
	if err != nil {
		return nil, fmt.Errorf("complete quiz: %w", classify(err, "quiz score"))
	}
	if err := affected(res, "quiz "+id); err != nil {
		// Distinguish a missing quiz from one that already has a score.
		if _, gerr := s.GetQuiz(ctx, id); gerr == nil {
			return nil, fmt.Errorf("%w: quiz %s already completed", apperr.ErrConflict, id)
		}
		return nil, err
	}
	return s.GetQuiz(ctx, id)
}

func (s *SQLiteStore) DeleteQuiz(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", classify(err, "quiz"))
	}
	return affected(res, "quiz "+id)
}

func (s *SQLiteStore) ListQuizzes(ctx context.Context, p ListQuizzesParams) ([]model.Quiz, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if p.NoteID != "" {
		where = append(where, "q.note_id = ?")
		args = append(args, p.NoteID)
	}
	switch p.Status {
	case QuizCompleted:
		where = append(where, "q.completed_at IS NOT NULL")
	case QuizIncomplete:
		where = append(where, "q.completed_at IS NULL")
	case QuizAny:
	default:
		return nil, fmt.Errorf("%w: unknown quiz status %q", apperr.ErrValidation, p.Status)
	}

	query := fmt.Sprintf(`SELECT %s FROM quizzes q JOIN notes n ON n.id = q.note_id
		WHERE %s ORDER BY q.created_at DESC, q.id DESC LIMIT ?`, quizColumns, strings.Join(where, " AND "))
	args = append(args, limitOrDefault(p.Limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "quizzes")
	}
	defer rows.Close()

	quizzes := []model.Quiz{}
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, classify(err, "quizzes")
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, classify(rows.Err(), "quizzes")
}

func scanQuiz(row scanner) (model.Quiz, error) {
	var q model.Quiz
	var topic, completedAt sql.NullString
	var score sql.NullInt64
	var createdAt string

	err := row.Scan(&q.ID, &q.NoteID, &q.NoteTitle, &topic, &q.Questions, &score, &completedAt, &createdAt)
	if err != nil {
		return q, err
	}

	q.Topic = topic.String
	if score.Valid {
		v := int(score.Int64)
		q.Score = &v
	}
	q.CompletedAt = parseNullTime(completedAt)
	q.CreatedAt = parseTime(createdAt)
	return q, nil
}
