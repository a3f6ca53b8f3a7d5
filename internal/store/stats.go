package store

import (
	"context"
	"database/sql"
	"math"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath           string        `json:"db_path"`
	DBSizeBytes      int64         `json:"db_size_bytes"`
	Courses          int           `json:"courses"`
	Notes            int           `json:"notes"`
	AnalyzedNotes    int           `json:"analyzed_notes"`
	Chats            int           `json:"chats"`
	Quizzes          int           `json:"quizzes"`
	CompletedQuizzes int           `json:"completed_quizzes"`
	AverageQuizScore *float64      `json:"average_quiz_score,omitempty"`
	NotesByCourse    []CourseStats `json:"notes_by_course"`
	UnassignedNotes  int           `json:"unassigned_notes"`
}

// CourseStats holds per-course counts.
type CourseStats struct {
	CourseID string `json:"course_id"`
	Name     string `json:"name"`
	Notes    int    `json:"notes"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{DBPath: s.path, NotesByCourse: []CourseStats{}}

	if info, err := os.Stat(s.path); err == nil {
		st.DBSizeBytes = info.Size()
	}

	counts := []struct {
		query string
		dst   *int
	}{
		{`SELECT COUNT(*) FROM courses`, &st.Courses},
		{`SELECT COUNT(*) FROM notes`, &st.Notes},
		{`SELECT COUNT(*) FROM notes WHERE ai_summary IS NOT NULL`, &st.AnalyzedNotes},
		{`SELECT COUNT(*) FROM notes WHERE course_id IS NULL`, &st.UnassignedNotes},
		{`SELECT COUNT(*) FROM chats`, &st.Chats},
		{`SELECT COUNT(*) FROM quizzes`, &st.Quizzes},
		{`SELECT COUNT(*) FROM quizzes WHERE completed_at IS NOT NULL`, &st.CompletedQuizzes},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return nil, classify(err, "stats")
		}
	}

	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx,
		`SELECT AVG(score) FROM quizzes WHERE completed_at IS NOT NULL`).Scan(&avg); err != nil {
		return nil, classify(err, "stats")
	}
	if avg.Valid {
		v := math.Round(avg.Float64*10) / 10
		st.AverageQuizScore = &v
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, COUNT(n.id) AS cnt
		FROM courses c LEFT JOIN notes n ON n.course_id = c.id
		GROUP BY c.id, c.name ORDER BY cnt DESC, c.name`)
	if err != nil {
		return nil, classify(err, "stats")
	}
	defer rows.Close()

	for rows.Next() {
		var cs CourseStats
		if err := rows.Scan(&cs.CourseID, &cs.Name, &cs.Notes); err != nil {
			return nil, classify(err, "stats")
		}
		st.NotesByCourse = append(st.NotesByCourse, cs)
	}

	return st, classify(rows.Err(), "stats")
}
