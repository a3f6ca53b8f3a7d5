package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/studynotes/internal/model"
)

// SearchParams holds parameters for searching notes.
type SearchParams struct {
	Query    string
	CourseID string
	Limit    int
}

// SearchNotes finds notes whose title, content or summary contains the query
// substring (case-insensitive for ASCII).
func (s *SQLiteStore) SearchNotes(ctx context.Context, p SearchParams) ([]model.Note, error) {
	pattern := "%" + escapeLike(p.Query) + "%"

	where := []string{
		`(n.title LIKE ? ESCAPE '\' OR n.content LIKE ? ESCAPE '\' OR n.ai_summary LIKE ? ESCAPE '\')`,
	}
	args := []interface{}{pattern, pattern, pattern}

	if p.CourseID != "" {
		where = append(where, "n.course_id = ?")
		args = append(args, p.CourseID)
	}

	query := fmt.Sprintf(`SELECT %s FROM notes n WHERE %s
		ORDER BY n.updated_at DESC, n.id DESC LIMIT ?`, noteColumns, strings.Join(where, " AND "))
	args = append(args, limitOrDefault(p.Limit))

	return s.queryNotes(ctx, query, args...)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
