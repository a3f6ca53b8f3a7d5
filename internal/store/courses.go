package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rcliao/studynotes/internal/model"
)

const courseColumns = `id, name, code, color, created_at, updated_at`

func (s *SQLiteStore) CreateCourse(ctx context.Context, p NewCourse) (*model.Course, error) {
	now := s.timestamp()
	id := s.newID()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO courses (id, name, code, color, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, p.Name, nullIfEmpty(p.Code), p.Color, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert course: %w", classify(err, "course"))
	}
	return s.GetCourse(ctx, id)
}

func (s *SQLiteStore) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)
	c, err := scanCourse(row)
	if err != nil {
		return nil, classify(err, "course "+id)
	}
	return &c, nil
}

func (s *SQLiteStore) UpdateCourse(ctx context.Context, id string, u CourseUpdate) (*model.Course, error) {
	set := []string{"updated_at = ?"}
	args := []interface{}{s.timestamp()}

	if u.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *u.Name)
	}
	if u.Code != nil {
		set = append(set, "code = ?")
		args = append(args, nullIfEmpty(*u.Code))
	}
	if u.Color != nil {
		set = append(set, "color = ?")
		args = append(args, *u.Color)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE courses SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update course: %w", classify(err, "course"))
	}
	if err := affected(res, "course "+id); err != nil {
		return nil, err
	}
	return s.GetCourse(ctx, id)
}

func (s *SQLiteStore) DeleteCourse(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", classify(err, "course"))
	}
	return affected(res, "course "+id)
}

func (s *SQLiteStore) ListCourses(ctx context.Context) ([]model.Course, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+courseColumns+` FROM courses ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, classify(err, "courses")
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, classify(err, "courses")
		}
		courses = append(courses, c)
	}
	return courses, classify(rows.Err(), "courses")
}

func scanCourse(row scanner) (model.Course, error) {
	var c model.Course
	var code sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&c.ID, &c.Name, &code, &c.Color, &createdAt, &updatedAt); err != nil {
		return c, err
	}
	c.Code = code.String
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return c, nil
}
