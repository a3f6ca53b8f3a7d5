// Package courses manages the course labels notes are grouped under.
package courses

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rcliao/studynotes/internal/apperr"
	"github.com/rcliao/studynotes/internal/logger"
	"github.com/rcliao/studynotes/internal/model"
	"github.com/rcliao/studynotes/internal/store"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type Manager struct {
	store store.Store
	log   *logger.Logger
}

func New(s store.Store, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{store: s, log: log.With("component", "courses")}
}

// Create adds a course. Name is required; color defaults to the first preset.
func (m *Manager) Create(ctx context.Context, p store.NewCourse) (*model.Course, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Code = strings.TrimSpace(p.Code)
	if p.Name == "" {
		return nil, fmt.Errorf("%w: course name is required", apperr.ErrValidation)
	}
	color, err := normalizeColor(p.Color)
	if err != nil {
		return nil, err
	}
	p.Color = color

	c, err := m.store.CreateCourse(ctx, p)
	if err != nil {
		return nil, err
	}
	m.log.Debug("course created", "course_id", c.ID, "name", c.Name)
	return c, nil
}

func (m *Manager) Update(ctx context.Context, id string, u store.CourseUpdate) (*model.Course, error) {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: course name is required", apperr.ErrValidation)
		}
		u.Name = &name
	}
	if u.Code != nil {
		code := strings.TrimSpace(*u.Code)
		u.Code = &code
	}
	if u.Color != nil {
		color, err := normalizeColor(*u.Color)
		if err != nil {
			return nil, err
		}
		u.Color = &color
	}
	return m.store.UpdateCourse(ctx, id, u)
}

// Delete removes a course. Its notes are kept without a course.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.store.DeleteCourse(ctx, id); err != nil {
		return err
	}
	m.log.Debug("course deleted", "course_id", id)
	return nil
}

func (m *Manager) Get(ctx context.Context, id string) (*model.Course, error) {
	return m.store.GetCourse(ctx, id)
}

func (m *Manager) List(ctx context.Context) ([]model.Course, error) {
	return m.store.ListCourses(ctx)
}

func normalizeColor(c string) (string, error) {
	c = strings.TrimSpace(c)
	if c == "" {
		return model.PresetColors[0], nil
	}
	if !strings.HasPrefix(c, "#") {
		c = "#" + c
	}
	if !hexColor.MatchString(c) {
		return "", fmt.Errorf("%w: color must be a hex value like %s", apperr.ErrValidation, model.PresetColors[0])
	}
	return strings.ToUpper(c), nil
}
