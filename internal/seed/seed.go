// Package seed loads a sample library of courses, notes, chats and quizzes.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/studynotes/internal/apperr"
	"github.com/rcliao/studynotes/internal/model"
	"github.com/rcliao/studynotes/internal/store"
)

//go:embed sample.yaml
var sample []byte

type Dataset struct {
	Courses []Course `yaml:"courses"`
	Notes   []Note   `yaml:"notes"`
	Chats   []Chat   `yaml:"chats"`
	Quizzes []Quiz   `yaml:"quizzes"`
}

type Course struct {
	Key   string `yaml:"key"`
	Name  string `yaml:"name"`
	Code  string `yaml:"code"`
	Color string `yaml:"color"`
}

type Note struct {
	Key         string   `yaml:"key"`
	Course      string   `yaml:"course"`
	Title       string   `yaml:"title"`
	ContentType string   `yaml:"content_type"`
	Content     string   `yaml:"content"`
	Summary     string   `yaml:"summary"`
	Concepts    []string `yaml:"concepts"`
	Topics      []string `yaml:"topics"`
}

type Chat struct {
	Note     string    `yaml:"note"`
	Messages []Message `yaml:"messages"`
}

type Message struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
}

type Quiz struct {
	Note      string     `yaml:"note"`
	Topic     string     `yaml:"topic"`
	Score     *int       `yaml:"score"`
	Questions []Question `yaml:"questions"`
}

type Question struct {
	Type        string   `yaml:"type"`
	Question    string   `yaml:"question"`
	Options     []string `yaml:"options"`
	Answer      string   `yaml:"answer"`
	Explanation string   `yaml:"explanation"`
}

// Summary counts what Load created.
type Summary struct {
	Courses int `json:"courses"`
	Notes   int `json:"notes"`
	Chats   int `json:"chats"`
	Quizzes int `json:"quizzes"`
}

// Sample returns the built-in dataset.
func Sample() (*Dataset, error) {
	return Parse(sample)
}

// Parse decodes a YAML dataset.
func Parse(data []byte) (*Dataset, error) {
	var d Dataset
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: seed data: %v", apperr.ErrValidation, err)
	}
	return &d, nil
}

// Load replaces every course, note, chat and quiz in the store with the
// dataset. Settings are kept. A dataset with any bad entry leaves the store
// untouched.
func Load(ctx context.Context, s store.Store, d *Dataset) (*Summary, error) {
	lib, err := d.library(time.Now().UTC())
	if err != nil {
		return nil, err
	}
	res, err := s.Replace(ctx, lib)
	if err != nil {
		return nil, fmt.Errorf("load seed data: %w", err)
	}
	return &Summary{Courses: res.Courses, Notes: res.Notes, Chats: res.Chats, Quizzes: res.Quizzes}, nil
}

// library resolves keys to fresh IDs and checks every row before anything
// is written. Rows are stamped a millisecond apart in file order.
func (d *Dataset) library(base time.Time) (*store.Library, error) {
	tick := 0
	stamp := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Millisecond)
	}

	lib := &store.Library{}
	courseIDs := map[string]string{}
	for _, c := range d.Courses {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("%w: course %s: name is required", apperr.ErrValidation, c.Key)
		}
		if _, dup := courseIDs[c.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate course key %q", apperr.ErrValidation, c.Key)
		}
		color := c.Color
		if color == "" {
			color = model.PresetColors[0]
		}
		at := stamp()
		course := model.Course{ID: newID(), Name: c.Name, Code: c.Code, Color: color, CreatedAt: at, UpdatedAt: at}
		courseIDs[c.Key] = course.ID
		lib.Courses = append(lib.Courses, course)
	}

	noteIDs := map[string]string{}
	for _, n := range d.Notes {
		courseID, err := lookup(courseIDs, "course", n.Course)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(n.Title) == "" {
			return nil, fmt.Errorf("%w: note %s: title is required", apperr.ErrValidation, n.Key)
		}
		if _, dup := noteIDs[n.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate note key %q", apperr.ErrValidation, n.Key)
		}
		contentType := model.ContentType(n.ContentType)
		if contentType == "" {
			contentType = model.ContentText
		}
		if !model.ValidContentTypes[contentType] {
			return nil, fmt.Errorf("%w: note %s: unknown content type %q", apperr.ErrValidation, n.Key, n.ContentType)
		}
		at := stamp()
		note := model.Note{
			ID:          newID(),
			CourseID:    courseID,
			Title:       n.Title,
			Content:     n.Content,
			ContentType: contentType,
			CreatedAt:   at,
			UpdatedAt:   at,
		}
		if n.Summary != "" {
			note.AISummary = n.Summary
			note.AIConcepts = nonNil(n.Concepts)
			note.Topics = nonNil(n.Topics)
		}
		noteIDs[n.Key] = note.ID
		lib.Notes = append(lib.Notes, note)
	}

	chatted := map[string]bool{}
	for _, c := range d.Chats {
		noteID, err := lookup(noteIDs, "note", c.Note)
		if err != nil {
			return nil, err
		}
		if noteID == "" || chatted[noteID] {
			return nil, fmt.Errorf("%w: chat needs a note without another chat, got %q", apperr.ErrValidation, c.Note)
		}
		chatted[noteID] = true
		msgs := make(model.Transcript, len(c.Messages))
		for i, m := range c.Messages {
			msgs[i] = model.Message{Role: model.Role(m.Role), Content: m.Content}
		}
		if err := msgs.Validate(); err != nil {
			return nil, fmt.Errorf("%w: chat for %s: %v", apperr.ErrValidation, c.Note, err)
		}
		at := stamp()
		lib.Chats = append(lib.Chats, model.Chat{ID: newID(), NoteID: noteID, Messages: msgs, CreatedAt: at, UpdatedAt: at})
	}

	for _, q := range d.Quizzes {
		noteID, err := lookup(noteIDs, "note", q.Note)
		if err != nil {
			return nil, err
		}
		if noteID == "" {
			return nil, fmt.Errorf("%w: quiz needs a note", apperr.ErrValidation)
		}
		questions := make(model.QuestionSet, len(q.Questions))
		for i, qq := range q.Questions {
			questions[i] = model.Question{
				Type:        model.QuestionType(qq.Type),
				Question:    qq.Question,
				Options:     qq.Options,
				Answer:      qq.Answer,
				Explanation: qq.Explanation,
			}
		}
		if err := questions.Validate(); err != nil {
			return nil, fmt.Errorf("%w: quiz for %s: %v", apperr.ErrValidation, q.Note, err)
		}
		quiz := model.Quiz{ID: newID(), NoteID: noteID, Topic: q.Topic, Questions: questions, CreatedAt: stamp()}
		if q.Score != nil {
			if *q.Score < 0 || *q.Score > 100 {
				return nil, fmt.Errorf("%w: quiz for %s: score %d out of range", apperr.ErrValidation, q.Note, *q.Score)
			}
			score := *q.Score
			completed := stamp()
			quiz.Score = &score
			quiz.CompletedAt = &completed
		}
		lib.Quizzes = append(lib.Quizzes, quiz)
	}
	return lib, nil
}

func newID() string {
	return ulid.Make().String()
}

func lookup(ids map[string]string, kind, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	id, ok := ids[key]
	if !ok {
		return "", fmt.Errorf("%w: unknown %s key %q", apperr.ErrValidation, kind, key)
	}
	return id, nil
}

func nonNil(in []string) model.StringList {
	if in == nil {
		return model.StringList{}
	}
	return model.StringList(in)
}
