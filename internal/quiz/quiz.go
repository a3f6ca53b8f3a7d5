// Package quiz generates quizzes from notes and grades quiz sessions.
package quiz

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rcliao/studynotes/internal/ai"
	"github.com/rcliao/studynotes/internal/apperr"
	"github.com/rcliao/studynotes/internal/logger"
	"github.com/rcliao/studynotes/internal/model"
	"github.com/rcliao/studynotes/internal/store"
)

// QuestionCount is how many questions a generated quiz holds.
const QuestionCount = 5

// Manager generates, runs and lists quizzes.
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
	return &Manager{store: s, gen: gen, log: log.With("component", "quiz")}
}

type generatedQuiz struct {
	Questions []model.Question `json:"questions"`
}

// Generate asks the thorough tier for questions about a note, optionally
// focused on topic, stores the quiz unscored and starts a session on it.
// Any unusable response fails the whole quiz.
func (m *Manager) Generate(ctx context.Context, noteID, topic string) (*Session, error) {
	n, err := m.store.GetNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(n.Content) == "" {
		return nil, apperr.ErrNoContent
	}
	topic = strings.TrimSpace(topic)

	text, err := m.gen.Generate(ctx, quizPrompt(n, topic), ai.Thorough)
	if err != nil {
		m.log.Warn("quiz request failed", "note_id", noteID, "error", err)
		return nil, err
	}

	questions, err := parseQuestions(text)
	if err != nil {
		m.log.Warn("quiz response unusable", "note_id", noteID, "error", err)
		return nil, fmt.Errorf("%w: %v", apperr.ErrQuizGeneration, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q, err := m.store.CreateQuiz(ctx, store.NewQuiz{NoteID: noteID, Topic: topic, Questions: questions})
	if err != nil {
		return nil, err
	}
	m.log.Info("quiz generated", "quiz_id", q.ID, "note_id", noteID, "questions", len(questions))
	return newSession(q), nil
}

func parseQuestions(text string) (model.QuestionSet, error) {
	var resp generatedQuiz
	if err := ai.DecodeJSON(text, &resp); err != nil {
		return nil, err
	}
	if len(resp.Questions) == 0 {
		return nil, fmt.Errorf("response has no questions")
	}
	if len(resp.Questions) > QuestionCount {
		resp.Questions = resp.Questions[:QuestionCount]
	}

	set := make(model.QuestionSet, len(resp.Questions))
	for i, q := range resp.Questions {
		set[i] = normalize(q)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// normalize trims whitespace and maps loose type and true/false spellings
// onto the stored forms. It does not repair anything else.
func normalize(q model.Question) model.Question {
	q.Question = strings.TrimSpace(q.Question)
	q.Answer = strings.TrimSpace(q.Answer)
	q.Explanation = strings.TrimSpace(q.Explanation)

	switch strings.ToLower(strings.TrimSpace(string(q.Type))) {
	case "mcq", "multiple-choice", "multiple_choice", "multiple choice":
		q.Type = model.QuestionMCQ
	case "true-false", "true_false", "true/false", "truefalse", "tf":
		q.Type = model.QuestionTrueFalse
	}

	if q.Type == model.QuestionTrueFalse {
		switch strings.ToLower(q.Answer) {
		case "true":
			q.Answer = model.AnswerTrue
		case "false":
			q.Answer = model.AnswerFalse
		}
		q.Options = nil
		return q
	}

	opts := make([]string, len(q.Options))
	for i, o := range q.Options {
		opts[i] = strings.TrimSpace(o)
	}
	q.Options = opts
	return q
}

// Start opens a session on a stored quiz that has not been completed.
func (m *Manager) Start(ctx context.Context, quizID string) (*Session, error) {
	q, err := m.store.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if q.Completed() {
		return nil, ErrSessionCompleted
	}
	return newSession(q), nil
}

// Result describes the session after Advance.
type Result struct {
	Index     int         `json:"index"`
	Completed bool        `json:"completed"`
	Correct   int         `json:"correct"`
	Total     int         `json:"total"`
	Score     *int        `json:"score,omitempty"`
	Quiz      *model.Quiz `json:"quiz,omitempty"`
}

// Advance moves past the answered current question. On the last question it
// scores the session and stores the score and completion time together. If
// that write fails the session stays on the last question and Advance may be
// called again.
func (m *Manager) Advance(ctx context.Context, s *Session) (*Result, error) {
	if s.completed {
		return nil, ErrSessionCompleted
	}
	if !s.revealed {
		return nil, ErrNotAnswered
	}

	res := &Result{Correct: s.correct, Total: s.Total()}
	if s.next() {
		res.Index = s.index
		return res, nil
	}

	score := s.finalScore()
	q, err := m.store.CompleteQuiz(ctx, s.quiz.ID, score)
	if err != nil {
		m.log.Error("complete quiz failed", "quiz_id", s.quiz.ID, "error", err)
		return nil, err
	}
	s.quiz = q
	s.score = score
	s.completed = true
	m.log.Info("quiz completed", "quiz_id", q.ID, "score", score)

	res.Index = s.index
	res.Completed = true
	res.Score = &score
	res.Quiz = q
	return res, nil
}

// Graded is the outcome of Grade.
type Graded struct {
	Quiz     *model.Quiz `json:"quiz"`
	Score    int         `json:"score"`
	Correct  int         `json:"correct"`
	Total    int         `json:"total"`
	Feedback []Feedback  `json:"feedback"`
}

// Grade answers every question of a stored quiz in order and completes it.
// answers must hold exactly one choice per question.
func (m *Manager) Grade(ctx context.Context, quizID string, answers []string) (*Graded, error) {
	s, err := m.Start(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(answers) != s.Total() {
		return nil, fmt.Errorf("%w: expected %d answers, got %d", apperr.ErrValidation, s.Total(), len(answers))
	}

	g := &Graded{Total: s.Total(), Feedback: make([]Feedback, 0, len(answers))}
	for _, a := range answers {
		fb, err := s.Answer(a)
		if err != nil {
			return nil, err
		}
		g.Feedback = append(g.Feedback, fb)

		res, err := m.Advance(ctx, s)
		if err != nil {
			return nil, err
		}
		if res.Completed {
			g.Quiz = res.Quiz
			g.Score = *res.Score
			g.Correct = res.Correct
		}
	}
	return g, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*model.Quiz, error) {
	return m.store.GetQuiz(ctx, id)
}

// List returns quizzes newest first.
func (m *Manager) List(ctx context.Context, p store.ListQuizzesParams) ([]model.Quiz, error) {
	return m.store.ListQuizzes(ctx, p)
}

// Delete removes a quiz. The note is untouched.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.store.DeleteQuiz(ctx, id); err != nil {
		return err
	}
	m.log.Debug("quiz deleted", "quiz_id", id)
	return nil
}

// Stats summarizes quiz history.
type Stats struct {
	Total        int      `json:"total"`
	Completed    int      `json:"completed"`
	Incomplete   int      `json:"incomplete"`
	AverageScore *float64 `json:"average_score,omitempty"`
}

// Stats counts completed and incomplete quizzes, optionally for one note, and
// averages the completed scores.
func (m *Manager) Stats(ctx context.Context, noteID string) (*Stats, error) {
	quizzes, err := m.store.ListQuizzes(ctx, store.ListQuizzesParams{NoteID: noteID, Limit: -1})
	if err != nil {
		return nil, err
	}

	st := &Stats{Total: len(quizzes)}
	sum := 0
	for _, q := range quizzes {
		if !q.Completed() {
			st.Incomplete++
			continue
		}
		st.Completed++
		sum += *q.Score
	}
	if st.Completed > 0 {
		avg := math.Round(float64(sum)/float64(st.Completed)*10) / 10
		st.AverageScore = &avg
	}
	return st, nil
}
