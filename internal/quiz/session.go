package quiz

import (
	"fmt"
	"math"
	"strings"

	"github.com/rcliao/studynotes/internal/apperr"
	"github.com/rcliao/studynotes/internal/model"
)

// Session errors.
var (
	ErrAlreadyAnswered  = fmt.Errorf("%w: question already answered", apperr.ErrValidation)
	ErrNotAnswered      = fmt.Errorf("%w: answer the current question first", apperr.ErrValidation)
	ErrSessionCompleted = fmt.Errorf("%w: quiz already completed", apperr.ErrConflict)
)

// Option is one choice as shown after answering.
type Option struct {
	Text     string `json:"text"`
	Correct  bool   `json:"correct"`
	Selected bool   `json:"selected"`
}

// Feedback is the result of answering one question.
type Feedback struct {
	Index       int      `json:"index"`
	Selected    string   `json:"selected"`
	Answer      string   `json:"answer"`
	Correct     bool     `json:"correct"`
	Explanation string   `json:"explanation,omitempty"`
	Options     []Option `json:"options"`
}

// Session walks through a quiz one question at a time. A question must be
// answered before the session advances, and each question is answered once.
type Session struct {
	quiz      *model.Quiz
	index     int
	correct   int
	revealed  bool
	selected  string
	completed bool
	score     int
}

func newSession(q *model.Quiz) *Session {
	return &Session{quiz: q}
}

func (s *Session) Quiz() *model.Quiz { return s.quiz }
func (s *Session) Index() int        { return s.index }
func (s *Session) Total() int        { return len(s.quiz.Questions) }
func (s *Session) CorrectCount() int { return s.correct }
func (s *Session) Revealed() bool    { return s.revealed }
func (s *Session) Completed() bool   { return s.completed }

// Score is the final percentage. It is only meaningful once Completed.
func (s *Session) Score() int { return s.score }

// Current returns the question being asked.
func (s *Session) Current() model.Question {
	return s.quiz.Questions[s.index]
}

// Answer records choice for the current question. The comparison with the
// stored answer is exact.
func (s *Session) Answer(choice string) (Feedback, error) {
	if s.completed {
		return Feedback{}, ErrSessionCompleted
	}
	if s.revealed {
		return Feedback{}, ErrAlreadyAnswered
	}
	if strings.TrimSpace(choice) == "" {
		return Feedback{}, fmt.Errorf("%w: choose an answer", apperr.ErrValidation)
	}

	q := s.Current()
	s.revealed = true
	s.selected = choice
	if choice == q.Answer {
		s.correct++
	}
	return s.feedback(), nil
}

func (s *Session) feedback() Feedback {
	q := s.Current()
	choices := q.Choices()
	opts := make([]Option, len(choices))
	for i, c := range choices {
		opts[i] = Option{Text: c, Correct: c == q.Answer, Selected: c == s.selected}
	}
	return Feedback{
		Index:       s.index,
		Selected:    s.selected,
		Answer:      q.Answer,
		Correct:     s.selected == q.Answer,
		Explanation: q.Explanation,
		Options:     opts,
	}
}

// next moves to the following question. It reports false on the last one.
func (s *Session) next() bool {
	if s.index+1 >= s.Total() {
		return false
	}
	s.index++
	s.revealed = false
	s.selected = ""
	return true
}

func (s *Session) finalScore() int {
	return Percent(s.correct, s.Total())
}

// Percent returns round(100*correct/total).
func Percent(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}
