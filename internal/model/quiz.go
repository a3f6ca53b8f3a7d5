package model

import "time"

// QuestionType is the kind of quiz question.
type QuestionType string

const (
	QuestionMCQ       QuestionType = "mcq"
	QuestionTrueFalse QuestionType = "true-false"
)

// Literal answers for true/false questions.
const (
	AnswerTrue  = "True"
	AnswerFalse = "False"
)

// MCQOptionCount is the number of options a multiple-choice question carries.
const MCQOptionCount = 4

// Question is a single quiz question record.
type Question struct {
	Type        QuestionType `json:"type"`
	Question    string       `json:"question"`
	Options     []string     `json:"options,omitempty"`
	Answer      string       `json:"answer"`
	Explanation string       `json:"explanation"`
}

// Choices returns the answers a user can pick from.
func (q Question) Choices() []string {
	if q.Type == QuestionTrueFalse {
		return []string{AnswerTrue, AnswerFalse}
	}
	return q.Options
}

// Quiz is a generated question set for a note. Score and CompletedAt are
// both nil until the quiz is finished, then both set.
type Quiz struct {
	ID          string      `json:"id"`
	NoteID      string      `json:"note_id"`
	NoteTitle   string      `json:"note_title,omitempty"`
	Topic       string      `json:"topic,omitempty"`
	Questions   QuestionSet `json:"questions"`
	Score       *int        `json:"score,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Completed reports whether the quiz has a final score.
func (q *Quiz) Completed() bool {
	return q.CompletedAt != nil
}
