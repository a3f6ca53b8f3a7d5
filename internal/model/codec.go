package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringList is an ordered list of strings stored as a JSON array column.
type StringList []string

// Transcript is an ordered chat history stored as a JSON array column.
type Transcript []Message

// QuestionSet is an ordered list of questions stored as a JSON array column.
type QuestionSet []Question

// Value implements driver.Valuer. A nil list is stored as NULL.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return encodeColumn(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var out []string
	if err := decodeColumn(value, &out); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// Validate checks every turn has a known role.
func (t Transcript) Validate() error {
	for i, m := range t {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return fmt.Errorf("message %d: invalid role %q", i, m.Role)
		}
	}
	return nil
}

// Value implements driver.Valuer. The transcript is validated before encoding.
func (t Transcript) Value() (driver.Value, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if t == nil {
		t = Transcript{}
	}
	return encodeColumn(t)
}

// Scan implements sql.Scanner.
func (t *Transcript) Scan(value interface{}) error {
	if value == nil {
		*t = Transcript{}
		return nil
	}
	var out []Message
	if err := decodeColumn(value, &out); err != nil {
		return fmt.Errorf("transcript: %w", err)
	}
	if err := Transcript(out).Validate(); err != nil {
		return fmt.Errorf("transcript: %w", err)
	}
	*t = out
	return nil
}

// Validate checks the question is well-formed and gradable: a multiple
// choice question has MCQOptionCount distinct options and its answer is one
// of them; a true/false question answers with AnswerTrue or AnswerFalse.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("empty question text")
	}
	switch q.Type {
	case QuestionMCQ:
		if len(q.Options) != MCQOptionCount {
			return fmt.Errorf("multiple choice needs %d options, got %d", MCQOptionCount, len(q.Options))
		}
		seen := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if strings.TrimSpace(o) == "" {
				return fmt.Errorf("empty option")
			}
			if seen[o] {
				return fmt.Errorf("duplicate option %q", o)
			}
			seen[o] = true
		}
		if !seen[q.Answer] {
			return fmt.Errorf("answer %q is not one of the options", q.Answer)
		}
	case QuestionTrueFalse:
		if q.Answer != AnswerTrue && q.Answer != AnswerFalse {
			return fmt.Errorf("true/false answer must be %q or %q, got %q", AnswerTrue, AnswerFalse, q.Answer)
		}
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	return nil
}

// Validate checks the set is non-empty and every question is valid.
func (s QuestionSet) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("no questions")
	}
	for i, q := range s {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

// Value implements driver.Valuer. The set is validated before encoding.
func (s QuestionSet) Value() (driver.Value, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return encodeColumn(s)
}

// Scan implements sql.Scanner.
func (s *QuestionSet) Scan(value interface{}) error {
	var out []Question
	if err := decodeColumn(value, &out); err != nil {
		return fmt.Errorf("questions: %w", err)
	}
	if err := QuestionSet(out).Validate(); err != nil {
		return fmt.Errorf("questions: %w", err)
	}
	*s = out
	return nil
}

func encodeColumn(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func decodeColumn(value interface{}, dst interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
