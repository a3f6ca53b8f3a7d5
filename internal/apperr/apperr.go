// Package apperr defines the error kinds shared by the stores, managers and
// outer surfaces, and how each kind is reported to the user.
package apperr

import (
	"errors"
	"net/http"
	"strings"
)

// Error kinds. Callers wrap these with fmt.Errorf("%w: ...") and classify
// with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("constraint violation")
	ErrStorage    = errors.New("storage unavailable")
	ErrGeneration = errors.New("generation failed")
	ErrParse      = errors.New("unusable ai response")
)

// Domain errors that refine a kind.
var (
	ErrNoContent      = &kindError{msg: "note has no content", kind: ErrValidation}
	ErrQuizGeneration = &kindError{msg: "quiz generation failed", kind: ErrParse}
)

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// Message returns the text shown to the user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrNoContent):
		return "add some content to the note first"
	case errors.Is(err, ErrQuizGeneration):
		return "quiz generation failed"
	case errors.Is(err, ErrValidation):
		return detail(err, ErrValidation)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict):
		return err.Error()
	case errors.Is(err, ErrGeneration):
		return "couldn't complete AI request"
	case errors.Is(err, ErrParse):
		return "couldn't understand AI response"
	case errors.Is(err, ErrStorage):
		return "storage unavailable, please try again"
	default:
		return err.Error()
	}
}

// HTTPStatus maps err to the status code the API responds with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrGeneration):
		return http.StatusBadGateway
	case errors.Is(err, ErrParse):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// detail strips the kind prefix so "validation failed: title is required"
// reads as "title is required".
func detail(err, kind error) string {
	s := err.Error()
	if i := strings.Index(s, kind.Error()+": "); i >= 0 {
		return s[i+len(kind.Error())+2:]
	}
	return s
}
