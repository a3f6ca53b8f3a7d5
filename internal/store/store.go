// Package store provides the study-notes storage interface and SQLite implementation.
package store

import (
	"context"

	"github.com/rcliao/studynotes/internal/model"
)

// NewCourse holds parameters for creating a course.
type NewCourse struct {
	Name  string
	Code  string
	Color string
}

// CourseUpdate holds a partial course update. Nil fields are left unchanged;
// an empty Code clears it.
type CourseUpdate struct {
	Name  *string
	Code  *string
	Color *string
}

// NewNote holds parameters for creating a note.
type NewNote struct {
	CourseID    string
	Title       string
	Content     string
	ContentType model.ContentType
	FileURI     string
}

// NoteUpdate holds a partial note update. Nil fields are left unchanged; an
// empty CourseID unlinks the note from its course.
type NoteUpdate struct {
	CourseID    *string
	Title       *string
	Content     *string
	ContentType *model.ContentType
	FileURI     *string
}

// ListNotesParams holds parameters for listing notes.
type ListNotesParams struct {
	CourseID string
	Limit    int
}

// QuizStatus filters quizzes by completion.
type QuizStatus string

const (
	QuizAny        QuizStatus = ""
	QuizCompleted  QuizStatus = "completed"
	QuizIncomplete QuizStatus = "incomplete"
)

// NewQuiz holds parameters for creating a quiz.
type NewQuiz struct {
	NoteID    string
	Topic     string
	Questions model.QuestionSet
}

// ListQuizzesParams holds parameters for listing quizzes.
type ListQuizzesParams struct {
	NoteID string
	Status QuizStatus
	Limit  int
}

// Store defines the study-notes storage interface.
type Store interface {
	CreateCourse(ctx context.Context, p NewCourse) (*model.Course, error)
	GetCourse(ctx context.Context, id string) (*model.Course, error)
	UpdateCourse(ctx context.Context, id string, u CourseUpdate) (*model.Course, error)
	// DeleteCourse removes a course. Its notes are kept and unlinked.
	DeleteCourse(ctx context.Context, id string) error
	ListCourses(ctx context.Context) ([]model.Course, error)

	CreateNote(ctx context.Context, p NewNote) (*model.Note, error)
	GetNote(ctx context.Context, id string) (*model.Note, error)
	// UpdateNote applies a partial update and refreshes updated_at.
	UpdateNote(ctx context.Context, id string, u NoteUpdate) (*model.Note, error)
	// SaveAnalysis writes summary, concepts and topics in one statement.
	SaveAnalysis(ctx context.Context, id string, a model.Analysis) (*model.Note, error)
	// DeleteNote removes a note together with its chat and quizzes.
	DeleteNote(ctx context.Context, id string) error
	ListNotes(ctx context.Context, p ListNotesParams) ([]model.Note, error)
	SearchNotes(ctx context.Context, p SearchParams) ([]model.Note, error)

	// GetChat returns the transcript for a note, or ErrNotFound if none exists.
	GetChat(ctx context.Context, noteID string) (*model.Chat, error)
	// SaveTranscript inserts or replaces the single transcript of a note.
	SaveTranscript(ctx context.Context, noteID string, msgs model.Transcript) (*model.Chat, error)

	CreateQuiz(ctx context.Context, p NewQuiz) (*model.Quiz, error)
	GetQuiz(ctx context.Context, id string) (*model.Quiz, error)
	// CompleteQuiz sets score and completed_at together. A quiz completes once.
	CompleteQuiz(ctx context.Context, id string, score int) (*model.Quiz, error)
	DeleteQuiz(ctx context.Context, id string) error
	ListQuizzes(ctx context.Context, p ListQuizzesParams) ([]model.Quiz, error)

	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error

	Stats(ctx context.Context) (*Stats, error)
	ExportAll(ctx context.Context) (*Library, error)
	// Import writes an exported library, skipping rows whose ID exists.
	Import(ctx context.Context, lib *Library) (*ImportResult, error)
	// Replace swaps every domain row for lib in one transaction.
	Replace(ctx context.Context, lib *Library) (*ImportResult, error)
	// Reset deletes all domain rows. Settings are kept.
	Reset(ctx context.Context) error

	// Close closes the store.
	Close() error
}
