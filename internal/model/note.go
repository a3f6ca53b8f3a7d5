package model

import "time"

// ContentType describes what a note was captured from.
type ContentType string

const (
	ContentText     ContentType = "text"
	ContentPDF      ContentType = "pdf"
	ContentImage    ContentType = "image"
	ContentDocument ContentType = "document"
)

// ValidContentTypes are the allowed note content types.
var ValidContentTypes = map[ContentType]bool{
	ContentText:     true,
	ContentPDF:      true,
	ContentImage:    true,
	ContentDocument: true,
}

// Note is a single study note and its AI annotations.
//
// AISummary, AIConcepts and Topics are written together: either the note has
// never been analyzed and all three are empty, or all three are set.
type Note struct {
	ID          string      `json:"id"`
	CourseID    string      `json:"course_id,omitempty"`
	Title       string      `json:"title"`
	Content     string      `json:"content,omitempty"`
	ContentType ContentType `json:"content_type"`
	FileURI     string      `json:"file_uri,omitempty"`
	AISummary   string      `json:"ai_summary,omitempty"`
	AIConcepts  StringList  `json:"ai_concepts"`
	Topics      StringList  `json:"topics"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Analyzed reports whether the note carries AI annotations.
func (n *Note) Analyzed() bool {
	return n.AIConcepts != nil
}

// Analysis is the structured result of analyzing a note.
type Analysis struct {
	Summary  string     `json:"summary"`
	Concepts StringList `json:"concepts"`
	Topics   StringList `json:"topics"`
}
