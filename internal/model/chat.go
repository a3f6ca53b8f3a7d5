package model

import "time"

// Role identifies who authored a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Chat is the persisted transcript for a note. There is at most one per note.
type Chat struct {
	ID        string     `json:"id"`
	NoteID    string     `json:"note_id"`
	Messages  Transcript `json:"messages"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
