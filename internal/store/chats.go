package store

import (
	"context"
	"fmt"

	"github.com/rcliao/studynotes/internal/apperr"
	"github.com/rcliao/studynotes/internal/model"
)

func (s *SQLiteStore) GetChat(ctx context.Context, noteID string) (*model.Chat, error) {
	var c model.Chat
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, note_id, messages, created_at, updated_at FROM chats WHERE note_id = ?`, noteID).
		Scan(&c.ID, &c.NoteID, &c.Messages, &createdAt, &updatedAt)
	if err != nil {
		return nil, classify(err, "chat for note "+noteID)
	}
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return &c, nil
}

// SaveTranscript writes the whole transcript in one statement. The first save
// for a note creates the chat row; later saves replace its messages.
func (s *SQLiteStore) SaveTranscript(ctx context.Context, noteID string, msgs model.Transcript) (*model.Chat, error) {
	if err := msgs.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	now := s.timestamp()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chats (id, note_id, messages, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(note_id) DO UPDATE SET messages = excluded.messages, updated_at = excluded.updated_at`,
		s.newID(), noteID, msgs, now, now)
	if err != nil {
		return nil, fmt.Errorf("save transcript: %w", classify(err, "chat note reference"))
	}
	return s.GetChat(ctx, noteID)
}
