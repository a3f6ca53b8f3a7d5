// Package chat runs question-and-answer conversations grounded on a note.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rcliao/studynotes/internal/ai"
	"github.com/rcliao/studynotes/internal/apperr"
	"github.com/rcliao/studynotes/internal/logger"
	"github.com/rcliao/studynotes/internal/model"
	"github.com/rcliao/studynotes/internal/store"
)

// Conversation is the in-memory transcript for one note. Turns only grow.
type Conversation struct {
	NoteID string           `json:"note_id"`
	Turns  model.Transcript `json:"messages"`
}

// Empty reports whether nothing has been asked yet.
func (c *Conversation) Empty() bool {
	return len(c.Turns) == 0
}

type Manager struct {
	store store.Store
	gen   ai.Generator
	log   *logger.Logger
}

func New(s store.Store, gen ai.Generator, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{store: s, gen: gen, log: log.With("component", "chat")}
}

// Load returns the stored transcript for a note, or an empty conversation if
// nothing has been asked yet.
func (m *Manager) Load(ctx context.Context, noteID string) (*Conversation, error) {
	if _, err := m.store.GetNote(ctx, noteID); err != nil {
		return nil, err
	}

	conv := &Conversation{NoteID: noteID, Turns: model.Transcript{}}
	c, err := m.store.GetChat(ctx, noteID)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return conv, nil
	case err != nil:
		return nil, err
	}
	conv.Turns = c.Messages
	return conv, nil
}

// Ask appends the question to conv, asks the fast tier for an answer and
// persists the whole transcript. If generation fails the question stays in
// conv unanswered and nothing is written. If the write fails the answer is
// dropped from conv.
func (m *Manager) Ask(ctx context.Context, conv *Conversation, question string) (model.Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return model.Message{}, fmt.Errorf("%w: question is required", apperr.ErrValidation)
	}

	note, err := m.store.GetNote(ctx, conv.NoteID)
	if err != nil {
		return model.Message{}, err
	}

	conv.Turns = append(conv.Turns, model.Message{Role: model.RoleUser, Content: question})

	answer, err := m.gen.Generate(ctx, chatPrompt(note, question), ai.Fast)
	if err != nil {
		m.log.Warn("chat request failed", "note_id", conv.NoteID, "error", err)
		return model.Message{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.Message{}, err
	}

	reply := model.Message{Role: model.RoleAssistant, Content: strings.TrimSpace(answer)}
	conv.Turns = append(conv.Turns, reply)

	if _, err := m.store.SaveTranscript(ctx, conv.NoteID, conv.Turns); err != nil {
		conv.Turns = conv.Turns[:len(conv.Turns)-1]
		m.log.Error("save transcript failed", "note_id", conv.NoteID, "error", err)
		return model.Message{}, err
	}
	m.log.Debug("chat turn saved", "note_id", conv.NoteID, "turns", len(conv.Turns))
	return reply, nil
}

const chatTemplate = `You are a helpful educational assistant. Answer questions about this note concisely.

Title: %s
Content: %s

Question: %s`

func chatPrompt(n *model.Note, question string) string {
	return fmt.Sprintf(chatTemplate, n.Title, n.Content, question)
}
