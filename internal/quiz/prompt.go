package quiz

import (
	"fmt"

	"github.com/rcliao/studynotes/internal/model"
)

const quizTemplate = `Generate %d quiz questions from this educational note.
%s

Note Title: %s
Content: %s

Create a mix of:
- Multiple choice questions (4 options each)
- True/False questions

Every answer must be copied exactly from the options; true/false answers are "True" or "False".

Respond in JSON format:
{
  "questions": [
    {
      "type": "mcq",
      "question": "...",
      "options": ["A", "B", "C", "D"],
      "answer": "B",
      "explanation": "..."
    },
    {
      "type": "true-false",
      "question": "...",
      "answer": "True",
      "explanation": "..."
    }
  ]
}`

func quizPrompt(n *model.Note, topic string) string {
	focus := "Cover all topics"
	if topic != "" {
		focus = "Focus on the topic: " + topic
	}
	return fmt.Sprintf(quizTemplate, QuestionCount, focus, n.Title, n.Content)
}
