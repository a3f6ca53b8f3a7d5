package notes

import (
	"fmt"

	"github.com/rcliao/studynotes/internal/model"
)

const analysisTemplate = `Analyze this educational note and provide:
1. A concise summary (2-3 sentences)
2. Key concepts (5-7 important terms/ideas)
3. Main topics (3-5 topic areas)

Note Title: %s
Content: %s

Respond in JSON format:
{
  "summary": "...",
  "concepts": ["concept1", "concept2", ...],
  "topics": ["topic1", "topic2", ...]
}`

func analysisPrompt(n *model.Note) string {
	return fmt.Sprintf(analysisTemplate, n.Title, n.Content)
}
