package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rcliao/studynotes/internal/apperr"
)

// ExtractJSONObject returns the first balanced {...} object in text. Braces
// inside JSON string literals are ignored, so prose, markdown fences and
// trailing commentary around the object are tolerated. A brace that never
// closes is skipped and the scan resumes at the next one.
func ExtractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", fmt.Errorf("%w: no JSON object in response", apperr.ErrParse)
	}
	for start >= 0 {
		if end, ok := closingBrace(text, start); ok {
			return text[start : end+1], nil
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", fmt.Errorf("%w: unbalanced JSON object in response", apperr.ErrParse)
}

// closingBrace returns the index of the brace that closes the object opened
// at text[start].
func closingBrace(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// DecodeJSON extracts the first JSON object from text and unmarshals it into v.
func DecodeJSON(text string, v interface{}) error {
	obj, err := ExtractJSONObject(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrParse, err)
	}
	return nil
}
