package ai

import (
	"errors"
	"testing"

	"github.com/rcliao/studynotes/internal/apperr"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"prose around", "Sure! Here you go: {\"a\":1} Hope that helps.", `{"a":1}`},
		{"markdown fence", "```json\n{\"a\": [1, 2]}\n```", `{"a": [1, 2]}`},
		{"nested", `x {"a":{"b":{}}} y`, `{"a":{"b":{}}}`},
		{"braces in strings", `{"s":"a } b { c"}`, `{"s":"a } b { c"}`},
		{"escaped quote", `{"s":"say \"}\" now"} tail`, `{"s":"say \"}\" now"}`},
		{"first of two", `{"a":1} and {"b":2}`, `{"a":1}`},
		{"stray brace in prose", "Use { carefully: {\"a\":1}", `{"a":1}`},
		{"stray brace then fence", "sets look like {x\n```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.in)
			if err != nil {
				t.Fatalf("ExtractJSONObject(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ExtractJSONObject(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractJSONObject_Failures(t *testing.T) {
	for _, in := range []string{"", "no json here", `{"a": 1`, "} {", "{ {"} {
		_, err := ExtractJSONObject(in)
		if !errors.Is(err, apperr.ErrParse) {
			t.Errorf("ExtractJSONObject(%q) err = %v, want ErrParse", in, err)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Summary string   `json:"summary"`
		Topics  []string `json:"topics"`
	}
	err := DecodeJSON("Analysis:\n{\"summary\":\"s\",\"topics\":[\"t1\",\"t2\"]}", &out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Summary != "s" || len(out.Topics) != 2 {
		t.Errorf("unexpected decode result: %+v", out)
	}

	err = DecodeJSON(`{"summary": 5}`, &out)
	if !errors.Is(err, apperr.ErrParse) {
		t.Errorf("expected ErrParse for wrong type, got %v", err)
	}
}
