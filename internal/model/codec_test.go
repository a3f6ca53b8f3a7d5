package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListRoundTrip(t *testing.T) {
	in := StringList{"Big O", "Binary Search", "QuickSort"}
	v, err := in.Value()
	require.NoError(t, err)

	var out StringList
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
}

func TestStringListNil(t *testing.T) {
	var in StringList
	v, err := in.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	out := StringList{"stale"}
	require.NoError(t, out.Scan(nil))
	assert.Nil(t, out)
}

func TestStringListScanBytes(t *testing.T) {
	var out StringList
	require.NoError(t, out.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringList{"a", "b"}, out)
}

func TestStringListScanRejectsMalformed(t *testing.T) {
	var out StringList
	assert.Error(t, out.Scan(`{"not":"a list"}`))
	assert.Error(t, out.Scan(42))
}

func TestTranscriptRoundTrip(t *testing.T) {
	in := Transcript{
		{Role: RoleUser, Content: "What is Big O?"},
		{Role: RoleAssistant, Content: "An upper bound on growth."},
		{Role: RoleUser, Content: "Thanks"},
	}
	v, err := in.Value()
	require.NoError(t, err)

	var out Transcript
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
}

func TestTranscriptRejectsUnknownRole(t *testing.T) {
	_, err := Transcript{{Role: "system", Content: "x"}}.Value()
	assert.Error(t, err)

	var out Transcript
	assert.Error(t, out.Scan(`[{"role":"robot","content":"x"}]`))
}

func sampleQuestions() QuestionSet {
	return QuestionSet{
		{
			Type:        QuestionMCQ,
			Question:    "What is the time complexity of binary search?",
			Options:     []string{"O(n)", "O(log n)", "O(n^2)", "O(1)"},
			Answer:      "O(log n)",
			Explanation: "Binary search halves the search space each iteration.",
		},
		{
			Type:        QuestionTrueFalse,
			Question:    "Big O describes the exact running time.",
			Answer:      AnswerFalse,
			Explanation: "It describes the growth rate.",
		},
	}
}

func TestQuestionSetRoundTrip(t *testing.T) {
	in := sampleQuestions()
	v, err := in.Value()
	require.NoError(t, err)

	var out QuestionSet
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
}

func TestQuestionValidate(t *testing.T) {
	base := sampleQuestions()

	tests := []struct {
		name   string
		mutate func(q *Question)
		idx    int
	}{
		{"answer not in options", func(q *Question) { q.Answer = "O(log(n))" }, 0},
		{"three options", func(q *Question) { q.Options = q.Options[:3] }, 0},
		{"duplicate option", func(q *Question) { q.Options[3] = q.Options[0] }, 0},
		{"lowercase true/false", func(q *Question) { q.Answer = "false" }, 1},
		{"unknown type", func(q *Question) { q.Type = "essay" }, 1},
		{"blank question", func(q *Question) { q.Question = "  " }, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := base[tt.idx]
			q.Options = append([]string(nil), q.Options...)
			tt.mutate(&q)
			assert.Error(t, q.Validate())
		})
	}

	for _, q := range base {
		assert.NoError(t, q.Validate())
	}
}

func TestQuestionSetRejectsEmpty(t *testing.T) {
	_, err := QuestionSet{}.Value()
	assert.Error(t, err)
}

func TestQuestionChoices(t *testing.T) {
	qs := sampleQuestions()
	assert.Equal(t, qs[0].Options, qs[0].Choices())
	assert.Equal(t, []string{AnswerTrue, AnswerFalse}, qs[1].Choices())
}
