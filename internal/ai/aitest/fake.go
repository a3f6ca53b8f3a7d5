// Package aitest provides a scripted ai.Generator for tests.
package aitest

import (
	"context"
	"sync"

	"github.com/rcliao/studynotes/internal/ai"
)

// Call records one Generate invocation.
type Call struct {
	Prompt string
	Tier   ai.Tier
}

// Reply is one scripted outcome.
type Reply struct {
	Text string
	Err  error
}

// Fake returns scripted replies in order. Once the script is exhausted the
// last reply repeats.
type Fake struct {
	mu      sync.Mutex
	replies []Reply
	calls   []Call
}

// New returns a fake that answers with the given replies.
func New(replies ...Reply) *Fake {
	return &Fake{replies: replies}
}

// Text is shorthand for a successful reply.
func Text(s string) Reply { return Reply{Text: s} }

// Fail is shorthand for a failed reply.
func Fail(err error) Reply { return Reply{Err: err} }

func (f *Fake) Generate(ctx context.Context, prompt string, tier ai.Tier) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Prompt: prompt, Tier: tier})
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(f.replies) == 0 {
		return "", &ai.GenerationError{Reason: ai.ReasonDisabled}
	}
	r := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return r.Text, r.Err
}

// Calls returns the recorded invocations.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// LastCall returns the most recent invocation.
func (f *Fake) LastCall() Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return Call{}
	}
	return f.calls[len(f.calls)-1]
}
