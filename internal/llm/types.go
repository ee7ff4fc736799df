// Package llm is the text-completion capability used by every proofreading
// stage. A Completer turns a system instruction plus a user prompt into the
// model's reply; it knows nothing about sentences or corrections.
package llm

import (
	"context"
	"errors"
)

var (
	ErrMissingAPIKey   = errors.New("api key required")
	ErrRateLimited     = errors.New("rate limited")
	ErrResponseInvalid = errors.New("response invalid")
)

// Request is a single completion call. MaxTokens of zero and a nil Seed leave
// the provider defaults in place.
type Request struct {
	Model       string  `json:"model"`
	System      string  `json:"system"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Seed        *int    `json:"seed,omitempty"`
}

// Completer is implemented by every backend. Implementations must be safe for
// concurrent use; one handle is shared by all pipeline stages.
type Completer interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a plain function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

func (f CompleterFunc) Name() string { return "func" }

func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Seed returns a pointer to v, for filling Request.Seed inline.
func Seed(v int) *int {
	return &v
}
