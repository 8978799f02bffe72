// Package llm is the boundary to the external text-generation service.
// The service is stateless: every call carries its full context in the
// prompt, and nothing about prior calls is assumed.
package llm

import (
	"context"
	"errors"
)

// ErrUnavailable signals a retryable generator failure (network error,
// timeout, or an unusable completion). Callers must leave session state
// untouched when they see it.
var ErrUnavailable = errors.New("llm: generator unavailable")

// Generator produces text for a prompt. Implementations must be safe for
// concurrent use.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
