package ai

import (
	"context"
	"fmt"
)

// CompletionRequest carries one chat-style generation request: a system
// persona, the user prompt, and the sampling budget for the reply.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float32
}

// Completer describes a text-completion provider. Implementations return only
// the newly generated text, never the prompt, and must be safe for concurrent
// use.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionError reports a failed completion call: the provider was
// unreachable, rejected the request, or returned no usable content. Callers
// treat it as fatal for the evaluation in flight.
type CompletionError struct {
	Provider string
	Err      error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("%s completion failed: %v", e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}
