package ai

import (
	"context"
	"sync"
)

// LazyCompleter defers construction of the underlying Completer until the
// first call. A missing credential therefore surfaces at first use instead of
// process start, and the built handle is reused read-only for the life of the
// process.
type LazyCompleter struct {
	build func() (Completer, error)

	once      sync.Once
	completer Completer
	err       error
}

// NewLazyCompleter wraps a constructor so it runs at most once.
func NewLazyCompleter(build func() (Completer, error)) *LazyCompleter {
	return &LazyCompleter{build: build}
}

// Complete constructs the provider on first use and delegates to it. A failed
// construction is sticky: every later call reports the same error.
func (l *LazyCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	l.once.Do(func() {
		l.completer, l.err = l.build()
	})
	if l.err != nil {
		return "", l.err
	}
	return l.completer.Complete(ctx, req)
}
