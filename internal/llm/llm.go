package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Client abstracts LLM providers for CV standardization. Implementations
// send a system instruction plus a user message and return the raw model
// output text.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM provider not configured")

// PlaceholderClient is a stub implementation used when no provider key is
// available. Every call fails with ErrNotConfigured.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(ctx context.Context, system, user string) (string, error) {
	_ = ctx
	_ = system
	_ = user
	return "", ErrNotConfigured
}

// RateLimitError reports a provider 429 along with the suggested wait.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// ParseRetryAfter interprets a Retry-After header value as whole seconds.
// Malformed or absent values map to zero.
func ParseRetryAfter(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	var secs int
	if _, err := fmt.Sscanf(raw, "%d", &secs); err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

var _ Client = PlaceholderClient{}
