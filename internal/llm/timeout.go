package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// TimeoutProvider is a decorator that bounds each request with a deadline.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps a Provider so every Generate call carries a deadline.
// A non-positive timeout returns the provider unchanged.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: timeout}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	resp, err := t.inner.Generate(ctx, req)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return resp, fmt.Errorf("oracle request exceeded %s: %w", t.timeout, err)
	}
	return resp, err
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
