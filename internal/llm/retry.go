package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

const (
	retryInitialWait = 1 * time.Second
	retryMaxWait     = 10 * time.Second
	retryMultiplier  = 2.0
)

// RetryProvider is a decorator that re-sends transient failures with
// exponential backoff and jitter. The server wires it with maxAttempts=1
// by default, in which case it is transparent: a failed call degrades to
// the caller's fallback instead of being re-sent.
type RetryProvider struct {
	inner       Provider
	maxAttempts int
}

// WithRetry wraps a Provider with retry logic. maxAttempts < 1 is treated
// as a single attempt.
func WithRetry(p Provider, maxAttempts int) Provider {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryProvider{inner: p, maxAttempts: maxAttempts}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error

	for attempt := range r.maxAttempts {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err) || attempt == r.maxAttempts-1 {
			return nil, lastErr
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff(attempt, err)):
		}
	}

	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retryable reports whether a failed request is worth re-sending.
func retryable(err error) bool {
	// Context errors are never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Max tokens is a configuration issue, not transient.
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return false
	}

	// A malformed reply is handled by the caller's fallback, not a retry.
	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		return false
	}

	// Rate limits, outages and other transport errors are transient.
	return true
}

// backoff computes the wait duration for the given attempt.
func backoff(attempt int, err error) time.Duration {
	// Respect RetryAfter for rate limits.
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(retryInitialWait) * math.Pow(retryMultiplier, float64(attempt))
	if wait > float64(retryMaxWait) {
		wait = float64(retryMaxWait)
	}

	// Add ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
