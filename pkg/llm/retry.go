package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// ErrServiceBusy is returned when a rate-limited call has exhausted its
// retries. The caller can try again later; no state has been corrupted.
var ErrServiceBusy = errors.New("service busy: rate limit retries exhausted")

// RemoteCallError is any non-rate-limit remote failure, surfaced immediately
// without retry and carrying the original cause.
type RemoteCallError struct {
	Operation string
	Err       error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// RateLimitError marks a failure as a rate-limit condition, making it
// eligible for retry. Clients wrap HTTP 429 responses in this type.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return e.Err.Error()
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// IsRateLimit reports whether err is classified as a rate-limit condition,
// either via the RateLimitError marker or by message pattern for errors
// from services that don't use the marker.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "429")
}

// RetryPolicy bounds the retry behavior of CallWithRetry. The defaults give
// delays of 1s, 2s, 4s before giving up.
type RetryPolicy struct {
	InitialDelay  time.Duration
	BackoffFactor float64
	MaxRetries    int

	// Logf receives one line per retry attempt. Defaults to the standard
	// logger; tests override it to observe delays.
	Logf func(format string, args ...any)
}

// DefaultRetryPolicy returns the fixed production policy: 1s initial delay,
// doubling, at most 3 retries.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialDelay:  1 * time.Second,
		BackoffFactor: 2.0,
		MaxRetries:    3,
	}
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.InitialDelay == 0 {
		p.InitialDelay = 1 * time.Second
	}
	if p.BackoffFactor == 0 {
		p.BackoffFactor = 2.0
	}
	if p.MaxRetries == 0 {
		p.MaxRetries = 3
	}
	if p.Logf == nil {
		p.Logf = log.Printf
	}
	return p
}

// CallWithRetry runs fn, retrying with exponential backoff only when the
// failure is a rate-limit condition. Exhausting the retries yields
// ErrServiceBusy; any other failure is wrapped in RemoteCallError and
// returned at once. Waiting respects ctx cancellation.
func CallWithRetry[T any](ctx context.Context, operation string, policy RetryPolicy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	policy = policy.withDefaults()
	delay := policy.InitialDelay

	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			policy.Logf("casefile: %s rate limited, retry %d/%d in %s", operation, attempt, policy.MaxRetries, delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
			delay = time.Duration(float64(delay) * policy.BackoffFactor)
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !IsRateLimit(err) {
			return zero, &RemoteCallError{Operation: operation, Err: err}
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
	}

	return zero, fmt.Errorf("%s failed after %d retries (%v): %w", operation, policy.MaxRetries, lastErr, ErrServiceBusy)
}
