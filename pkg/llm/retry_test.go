package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

// fastPolicy keeps test retries in the millisecond range.
func fastPolicy() RetryPolicy {
	return RetryPolicy{
		InitialDelay:  1 * time.Millisecond,
		BackoffFactor: 2.0,
		MaxRetries:    3,
		Logf:          func(format string, args ...any) {},
	}
}

// TestCallWithRetry_SuccessNoRetry verifies a successful call runs exactly
// once.
func TestCallWithRetry_SuccessNoRetry(t *testing.T) {
	calls := 0
	result, err := CallWithRetry(context.Background(), "op", fastPolicy(), func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("CallWithRetry failed: %v", err)
	}
	if result != "ok" || calls != 1 {
		t.Errorf("result %q after %d calls, want ok after 1", result, calls)
	}
}

// TestCallWithRetry_RateLimitExhaustsToServiceBusy verifies the retry count
// and the normalized error after exhaustion.
func TestCallWithRetry_RateLimitExhaustsToServiceBusy(t *testing.T) {
	calls := 0
	_, err := CallWithRetry(context.Background(), "op", fastPolicy(), func(ctx context.Context) (int, error) {
		calls++
		return 0, &RateLimitError{Err: errors.New("HTTP 429")}
	})
	if !errors.Is(err, ErrServiceBusy) {
		t.Fatalf("expected ErrServiceBusy, got %v", err)
	}
	// 1 initial attempt + MaxRetries retries.
	if calls != 4 {
		t.Errorf("made %d calls, want 4", calls)
	}
}

// TestCallWithRetry_DelaysDouble verifies the backoff delays strictly
// double between attempts.
func TestCallWithRetry_DelaysDouble(t *testing.T) {
	var delays []time.Duration
	policy := fastPolicy()
	policy.Logf = func(format string, args ...any) {
		// args: operation, attempt, max, delay
		delays = append(delays, args[3].(time.Duration))
	}

	CallWithRetry(context.Background(), "op", policy, func(ctx context.Context) (int, error) {
		return 0, &RateLimitError{Err: errors.New("rate limit")}
	})

	if len(delays) != 3 {
		t.Fatalf("logged %d retries, want 3", len(delays))
	}
	if delays[0] != 1*time.Millisecond {
		t.Errorf("first delay = %v, want 1ms", delays[0])
	}
	for i := 1; i < len(delays); i++ {
		if delays[i] != delays[i-1]*2 {
			t.Errorf("delay %d = %v, want double of %v", i, delays[i], delays[i-1])
		}
	}
}

// TestCallWithRetry_NonRateLimitFailsImmediately verifies no retry and the
// RemoteCallError wrapper.
func TestCallWithRetry_NonRateLimitFailsImmediately(t *testing.T) {
	calls := 0
	cause := errors.New("invalid api key")
	_, err := CallWithRetry(context.Background(), "enrich", fastPolicy(), func(ctx context.Context) (int, error) {
		calls++
		return 0, cause
	})

	var remoteErr *RemoteCallError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteCallError, got %v", err)
	}
	if remoteErr.Operation != "enrich" || !errors.Is(err, cause) {
		t.Errorf("RemoteCallError lost context: %v", err)
	}
	if calls != 1 {
		t.Errorf("made %d calls, want 1", calls)
	}
}

// TestCallWithRetry_ContextCancelAbortsWait verifies cancellation during
// backoff.
func TestCallWithRetry_ContextCancelAbortsWait(t *testing.T) {
	policy := fastPolicy()
	policy.InitialDelay = 10 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := CallWithRetry(ctx, "op", policy, func(ctx context.Context) (int, error) {
			return 0, &RateLimitError{Err: errors.New("rate limit")}
		})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("CallWithRetry did not return after cancellation")
	}
}

// TestIsRateLimit covers marker and message-pattern classification.
func TestIsRateLimit(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{&RateLimitError{Err: errors.New("anything")}, true},
		{fmt.Errorf("wrapped: %w", &RateLimitError{Err: errors.New("x")}), true},
		{errors.New("Rate limit exceeded"), true},
		{errors.New("too many requests"), true},
		{errors.New("HTTP 429: slow down"), true},
		{errors.New("invalid api key"), false},
		{errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		if got := IsRateLimit(tc.err); got != tc.want {
			t.Errorf("IsRateLimit(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
