package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

func TestRetryDelay(t *testing.T) {
	tests := []struct {
		attempt int
		base    time.Duration
		want    time.Duration
	}{
		{0, time.Second, time.Second},
		{1, time.Second, 2 * time.Second},
		{2, time.Second, 4 * time.Second},
		{5, time.Second, 32 * time.Second},
		{0, 250 * time.Millisecond, 250 * time.Millisecond},
		{3, 250 * time.Millisecond, 2 * time.Second},
		{10, 100 * time.Millisecond, 102400 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%v", tt.attempt, tt.base), func(t *testing.T) {
			got := RetryDelay(tt.attempt, tt.base)
			if got != tt.want {
				t.Errorf("RetryDelay(%d, %v) = %v, want %v", tt.attempt, tt.base, got, tt.want)
			}
		})
	}
}

func TestRetryDelayIsBaseTimesPowerOfTwo(t *testing.T) {
	base := 3 * time.Millisecond
	for n := 0; n < 20; n++ {
		want := base * time.Duration(1<<n)
		if got := RetryDelay(n, base); got != want {
			t.Errorf("RetryDelay(%d, %v) = %v, want %v", n, base, got, want)
		}
	}
}

func TestRetryDelayDefaults(t *testing.T) {
	if got := RetryDelay(0, 0); got != DefaultBaseDelay {
		t.Errorf("RetryDelay(0, 0) = %v, want %v", got, DefaultBaseDelay)
	}
	if got := RetryDelay(-2, time.Second); got != time.Second {
		t.Errorf("RetryDelay(-2, 1s) = %v, want 1s", got)
	}
}

func TestRetryDelaySaturates(t *testing.T) {
	if got, want := RetryDelay(33, time.Second), time.Duration(1<<33)*time.Second; got != want {
		t.Errorf("RetryDelay(33, 1s) = %v, want %v", got, want)
	}
	for _, attempt := range []int{34, 40, 63, 64, 1000} {
		got := RetryDelay(attempt, time.Second)
		if got != time.Duration(math.MaxInt64) {
			t.Errorf("RetryDelay(%d, 1s) = %v, want max duration", attempt, got)
		}
	}
}

func TestRetryPolicyLargeAttemptStaysCapped(t *testing.T) {
	policy := NewRetryPolicy(RetryConfig{MaxRetries: 100, BaseDelay: time.Second, MaxDelay: 30 * time.Second, Jitter: 0.2})
	delay, ok := policy.NextDelay(50, ErrServer)
	if !ok {
		t.Fatal("NextDelay(50) should retry")
	}
	if delay < 0 || delay > 30*time.Second {
		t.Errorf("NextDelay(50) = %v, want within [0, 30s]", delay)
	}
}

func TestDefaultRetryPolicy(t *testing.T) {
	policy := DefaultRetryPolicy()
	if policy == nil {
		t.Fatal("DefaultRetryPolicy() returned nil")
	}
}

func TestRetryPolicyRetryableErrors(t *testing.T) {
	policy := DefaultRetryPolicy()

	tests := []struct {
		name      string
		err       error
		wantRetry bool
	}{
		{"ErrNetwork", ErrNetwork, true},
		{"ErrRateLimited", ErrRateLimited, true},
		{"ErrServer", ErrServer, true},
		{"wrapped ErrNetwork", &APIError{StatusCode: 500, Err: ErrNetwork}, true},
		{"wrapped ErrRateLimited", &APIError{StatusCode: 429, Err: ErrRateLimited}, true},
		{"APIError 429", &APIError{StatusCode: 429}, true},
		{"APIError 500", &APIError{StatusCode: 500}, true},
		{"APIError 502", &APIError{StatusCode: 502}, true},
		{"APIError 503", &APIError{StatusCode: 503}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := policy.NextDelay(0, tt.err)
			if ok != tt.wantRetry {
				t.Errorf("NextDelay(0, %v) retry = %v, want %v", tt.err, ok, tt.wantRetry)
			}
		})
	}
}

func TestRetryPolicyNonRetryableErrors(t *testing.T) {
	policy := DefaultRetryPolicy()

	tests := []struct {
		name string
		err  error
	}{
		{"ErrUnauthorized", ErrUnauthorized},
		{"ErrBadRequest", ErrBadRequest},
		{"ErrNotFound", ErrNotFound},
		{"ErrDecode", ErrDecode},
		{"ErrValidation", ErrValidation},
		{"context.Canceled", context.Canceled},
		{"context.DeadlineExceeded", context.DeadlineExceeded},
		{"APIError 400", &APIError{StatusCode: 400}},
		{"APIError 401", &APIError{StatusCode: 401}},
		{"APIError 403", &APIError{StatusCode: 403}},
		{"APIError 404", &APIError{StatusCode: 404, Err: ErrNotFound}},
		{"nil error", nil},
		{"unknown error", errors.New("unknown error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := policy.NextDelay(0, tt.err); ok {
				t.Errorf("NextDelay(0, %v) should not retry", tt.err)
			}
		})
	}
}

func TestRetryPolicyMaxRetries(t *testing.T) {
	policy := NewRetryPolicy(RetryConfig{
		MaxRetries: 3,
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Jitter:     0,
	})

	for attempt := 0; attempt < 3; attempt++ {
		if _, ok := policy.NextDelay(attempt, ErrNetwork); !ok {
			t.Errorf("NextDelay(%d, err) should allow retry", attempt)
		}
	}

	if _, ok := policy.NextDelay(3, ErrNetwork); ok {
		t.Error("NextDelay(3, err) should not allow retry (exceeds max)")
	}
}

func TestRetryPolicyExponentialBackoff(t *testing.T) {
	policy := NewRetryPolicy(RetryConfig{
		MaxRetries: 5,
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Jitter:     0,
	})

	for attempt := 0; attempt < 4; attempt++ {
		delay, ok := policy.NextDelay(attempt, ErrServer)
		if !ok {
			t.Fatalf("NextDelay(%d, err) should allow retry", attempt)
		}
		if want := RetryDelay(attempt, 100*time.Millisecond); delay != want {
			t.Errorf("attempt %d: delay = %v, want %v", attempt, delay, want)
		}
	}
}

func TestRetryPolicyMaxDelayCap(t *testing.T) {
	policy := NewRetryPolicy(RetryConfig{
		MaxRetries: 10,
		BaseDelay:  time.Second,
		MaxDelay:   5 * time.Second,
		Jitter:     0,
	})

	delay, ok := policy.NextDelay(5, ErrNetwork)
	if !ok {
		t.Fatal("should allow retry")
	}
	if delay != 5*time.Second {
		t.Errorf("delay = %v, want 5s (max cap)", delay)
	}
}

func TestRetryPolicyHonorsRetryAfter(t *testing.T) {
	policy := NewRetryPolicy(RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   time.Minute,
		Jitter:     0,
	})

	err := &APIError{StatusCode: 429, Err: ErrRateLimited, RetryAfter: 7 * time.Second}
	delay, ok := policy.NextDelay(0, err)
	if !ok {
		t.Fatal("should allow retry")
	}
	if delay != 7*time.Second {
		t.Errorf("delay = %v, want 7s from Retry-After", delay)
	}

	err.RetryAfter = 2 * time.Hour
	delay, _ = policy.NextDelay(0, err)
	if delay != time.Minute {
		t.Errorf("delay = %v, want Retry-After capped at 1m", delay)
	}
}

func TestRetryPolicyJitter(t *testing.T) {
	policy := NewRetryPolicy(RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
		Jitter:     0.5,
	})

	delays := make(map[time.Duration]bool)
	for i := 0; i < 100; i++ {
		delay, ok := policy.NextDelay(0, ErrNetwork)
		if !ok {
			t.Fatal("should allow retry")
		}
		delays[delay] = true

		if delay < 500*time.Millisecond || delay > 1500*time.Millisecond {
			t.Errorf("delay %v outside expected jitter range [0.5s, 1.5s]", delay)
		}
	}

	if len(delays) < 2 {
		t.Error("jitter should produce varying delays")
	}
}

func TestRetryPolicyConfigDefaults(t *testing.T) {
	policy := NewRetryPolicy(RetryConfig{
		MaxRetries: 0,
		BaseDelay:  0,
		MaxDelay:   0,
		Jitter:     -1,
	})

	if _, ok := policy.NextDelay(0, ErrNetwork); !ok {
		t.Error("policy with default config should allow retry")
	}
	if _, ok := policy.NextDelay(3, ErrNetwork); ok {
		t.Error("policy should respect default max retries of 3")
	}
}

func TestIsRetryableStatus(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{200, false},
		{400, false},
		{401, false},
		{403, false},
		{404, false},
		{422, false},
		{429, true},
		{500, true},
		{502, true},
		{503, true},
		{504, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			if got := IsRetryableStatus(tt.status); got != tt.want {
				t.Errorf("IsRetryableStatus(%d) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
