package core

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// DefaultBaseDelay is the base delay used by RetryDelay when none is given.
const DefaultBaseDelay = time.Second

// RetryDelay returns base * 2^attempt.
// There is no jitter and no cap; RetryPolicy adds both. A product too large
// for a time.Duration saturates at the maximum duration.
func RetryDelay(attempt int, base time.Duration) time.Duration {
	if base <= 0 {
		base = DefaultBaseDelay
	}
	if attempt < 0 {
		attempt = 0
	}
	d := float64(base) * math.Pow(2, float64(attempt))
	if d >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

// RetryPolicy determines retry behavior for failed requests.
type RetryPolicy interface {
	// NextDelay returns the delay before the next retry attempt and whether to retry.
	// If ok is false, no more retries should be attempted.
	// attempt starts at 0 for the first retry after the initial failure.
	NextDelay(attempt int, err error) (delay time.Duration, ok bool)
}

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts (default: 3)
	BaseDelay  time.Duration // Initial delay before first retry (default: 1s)
	MaxDelay   time.Duration // Maximum delay cap (default: 30s)
	Jitter     float64       // Jitter factor 0.0-1.0 (default: 0.2)
}

// DefaultRetryPolicy returns a retry policy with sensible defaults.
// Uses exponential backoff with jitter, max 3 retries, 30s max delay.
func DefaultRetryPolicy() RetryPolicy {
	return NewRetryPolicy(RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
		Jitter:     0.2,
	})
}

// NewRetryPolicy creates a retry policy with the given configuration.
func NewRetryPolicy(cfg RetryConfig) RetryPolicy {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	if cfg.Jitter < 0 || cfg.Jitter > 1 {
		cfg.Jitter = 0.2
	}
	return &exponentialBackoff{cfg: cfg}
}

type exponentialBackoff struct {
	cfg RetryConfig
}

func (e *exponentialBackoff) NextDelay(attempt int, err error) (time.Duration, bool) {
	if attempt >= e.cfg.MaxRetries {
		return 0, false
	}
	if !isRetryable(err) {
		return 0, false
	}

	// A server hint wins over the computed backoff.
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return min(apiErr.RetryAfter, e.cfg.MaxDelay), true
	}

	delay := float64(RetryDelay(attempt, e.cfg.BaseDelay))

	if e.cfg.Jitter > 0 {
		jitterRange := delay * e.cfg.Jitter
		delay += (rand.Float64()*2 - 1) * jitterRange
	}

	if delay > float64(e.cfg.MaxDelay) {
		delay = float64(e.cfg.MaxDelay)
	}
	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay), true
}

// isRetryable determines if an error should trigger a retry.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation is not retryable
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrDecode):
		return false
	case errors.Is(err, ErrNetwork),
		errors.Is(err, ErrRateLimited),
		errors.Is(err, ErrServer):
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return IsRetryableStatus(apiErr.StatusCode)
	}

	return false
}

// IsRetryableStatus reports whether an HTTP status code is worth retrying.
func IsRetryableStatus(status int) bool {
	return status == 429 || (status >= 500 && status < 600)
}
