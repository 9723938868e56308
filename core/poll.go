package core

import (
	"context"
	"fmt"
	"reflect"
	"time"
)

// Polling defaults.
const (
	DefaultPollMaxAttempts = 60
	DefaultPollInterval    = 10 * time.Second
)

// Statuser is implemented by resources that report a processing status.
type Statuser interface {
	GetStatus() string
}

// FetchFunc loads the current state of the resource with the given id.
type FetchFunc[T Statuser] func(ctx context.Context, id string) Result[T]

// PollConfig configures Poll.
type PollConfig struct {
	// MaxAttempts bounds the number of fetch calls (default: 60).
	MaxAttempts int
	// Interval is the wait between fetch calls (default: 10s).
	Interval time.Duration
	// OnStatusUpdate, if set, receives every non-terminal status.
	OnStatusUpdate func(status string)
	// Sleep replaces the context-aware wait between attempts. Used by tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (c PollConfig) withDefaults() PollConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultPollMaxAttempts
	}
	if c.Interval <= 0 {
		c.Interval = DefaultPollInterval
	}
	if c.Sleep == nil {
		c.Sleep = sleepContext
	}
	return c
}

// Poll calls fetch until the resource reaches a terminal status (complete or failed)
// or MaxAttempts is exhausted.
//
// A failed status is returned as a value, not as an error. An error Result from fetch
// is returned as is, an Ok Result without data fails with ErrEmptyResponse, and running
// out of attempts fails with ErrPollTimeout. Cancelling ctx stops the wait.
func Poll[T Statuser](ctx context.Context, fetch FetchFunc[T], id string, cfg PollConfig) (T, error) {
	cfg = cfg.withDefaults()
	var zero T

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		res := fetch(ctx, id)
		if !res.IsOk() {
			return zero, res.Error()
		}

		v := res.Value()
		if isEmpty(v) {
			return zero, ErrEmptyResponse
		}

		status := v.GetStatus()
		if IsTerminal(status) {
			return v, nil
		}

		if cfg.OnStatusUpdate != nil {
			cfg.OnStatusUpdate(status)
		}

		if attempt == cfg.MaxAttempts {
			break
		}
		if err := cfg.Sleep(ctx, cfg.Interval); err != nil {
			return zero, err
		}
	}

	return zero, fmt.Errorf("%w: %s not terminal after %d attempts", ErrPollTimeout, id, cfg.MaxAttempts)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isEmpty reports whether v carries no data (nil pointer, nil interface or zero struct).
func isEmpty(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return rv.IsZero()
}
