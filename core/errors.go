package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// APIError is the normalized error carried by a failed Result.
// It is built once per failed call and never mutated afterwards.
type APIError struct {
	// Message is the human readable error message.
	Message string
	// StatusCode is the HTTP status. Failures without a response report 500.
	StatusCode int
	// Code is the machine readable code returned by the API, if any.
	Code string
	// Details holds the opaque details object returned by the API, if any.
	Details json.RawMessage
	// RequestID is the correlation ID of the failed request.
	RequestID string
	// RetryAfter is the server suggested delay for 429 and 503 responses.
	RetryAfter time.Duration
	// Err is the sentinel describing the failure class.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" && e.RequestID != "" {
		return fmt.Sprintf("synthesia: %s (status=%d, code=%s, request_id=%s)",
			e.Message, e.StatusCode, e.Code, e.RequestID)
	}
	if e.Code != "" {
		return fmt.Sprintf("synthesia: %s (status=%d, code=%s)", e.Message, e.StatusCode, e.Code)
	}
	if e.RequestID != "" {
		return fmt.Sprintf("synthesia: %s (status=%d, request_id=%s)", e.Message, e.StatusCode, e.RequestID)
	}
	return fmt.Sprintf("synthesia: %s (status=%d)", e.Message, e.StatusCode)
}

// Unwrap returns the sentinel for errors.Is checks.
func (e *APIError) Unwrap() error {
	return e.Err
}

// DecodeDetails unmarshals Details into v.
// It reports false when there are no details or they do not fit v.
func (e *APIError) DecodeDetails(v any) bool {
	if e == nil || len(e.Details) == 0 {
		return false
	}
	return json.Unmarshal(e.Details, v) == nil
}

// Sentinel errors for classification.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")
	ErrServer       = errors.New("server error")
	ErrNetwork      = errors.New("network error")
	ErrDecode       = errors.New("decode error")
	ErrValidation   = errors.New("validation failed")
)

// Polling errors.
var (
	ErrEmptyResponse = errors.New("empty response: fetch returned neither data nor error")
	ErrPollTimeout   = errors.New("polling timed out before reaching a terminal status")
)
