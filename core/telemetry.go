package core

import "time"

// TelemetryHook receives notifications about request lifecycle events.
// Implementations can use this for logging, metrics, tracing, etc.
//
// # Security Considerations
//
// Events carry operational metadata only. The API key, request bodies
// (scripts, template variables, uploaded media) and response bodies are never
// included, so events can be logged or exported without leaking content.
// Keep it that way when adding fields.
type TelemetryHook interface {
	// OnRequestStart is called before a request is sent.
	OnRequestStart(e RequestStartEvent)

	// OnRequestEnd is called once the request has produced a Result.
	OnRequestEnd(e RequestEndEvent)
}

// RequestStartEvent contains metadata about a starting request.
type RequestStartEvent struct {
	Operation string    // Logical operation (e.g., "videos.create")
	Method    string    // HTTP method
	Path      string    // Path relative to the base URL
	Start     time.Time // When the request started
}

// RequestEndEvent contains metadata about a completed request.
//
// Err is the normalized *APIError; its Message comes from the API and
// may echo request fields, so hooks that export errors should prefer
// StatusCode and the error Code.
type RequestEndEvent struct {
	Operation  string    // Logical operation
	Method     string    // HTTP method
	Path       string    // Path relative to the base URL
	Start      time.Time // When the request started
	End        time.Time // When the request completed
	StatusCode int       // HTTP status, 500 when no response was received
	RequestID  string    // Correlation ID sent with the request
	Err        *APIError // Error if the request failed, nil on success
}

// Duration returns the elapsed time for the request.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NoopTelemetryHook is a no-op implementation of TelemetryHook.
// Use this as a default when no telemetry is configured.
type NoopTelemetryHook struct{}

// OnRequestStart does nothing.
func (NoopTelemetryHook) OnRequestStart(RequestStartEvent) {}

// OnRequestEnd does nothing.
func (NoopTelemetryHook) OnRequestEnd(RequestEndEvent) {}

// Compile-time check that NoopTelemetryHook implements TelemetryHook.
var _ TelemetryHook = NoopTelemetryHook{}
