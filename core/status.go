package core

import "net/http"

// Video status values reported by the API.
const (
	StatusInProgress = "in_progress"
	StatusComplete   = "complete"
	StatusFailed     = "failed"
)

// IsProcessing reports whether a video is still being rendered.
func IsProcessing(status string) bool {
	return status == StatusInProgress
}

// IsComplete reports whether a video finished rendering.
func IsComplete(status string) bool {
	return status == StatusComplete
}

// IsFailed reports whether a video failed to render.
func IsFailed(status string) bool {
	return status == StatusFailed
}

// IsTerminal reports whether status ends a polling loop.
func IsTerminal(status string) bool {
	return IsComplete(status) || IsFailed(status)
}

// IsRateLimited reports whether e is a 429 response.
func IsRateLimited(e *APIError) bool {
	return e != nil && e.StatusCode == http.StatusTooManyRequests
}

// IsAuthenticationError reports whether e is a 401 or 403 response.
func IsAuthenticationError(e *APIError) bool {
	return e != nil && (e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// IsValidationError reports whether e is a 400 response.
func IsValidationError(e *APIError) bool {
	return e != nil && e.StatusCode == http.StatusBadRequest
}

// IsNotFound reports whether e is a 404 response.
func IsNotFound(e *APIError) bool {
	return e != nil && e.StatusCode == http.StatusNotFound
}

// IsServerError reports whether e is a 5xx response or a network failure.
func IsServerError(e *APIError) bool {
	return e != nil && e.StatusCode >= 500
}

// IsRetryable reports whether the call that produced e may succeed if repeated unchanged.
func IsRetryable(e *APIError) bool {
	return e != nil && IsRetryableStatus(e.StatusCode)
}
