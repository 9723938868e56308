// Package normalize turns transport failures and error responses into *core.APIError.
package normalize

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/petal-labs/reel/core"
)

// maxRawMessage bounds how much of a non-JSON error body is copied into Message.
const maxRawMessage = 512

// errorBody covers the error envelopes the API has used:
//
//	{"message":"...","code":"...","details":{...}}
//	{"error":{"message":"...","code":"...","type":"...","details":{...}}}
//	{"error":"...","context":"..."}
type errorBody struct {
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Context string          `json:"context"`
	Details json.RawMessage `json:"details"`
	Error   json.RawMessage `json:"error"`
}

type nestedError struct {
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Type    string          `json:"type"`
	Details json.RawMessage `json:"details"`
}

// FromResponse builds the APIError for a non-2xx response.
// Message, code and details come from the JSON body when it is structured;
// otherwise the raw body text or the HTTP status text is used.
func FromResponse(status int, body []byte, header http.Header, requestID string) *core.APIError {
	e := &core.APIError{
		StatusCode: status,
		RequestID:  requestID,
		Err:        SentinelForStatus(status),
	}
	if header != nil && (status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable) {
		e.RetryAfter = ParseRetryAfter(header.Get("Retry-After"), time.Now())
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		e.Message = parsed.Message
		e.Code = parsed.Code
		e.Details = nonNull(parsed.Details)

		if len(parsed.Error) > 0 {
			var nested nestedError
			var text string
			switch {
			case json.Unmarshal(parsed.Error, &nested) == nil:
				e.Message = firstNonEmpty(nested.Message, e.Message)
				e.Code = firstNonEmpty(nested.Code, nested.Type, e.Code)
				if details := nonNull(nested.Details); details != nil {
					e.Details = details
				}
			case json.Unmarshal(parsed.Error, &text) == nil:
				e.Message = firstNonEmpty(e.Message, text)
			}
		}
		if e.Message == "" {
			e.Message = parsed.Context
		}
	} else if raw := strings.TrimSpace(string(body)); raw != "" {
		if len(raw) > maxRawMessage {
			raw = raw[:maxRawMessage]
		}
		e.Message = raw
	}

	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	if e.Message == "" {
		e.Message = "unexpected status " + strconv.Itoa(status)
	}
	return e
}

// NetworkError wraps a failure where no response was received.
// The status is reported as 500 so callers can classify it like a server error.
func NetworkError(err error, requestID string) *core.APIError {
	return &core.APIError{
		Message:    err.Error(),
		StatusCode: http.StatusInternalServerError,
		Code:       "network_error",
		RequestID:  requestID,
		Err:        core.ErrNetwork,
	}
}

// DecodeError wraps a 2xx response whose body could not be decoded.
func DecodeError(status int, err error, requestID string) *core.APIError {
	return &core.APIError{
		Message:    err.Error(),
		StatusCode: status,
		Code:       "decode_error",
		RequestID:  requestID,
		Err:        core.ErrDecode,
	}
}

// ValidationError reports a request rejected before it was sent.
// details maps field names to messages.
func ValidationError(message string, details map[string]string) *core.APIError {
	e := &core.APIError{
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Code:       "validation_error",
		Err:        core.ErrValidation,
	}
	if len(details) > 0 {
		if raw, err := json.Marshal(details); err == nil {
			e.Details = raw
		}
	}
	return e
}

// SentinelForStatus maps an HTTP status code to a core sentinel error.
func SentinelForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return core.ErrBadRequest
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return core.ErrUnauthorized
	case status == http.StatusNotFound:
		return core.ErrNotFound
	case status == http.StatusTooManyRequests:
		return core.ErrRateLimited
	default:
		return core.ErrServer
	}
}

// ParseRetryAfter parses a Retry-After header given in seconds or as an HTTP date.
// It returns 0 when the header is absent, malformed or in the past.
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

func nonNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
