package core

import "testing"

func TestStatusPredicates(t *testing.T) {
	tests := []struct {
		status         string
		wantProcessing bool
		wantComplete   bool
		wantFailed     bool
		wantTerminal   bool
	}{
		{StatusInProgress, true, false, false, false},
		{StatusComplete, false, true, false, true},
		{StatusFailed, false, false, true, true},
		{"", false, false, false, false},
		{"rejected", false, false, false, false},
		{"COMPLETE", false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := IsProcessing(tt.status); got != tt.wantProcessing {
				t.Errorf("IsProcessing(%q) = %v, want %v", tt.status, got, tt.wantProcessing)
			}
			if got := IsComplete(tt.status); got != tt.wantComplete {
				t.Errorf("IsComplete(%q) = %v, want %v", tt.status, got, tt.wantComplete)
			}
			if got := IsFailed(tt.status); got != tt.wantFailed {
				t.Errorf("IsFailed(%q) = %v, want %v", tt.status, got, tt.wantFailed)
			}
			if got := IsTerminal(tt.status); got != tt.wantTerminal {
				t.Errorf("IsTerminal(%q) = %v, want %v", tt.status, got, tt.wantTerminal)
			}
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	codes := []int{0, 200, 400, 401, 403, 404, 422, 429, 500, 502, 503}

	for _, code := range codes {
		e := &APIError{StatusCode: code}

		if got, want := IsRateLimited(e), code == 429; got != want {
			t.Errorf("IsRateLimited(%d) = %v, want %v", code, got, want)
		}
		if got, want := IsAuthenticationError(e), code == 401 || code == 403; got != want {
			t.Errorf("IsAuthenticationError(%d) = %v, want %v", code, got, want)
		}
		if got, want := IsValidationError(e), code == 400; got != want {
			t.Errorf("IsValidationError(%d) = %v, want %v", code, got, want)
		}
		if got, want := IsNotFound(e), code == 404; got != want {
			t.Errorf("IsNotFound(%d) = %v, want %v", code, got, want)
		}
		if got, want := IsServerError(e), code >= 500; got != want {
			t.Errorf("IsServerError(%d) = %v, want %v", code, got, want)
		}
		if got, want := IsRetryable(e), code == 429 || code >= 500; got != want {
			t.Errorf("IsRetryable(%d) = %v, want %v", code, got, want)
		}
	}
}

func TestErrorPredicatesNilSafe(t *testing.T) {
	var e *APIError

	if IsRateLimited(e) || IsAuthenticationError(e) || IsValidationError(e) ||
		IsNotFound(e) || IsServerError(e) || IsRetryable(e) {
		t.Error("predicates should return false for a nil error")
	}
}
