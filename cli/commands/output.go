package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/petal-labs/reel/core"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitAPI        = 2
	ExitNetwork    = 3
)

// handleAPIError reports a failed API call and maps it to an exit code.
func (a *App) handleAPIError(apiErr *core.APIError) error {
	code := ExitAPI
	switch {
	case errors.Is(apiErr, core.ErrNetwork):
		code = ExitNetwork
	case errors.Is(apiErr, core.ErrValidation):
		code = ExitValidation
	}

	if a.jsonOutput {
		a.outputErrorJSON(apiErr)
	} else {
		fmt.Fprintf(a.stderr, "Error: %s\n", apiErr.Message)
		if apiErr.StatusCode > 0 || apiErr.RequestID != "" {
			fmt.Fprintf(a.stderr, "  Status: %d, Request ID: %s\n", apiErr.StatusCode, apiErr.RequestID)
		}
		if len(apiErr.Details) > 0 {
			fmt.Fprintf(a.stderr, "  Details: %s\n", apiErr.Details)
		}
	}

	return &exitError{code: code, err: apiErr, reported: true}
}

// report writes err to stderr unless a command already did.
func (a *App) report(err error) {
	var ee *exitError
	if errors.As(err, &ee) && ee.reported {
		return
	}
	if a.jsonOutput {
		a.outputSimpleErrorJSON("error", err.Error())
		return
	}
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
}

func (a *App) outputJSON(v any) error {
	return writeJSON(a.stdout, v)
}

func (a *App) outputErrorJSON(apiErr *core.APIError) {
	errObj := map[string]any{
		"type":       apiErr.Code,
		"message":    apiErr.Message,
		"status":     apiErr.StatusCode,
		"request_id": apiErr.RequestID,
	}
	if len(apiErr.Details) > 0 {
		errObj["details"] = apiErr.Details
	}
	_ = writeJSON(a.stderr, map[string]any{"error": errObj})
}

func (a *App) outputSimpleErrorJSON(errType, message string) {
	_ = writeJSON(a.stderr, map[string]any{
		"error": map[string]any{
			"type":    errType,
			"message": message,
		},
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitError wraps an error with an exit code.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func (e *exitError) ExitCode() int {
	return e.code
}

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}
