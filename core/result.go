package core

import "net/http"

// Result is the outcome of one API call: either a value or an *APIError, never both.
// The zero Result is not valid; build one with Ok or Err.
type Result[T any] struct {
	value T
	err   *APIError
}

// Ok returns a successful Result holding v.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err returns a failed Result holding e.
// A nil e is replaced by a generic 500 error so the Result is never empty.
func Err[T any](e *APIError) Result[T] {
	if e == nil {
		e = &APIError{
			Message:    "empty error",
			StatusCode: http.StatusInternalServerError,
			Err:        ErrServer,
		}
	}
	return Result[T]{err: e}
}

// IsOk reports whether the call succeeded.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// Value returns the data of a successful call, or the zero value of T on failure.
func (r Result[T]) Value() T {
	return r.value
}

// Error returns the failure of the call, or nil on success.
func (r Result[T]) Error() *APIError {
	return r.err
}

// Unwrap converts the Result into the usual (value, error) pair.
func (r Result[T]) Unwrap() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}

// Match calls onOk or onErr depending on the outcome.
func (r Result[T]) Match(onOk func(T), onErr func(*APIError)) {
	if r.err != nil {
		if onErr != nil {
			onErr(r.err)
		}
		return
	}
	if onOk != nil {
		onOk(r.value)
	}
}

// MapResult transforms the value of a successful Result and passes failures through.
func MapResult[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.err != nil {
		return Err[U](r.err)
	}
	return Ok(fn(r.value))
}
