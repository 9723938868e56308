// Package core provides the vendor-neutral building blocks of the reel SDK:
// the call result envelope, normalized API errors, retry delays, status
// polling, rate limit snapshots and telemetry hooks.
//
// # Result Envelope
//
// Every API call returns a [Result] instead of a bare (value, error) pair.
// A Result holds either a value or an [*APIError], never both and never
// neither:
//
//	res := client.Videos().Get(ctx, "b6ef4f5c-...")
//	if !res.IsOk() {
//	    log.Printf("status %d: %s", res.Error().StatusCode, res.Error().Message)
//	    return
//	}
//	video := res.Value()
//
// Use [Result.Unwrap] to go back to the usual Go error flow:
//
//	video, err := client.Videos().Get(ctx, id).Unwrap()
//	if errors.Is(err, core.ErrNotFound) {
//	    // ...
//	}
//
// # Error Handling
//
// [APIError] carries the HTTP status, the API message, the machine readable
// code and opaque details. It wraps one sentinel per failure class:
//   - [ErrBadRequest]: 400, malformed request
//   - [ErrValidation]: request rejected locally before being sent
//   - [ErrUnauthorized]: 401 or 403
//   - [ErrNotFound]: 404
//   - [ErrRateLimited]: 429, see [APIError.RetryAfter]
//   - [ErrServer]: 5xx and unexpected statuses
//   - [ErrNetwork]: no response received, reported as status 500
//   - [ErrDecode]: response body could not be decoded
//
// The predicates [IsRateLimited], [IsAuthenticationError], [IsValidationError],
// [IsNotFound] and [IsRetryable] classify an APIError by status code.
//
// # Polling
//
// [Poll] waits for a resource to reach a terminal status ("complete" or
// "failed"):
//
//	video, err := core.Poll(ctx, client.Videos().Get, id, core.PollConfig{
//	    Interval:       5 * time.Second,
//	    OnStatusUpdate: func(s string) { log.Println("status:", s) },
//	})
//
// # Retries
//
// The transport never retries on its own. [RetryDelay] computes the plain
// base*2^attempt delay, and [RetryPolicy] adds jitter, a cap and server
// Retry-After hints for callers who opt in.
//
// # Thread Safety
//
// [Result], [APIError] and [RateLimitInfo] are immutable values.
// [RateLimitTracker] is safe for concurrent use.
package core
