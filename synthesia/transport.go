package synthesia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/petal-labs/reel/core"
	"github.com/petal-labs/reel/internal/normalize"
)

// Rate limit and correlation headers.
const (
	headerRequestID          = "X-Request-Id"
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitReset     = "X-RateLimit-Reset"
)

// Request describes a single API call.
type Request struct {
	// Method is the HTTP method: GET, POST, PUT, PATCH or DELETE.
	Method string
	// Path is relative to the base URL, e.g. "/videos/abc".
	Path string
	// Body is encoded as JSON when set.
	Body any
	// RawBody is sent as is. It takes precedence over Body.
	RawBody io.Reader
	// Query is appended to the URL.
	Query url.Values
	// Headers override the default request headers.
	Headers http.Header
	// Upload sends the request to the upload host instead of the API host.
	Upload bool
}

// Do performs req and decodes a successful response body into T.
// It never returns a Go error: every failure is carried by the Result.
func Do[T any](ctx context.Context, c *Client, operation string, req Request) core.Result[T] {
	start := time.Now()
	c.config.Telemetry.OnRequestStart(core.RequestStartEvent{
		Operation: operation,
		Method:    req.Method,
		Path:      req.Path,
		Start:     start,
	})

	status, requestID, body, apiErr := c.do(ctx, req)

	var result core.Result[T]
	if apiErr == nil {
		var v T
		if len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &v); err != nil {
				apiErr = normalize.DecodeError(status, err, requestID)
			}
		}
		if apiErr == nil {
			result = core.Ok(v)
		}
	}
	if apiErr != nil {
		result = core.Err[T](apiErr)
	}

	end := time.Now()
	c.config.Telemetry.OnRequestEnd(core.RequestEndEvent{
		Operation:  operation,
		Method:     req.Method,
		Path:       req.Path,
		Start:      start,
		End:        end,
		StatusCode: status,
		RequestID:  requestID,
		Err:        apiErr,
	})

	if apiErr != nil {
		c.log.Warn("request failed", "op", operation, "method", req.Method, "path", req.Path,
			"status", apiErr.StatusCode, "request_id", requestID, "error", apiErr.Message, "duration", end.Sub(start))
	} else {
		c.log.Debug("request completed", "op", operation, "method", req.Method, "path", req.Path,
			"status", status, "request_id", requestID, "duration", end.Sub(start))
	}
	return result
}

// do sends req and returns the status, the request ID, the raw body of a 2xx response,
// or the normalized error.
func (c *Client) do(ctx context.Context, req Request) (int, string, []byte, *core.APIError) {
	requestID := req.Headers.Get(headerRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, requestID, nil, normalize.NetworkError(fmt.Errorf("rate limiter: %w", err), requestID)
		}
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	// retryablehttp needs a rewindable body, so readers and encoded JSON are both buffered.
	var body any
	switch {
	case req.RawBody != nil:
		body = req.RawBody
	case req.Body != nil:
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return 0, requestID, nil, normalize.ValidationError("encoding request body: "+err.Error(), nil)
		}
		body = encoded
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, c.url(req), body)
	if err != nil {
		return 0, requestID, nil, normalize.NetworkError(err, requestID)
	}

	// Set headers
	for key, values := range c.buildHeaders() {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if body == nil {
		httpReq.Header.Del("Content-Type")
	}
	httpReq.Header.Set(headerRequestID, requestID)
	for key, values := range req.Headers {
		httpReq.Header.Del(key)
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	// Execute request
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, requestID, nil, normalize.NetworkError(err, requestID)
	}
	defer resp.Body.Close()

	if info, ok := parseRateLimit(resp.Header); ok {
		c.limits.Update(info)
	}
	if id := resp.Header.Get(headerRequestID); id != "" {
		requestID = id
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, requestID, nil, normalize.NetworkError(err, requestID)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, requestID, nil, normalize.FromResponse(resp.StatusCode, respBody, resp.Header, requestID)
	}
	return resp.StatusCode, requestID, respBody, nil
}

func (c *Client) url(req Request) string {
	base := c.config.BaseURL
	if req.Upload {
		base = c.config.UploadURL
	}
	u := base + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	return u
}

func newHTTPClient(cfg Config, limits *core.RateLimitTracker) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	if cfg.HTTPClient != nil {
		rc.HTTPClient = cfg.HTTPClient
	}
	rc.RetryMax = cfg.MaxRetries
	rc.RetryWaitMin = core.DefaultBaseDelay
	rc.RetryWaitMax = 30 * time.Second
	rc.Backoff = policyBackoff(cfg.RetryPolicy)
	rc.CheckRetry = trackRateLimit(limits, retryablehttp.DefaultRetryPolicy)
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = cfg.Logger.Named("http")
	return rc
}

// trackRateLimit records the rate limit headers of every attempt, including
// responses that retryablehttp discards before retrying.
func trackRateLimit(limits *core.RateLimitTracker, next retryablehttp.CheckRetry) retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if resp != nil {
			if info, ok := parseRateLimit(resp.Header); ok {
				limits.Update(info)
			}
		}
		return next(ctx, resp, err)
	}
}

// policyBackoff adapts a core.RetryPolicy to retryablehttp.
// Without a policy, or once the policy gives up, it falls back to core.RetryDelay capped at maxWait.
func policyBackoff(p core.RetryPolicy) retryablehttp.Backoff {
	return func(minWait, maxWait time.Duration, attempt int, resp *http.Response) time.Duration {
		if p != nil {
			var err error = core.ErrNetwork
			if resp != nil {
				err = normalize.FromResponse(resp.StatusCode, nil, resp.Header, "")
			}
			if d, ok := p.NextDelay(attempt, err); ok {
				return d
			}
		}
		return min(core.RetryDelay(attempt, minWait), maxWait)
	}
}

// parseRateLimit reads the X-RateLimit-* headers.
// Limit and Remaining must both be present and numeric; Reset is optional and
// may be Unix seconds or RFC 3339.
func parseRateLimit(h http.Header) (core.RateLimitInfo, bool) {
	limit, err := strconv.Atoi(strings.TrimSpace(h.Get(headerRateLimitLimit)))
	if err != nil {
		return core.RateLimitInfo{}, false
	}
	remaining, err := strconv.Atoi(strings.TrimSpace(h.Get(headerRateLimitRemaining)))
	if err != nil {
		return core.RateLimitInfo{}, false
	}

	info := core.RateLimitInfo{Limit: limit, Remaining: remaining}
	if reset := strings.TrimSpace(h.Get(headerRateLimitReset)); reset != "" {
		if secs, err := strconv.ParseInt(reset, 10, 64); err == nil {
			info.ResetAt = time.Unix(secs, 0).UTC()
		} else if t, err := time.Parse(time.RFC3339, reset); err == nil {
			info.ResetAt = t
		}
	}
	return info, true
}
