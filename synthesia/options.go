package synthesia

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"

	"github.com/petal-labs/reel/core"
)

// Default endpoints and limits.
const (
	DefaultBaseURL   = "https://api.synthesia.io/v2"
	DefaultUploadURL = "https://upload.api.synthesia.io/v2"
	DefaultTimeout   = 30 * time.Second
)

// Config holds configuration for the Synthesia client.
type Config struct {
	// APIKey is the Synthesia API key (required).
	APIKey core.Secret

	// BaseURL is the API base URL. Defaults to https://api.synthesia.io/v2
	BaseURL string

	// UploadURL is the asset upload base URL. Defaults to https://upload.api.synthesia.io/v2
	UploadURL string

	// HTTPClient is the HTTP client requests are sent with.
	// Defaults to a pooled client.
	HTTPClient *http.Client

	// Headers contains optional extra headers to include in requests.
	Headers http.Header

	// Timeout bounds each request, retries included. Defaults to 30s.
	Timeout time.Duration

	// MaxRetries is the number of transport retries. Zero disables retries.
	MaxRetries int

	// RetryPolicy computes the delay between transport retries.
	// Only used when MaxRetries > 0. Defaults to core.DefaultRetryPolicy.
	RetryPolicy core.RetryPolicy

	// RateLimit and RateBurst throttle outgoing requests on the client side.
	// A zero RateLimit disables throttling.
	RateLimit rate.Limit
	RateBurst int

	// Logger receives request logs. Defaults to a null logger.
	Logger hclog.Logger

	// Telemetry receives request start and end events.
	Telemetry core.TelemetryHook

	// UserAgent overrides the User-Agent header.
	UserAgent string
}

// Option configures the Synthesia client.
type Option func(*Config)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithUploadURL sets the asset upload base URL.
func WithUploadURL(url string) Option {
	return func(c *Config) {
		c.UploadURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithHeader adds an extra header to include in requests.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Header)
		}
		c.Headers.Set(key, value)
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithRetries enables up to n transport retries for 429, 5xx and connection failures.
func WithRetries(n int) Option {
	return func(c *Config) {
		c.MaxRetries = n
	}
}

// WithRetryPolicy sets the backoff used between transport retries.
func WithRetryPolicy(p core.RetryPolicy) Option {
	return func(c *Config) {
		c.RetryPolicy = p
	}
}

// WithRateLimit throttles requests to rps per second with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Config) {
		c.RateLimit = rate.Limit(rps)
		c.RateBurst = burst
	}
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithTelemetry sets the telemetry hook.
func WithTelemetry(h core.TelemetryHook) Option {
	return func(c *Config) {
		c.Telemetry = h
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}
