package synthesia

import (
	"net/http"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/petal-labs/reel/core"
)

// Client is a client for the Synthesia API.
// Client is safe for concurrent use. The API key and base URLs are fixed at New.
type Client struct {
	config  Config
	http    *retryablehttp.Client
	limiter *rate.Limiter
	log     hclog.Logger
	limits  core.RateLimitTracker

	videos    *Videos
	templates *Templates
	webhooks  *Webhooks
	assets    *Assets
}

// New creates a new client with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	cfg := Config{
		APIKey:    core.NewSecret(apiKey),
		BaseURL:   DefaultBaseURL,
		UploadURL: DefaultUploadURL,
		Timeout:   DefaultTimeout,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.UploadURL = strings.TrimRight(cfg.UploadURL, "/")
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}
	if cfg.Telemetry == nil {
		cfg.Telemetry = core.NoopTelemetryHook{}
	}
	if cfg.MaxRetries > 0 && cfg.RetryPolicy == nil {
		cfg.RetryPolicy = core.NewRetryPolicy(core.RetryConfig{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  core.DefaultBaseDelay,
			MaxDelay:   30 * core.DefaultBaseDelay,
			Jitter:     0.2,
		})
	}

	c := &Client{
		config: cfg,
		log:    cfg.Logger.Named("synthesia"),
	}
	c.http = newHTTPClient(cfg, &c.limits)
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}

	c.videos = &Videos{client: c}
	c.templates = &Templates{client: c}
	c.webhooks = &Webhooks{client: c}
	c.assets = &Assets{client: c}
	return c
}

// Videos returns the videos API.
func (c *Client) Videos() *Videos { return c.videos }

// Templates returns the templates API.
func (c *Client) Templates() *Templates { return c.templates }

// Webhooks returns the webhooks API.
func (c *Client) Webhooks() *Webhooks { return c.webhooks }

// Assets returns the asset upload API.
func (c *Client) Assets() *Assets { return c.assets }

// RateLimit returns the rate limit reported by the most recent response that carried
// rate limit headers. ok is false until such a response has been seen.
func (c *Client) RateLimit() (info core.RateLimitInfo, ok bool) {
	return c.limits.Snapshot()
}

// BaseURL returns the API base URL the client was built with.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// buildHeaders constructs the HTTP headers for an API request.
func (c *Client) buildHeaders() http.Header {
	headers := make(http.Header)

	// Required headers
	headers.Set("Authorization", c.config.APIKey.Expose())
	headers.Set("Accept", "application/json")
	headers.Set("Content-Type", "application/json")

	ua := c.config.UserAgent
	if ua == "" {
		ua = "reel-go/" + Version
	}
	headers.Set("User-Agent", ua)

	// Copy any extra headers
	for key, values := range c.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}
