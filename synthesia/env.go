package synthesia

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of the environment variables read by LoadEnv.
const EnvPrefix = "SYNTHESIA"

// ErrAPIKeyNotFound is returned when SYNTHESIA_API_KEY is not set.
var ErrAPIKeyNotFound = errors.New("synthesia: SYNTHESIA_API_KEY environment variable not set")

// EnvConfig is the client configuration read from the environment.
type EnvConfig struct {
	APIKey    string        `split_words:"true"`
	BaseURL   string        `split_words:"true"`
	UploadURL string        `split_words:"true"`
	Timeout   time.Duration `default:"30s"`
}

// ReadEnv reads SYNTHESIA_API_KEY, SYNTHESIA_BASE_URL, SYNTHESIA_UPLOAD_URL
// and SYNTHESIA_TIMEOUT without requiring any of them.
func ReadEnv() (*EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("synthesia: parsing environment: %w", err)
	}
	return &cfg, nil
}

// LoadEnv is ReadEnv but fails with ErrAPIKeyNotFound when no key is set.
func LoadEnv() (*EnvConfig, error) {
	cfg, err := ReadEnv()
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyNotFound
	}
	return cfg, nil
}

// Options converts the environment configuration into client options.
func (e *EnvConfig) Options() []Option {
	var opts []Option
	if e.BaseURL != "" {
		opts = append(opts, WithBaseURL(e.BaseURL))
	}
	if e.UploadURL != "" {
		opts = append(opts, WithUploadURL(e.UploadURL))
	}
	if e.Timeout > 0 {
		opts = append(opts, WithTimeout(e.Timeout))
	}
	return opts
}

// NewFromEnv creates a client configured from SYNTHESIA_* environment variables.
//
//	client, err := synthesia.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Options passed here are applied after the environment and win over it:
//
//	client, err := synthesia.NewFromEnv(synthesia.WithRetries(3))
func NewFromEnv(opts ...Option) (*Client, error) {
	env, err := LoadEnv()
	if err != nil {
		return nil, err
	}
	return New(env.APIKey, append(env.Options(), opts...)...), nil
}
