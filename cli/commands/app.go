package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/petal-labs/reel/cli/config"
	"github.com/petal-labs/reel/cli/keystore"
	"github.com/petal-labs/reel/synthesia"
)

// ConfigLoader loads CLI config from a path.
type ConfigLoader func(path string) (*config.Config, error)

// KeystoreFactory creates a keystore instance.
type KeystoreFactory func() (keystore.Keystore, error)

// ClientFactory creates an API client from a resolved key and options.
type ClientFactory func(apiKey string, opts ...synthesia.Option) *synthesia.Client

// AppOption customizes App dependencies.
type AppOption func(*App)

// App holds CLI state and runtime dependencies.
type App struct {
	root *cobra.Command

	loadConfig  ConfigLoader
	newKeystore KeystoreFactory
	newClient   ClientFactory
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer

	cfgFile    string
	envFile    string
	baseURL    string
	jsonOutput bool
	verbose    bool

	cfg    *config.Config
	logger hclog.Logger
}

// WithConfigLoader injects a config loader dependency.
func WithConfigLoader(loader ConfigLoader) AppOption {
	return func(a *App) {
		if loader != nil {
			a.loadConfig = loader
		}
	}
}

// WithKeystoreFactory injects a keystore factory dependency.
func WithKeystoreFactory(factory KeystoreFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newKeystore = factory
		}
	}
}

// WithClientFactory injects the API client constructor.
func WithClientFactory(factory ClientFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newClient = factory
		}
	}
}

// WithIO injects process I/O streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		if stdin != nil {
			a.stdin = stdin
		}
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// NewApp creates a new CLI app with default dependencies.
func NewApp(opts ...AppOption) *App {
	a := &App{
		loadConfig:  config.LoadConfig,
		newKeystore: keystore.NewKeystore,
		newClient:   synthesia.New,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		logger:      hclog.NewNullLogger(),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.root = a.newRootCommand()
	return a
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "reel",
		Short: "Reel - command-line client for the Synthesia video API",
		Long: `Reel is a command-line interface for the Synthesia video API.

Use Reel to store API keys, render videos from scripts or templates,
manage webhooks and upload media assets.

The API key is read from SYNTHESIA_API_KEY or, when unset, from the
keystore entry named by api_key_ref in ~/.reel/config.yaml.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	// Global flags available to all commands.
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.reel/config.yaml)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading SYNTHESIA_* variables")
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "API base URL (overrides config and SYNTHESIA_BASE_URL)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "emit JSON output")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(a.newKeysCommand())
	root.AddCommand(a.newVideosCommand())
	root.AddCommand(a.newTemplatesCommand())
	root.AddCommand(a.newWebhooksCommand())
	root.AddCommand(a.newAssetsCommand())
	root.AddCommand(a.newInitCommand())
	root.AddCommand(a.newVersionCommand())

	return root
}

// Execute runs the root command. Errors not yet shown to the user are
// written to stderr before being returned.
func (a *App) Execute() error {
	err := a.root.Execute()
	if err != nil {
		a.report(err)
	}
	return err
}

func (a *App) initConfig() error {
	level := hclog.Info
	if a.verbose {
		level = hclog.Debug
	}
	a.logger = hclog.New(&hclog.LoggerOptions{
		Name:       "reel",
		Level:      level,
		Output:     a.stderr,
		JSONFormat: a.jsonOutput,
	})

	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return exitWithCode(ExitValidation, fmt.Errorf("load %s: %w", a.envFile, err))
		}
	}

	path := a.cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := a.loadConfig(path)
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}
	a.cfg = cfg
	a.logger.Debug("configuration loaded", "path", path, "key_ref", cfg.KeyRef())

	return nil
}

// client resolves the API key and builds a client. Later sources win:
// config file, then SYNTHESIA_* variables, then --base-url.
func (a *App) client() (*synthesia.Client, error) {
	env, err := synthesia.ReadEnv()
	if err != nil {
		return nil, exitWithCode(ExitValidation, err)
	}

	apiKey := env.APIKey
	if apiKey == "" {
		apiKey, err = a.keyFromKeystore()
		if err != nil {
			return nil, err
		}
	} else {
		a.logger.Debug("using API key from environment")
	}

	opts := env.Options()
	if a.cfg != nil {
		if env.BaseURL == "" && a.cfg.BaseURL != "" {
			opts = append(opts, synthesia.WithBaseURL(a.cfg.BaseURL))
		}
		if env.UploadURL == "" && a.cfg.UploadURL != "" {
			opts = append(opts, synthesia.WithUploadURL(a.cfg.UploadURL))
		}
		if _, set := os.LookupEnv("SYNTHESIA_TIMEOUT"); !set && a.cfg.Timeout > 0 {
			opts = append(opts, synthesia.WithTimeout(a.cfg.Timeout))
		}
	}
	if a.baseURL != "" {
		opts = append(opts, synthesia.WithBaseURL(a.baseURL))
	}
	// SDK request logs only with --verbose.
	if a.verbose {
		opts = append(opts, synthesia.WithLogger(a.logger))
	}
	opts = append(opts, synthesia.WithUserAgent("reel-cli/"+Version))

	return a.newClient(apiKey, opts...), nil
}

func (a *App) keyFromKeystore() (string, error) {
	ref := a.cfg.KeyRef()

	ks, err := a.newKeystore()
	if err != nil {
		return "", exitWithCode(ExitValidation, fmt.Errorf("failed to open keystore: %w", err))
	}

	apiKey, err := ks.Get(ref)
	if err != nil {
		var notFound *keystore.ErrKeyNotFound
		if errors.As(err, &notFound) {
			return "", exitWithCode(ExitValidation, fmt.Errorf("no API key: set %s or run 'reel keys set %s'", "SYNTHESIA_API_KEY", ref))
		}
		return "", exitWithCode(ExitValidation, fmt.Errorf("failed to get API key: %w", err))
	}
	a.logger.Debug("using API key from keystore", "ref", ref)
	return apiKey, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

var defaultApp = NewApp()

// Execute runs the default app root command.
func Execute() error {
	return defaultApp.Execute()
}
