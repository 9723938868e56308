package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/petal-labs/reel/cli/keystore"
	"github.com/petal-labs/reel/core"
)

func (a *App) newKeysCommand() *cobra.Command {
	keys := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys",
		Long:  `Manage Synthesia API keys. Keys are stored encrypted in ~/.reel/keys.enc.`,
	}

	keys.AddCommand(&cobra.Command{
		Use:   "set [name]",
		Short: "Store an API key",
		Long:  `Store an API key under name (default: the configured api_key_ref). The key is prompted without echo.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runKeysSet(a.keyName(args))
		},
	})

	keys.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored API keys",
		Long:  `List stored API keys. Values are shown masked.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runKeysList()
		},
	})

	keys.AddCommand(&cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a stored API key",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runKeysDelete(a.keyName(args))
		},
	})

	return keys
}

func (a *App) keyName(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return a.cfg.KeyRef()
}

func (a *App) runKeysSet(name string) error {
	fmt.Fprintf(a.stderr, "Enter API key for %s: ", name)

	apiKey, err := a.readSecret()
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to read key: %w", err))
	}
	if apiKey == "" {
		return exitWithCode(ExitValidation, errors.New("API key cannot be empty"))
	}

	ks, err := a.newKeystore()
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to open keystore: %w", err))
	}
	if err := ks.Set(name, apiKey); err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to store key: %w", err))
	}

	if a.jsonOutput {
		return a.outputJSON(map[string]string{"name": name, "key": core.NewSecret(apiKey).Masked()})
	}
	fmt.Fprintf(a.stdout, "API key %s stored successfully.\n", name)
	return nil
}

// readSecret reads without echo from a terminal, or one line otherwise.
func (a *App) readSecret() (string, error) {
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stderr)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *App) runKeysList() error {
	ks, err := a.newKeystore()
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to open keystore: %w", err))
	}

	names, err := ks.List()
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to list keys: %w", err))
	}

	type entry struct {
		Name string `json:"name"`
		Key  string `json:"key"`
	}
	entries := make([]entry, 0, len(names))
	for _, name := range names {
		value, err := ks.Get(name)
		if err != nil {
			return exitWithCode(ExitValidation, fmt.Errorf("failed to read key %s: %w", name, err))
		}
		entries = append(entries, entry{Name: name, Key: core.NewSecret(value).Masked()})
	}

	if a.jsonOutput {
		return a.outputJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.stdout, "No API keys stored.")
		return nil
	}
	fmt.Fprintln(a.stdout, "Stored keys:")
	for _, e := range entries {
		fmt.Fprintf(a.stdout, "  - %s (%s)\n", e.Name, e.Key)
	}
	return nil
}

func (a *App) runKeysDelete(name string) error {
	ks, err := a.newKeystore()
	if err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("failed to open keystore: %w", err))
	}

	if err := ks.Delete(name); err != nil {
		var notFound *keystore.ErrKeyNotFound
		if errors.As(err, &notFound) {
			return exitWithCode(ExitValidation, fmt.Errorf("no key stored for %s", name))
		}
		return exitWithCode(ExitValidation, fmt.Errorf("failed to delete key: %w", err))
	}

	if a.jsonOutput {
		return a.outputJSON(map[string]any{"name": name, "deleted": true})
	}
	fmt.Fprintf(a.stdout, "API key %s deleted.\n", name)
	return nil
}
