package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/petal-labs/reel/cli/config"
	"github.com/petal-labs/reel/synthesia"
)

const defaultInitAvatar = "anna_costume1_cameraA"

var validProjectName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

func (a *App) newInitCommand() *cobra.Command {
	var avatar string

	cmd := &cobra.Command{
		Use:   "init <project-name>",
		Short: "Scaffold a Go program that renders a video",
		Long: `Scaffold a Go program that renders a video with the Reel SDK.

Creates a project directory with:
  - go.mod: module requiring the Reel SDK
  - main.go: creates a test video and waits for it
  - reel.yaml: CLI configuration usable with --config
  - .env.example: the environment variables the program reads

Example:
  reel init welcome-video
  reel init welcome-video --avatar anna_costume1_cameraA`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := templateData{
				Module:     filepath.Base(args[0]),
				Avatar:     avatar,
				SDKVersion: synthesia.Version,
			}
			if err := initProject(args[0], data); err != nil {
				return exitWithCode(ExitValidation, err)
			}

			fmt.Fprintf(a.stdout, "Created Reel project: %s\n\n", filepath.Base(args[0]))
			fmt.Fprintln(a.stdout, "Next steps:")
			fmt.Fprintf(a.stdout, "  cd %s\n", args[0])
			fmt.Fprintln(a.stdout, "  cp .env.example .env   # then fill in SYNTHESIA_API_KEY")
			fmt.Fprintln(a.stdout, "  go mod tidy")
			fmt.Fprintln(a.stdout, "  go run .")
			return nil
		},
	}
	cmd.Flags().StringVar(&avatar, "avatar", defaultInitAvatar, "avatar used by the generated program")

	return cmd
}

func initProject(projectPath string, data templateData) error {
	if err := validateProjectName(filepath.Base(projectPath)); err != nil {
		return err
	}
	if _, err := os.Stat(projectPath); err == nil {
		return fmt.Errorf("directory %q already exists", projectPath)
	}
	if err := os.MkdirAll(projectPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", projectPath, err)
	}

	if err := writeProjectFiles(projectPath, projectFiles, data); err != nil {
		os.RemoveAll(projectPath)
		return err
	}
	return nil
}

type projectFile struct {
	name string
	tmpl string
}

var projectFiles = []projectFile{
	{"go.mod", goModTemplate},
	{"main.go", mainGoTemplate},
	{"reel.yaml", reelYAMLTemplate},
	{".env.example", envExampleTemplate},
}

func writeProjectFiles(dir string, files []projectFile, data templateData) error {
	for _, f := range files {
		if err := generateFile(filepath.Join(dir, f.name), f.tmpl, data); err != nil {
			return fmt.Errorf("failed to create %s: %w", f.name, err)
		}
	}
	return nil
}

func validateProjectName(name string) error {
	if name == "" {
		return errors.New("project name cannot be empty")
	}
	if !validProjectName.MatchString(name) {
		return fmt.Errorf("invalid project name %q: must start with a letter and contain only letters, numbers, underscores, and hyphens", name)
	}
	if name == "reel" {
		return fmt.Errorf("invalid project name %q: reserved name", name)
	}
	return nil
}

type templateData struct {
	Module     string
	Avatar     string
	SDKVersion string
}

var templateFuncs = template.FuncMap{
	"keyRef": func() string { return config.DefaultKeyRef },
}

func generateFile(path string, tmplContent string, data templateData) error {
	tmpl, err := template.New(filepath.Base(path)).Funcs(templateFuncs).Parse(tmplContent)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

// Templates

var goModTemplate = `module {{.Module}}

go 1.24

require (
	github.com/joho/godotenv v1.5.1
	github.com/petal-labs/reel v{{.SDKVersion}}
)
`

var mainGoTemplate = `package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/petal-labs/reel/core"
	"github.com/petal-labs/reel/synthesia"
)

func main() {
	_ = godotenv.Load()

	client, err := synthesia.NewFromEnv(synthesia.WithRetries(3))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	res := client.Videos().Create(ctx, &synthesia.CreateVideoRequest{
		Test:  true,
		Title: "Hello from Reel",
		Input: []synthesia.VideoInput{
			{
				ScriptText: "Hello, world! This video was rendered with Reel.",
				Avatar:     "{{.Avatar}}",
				Background: "green_screen",
			},
		},
	})
	video, err := res.Unwrap()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	video, err = client.Videos().WaitForCompletion(ctx, video.ID, core.PollConfig{
		OnStatusUpdate: func(status string) { fmt.Println("status:", status) },
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if core.IsFailed(video.Status) {
		fmt.Fprintln(os.Stderr, "video failed:", video.ID)
		os.Exit(1)
	}

	fmt.Println(video.Download)
}
`

var reelYAMLTemplate = `# Reel CLI configuration, use with: reel --config reel.yaml
# Store the key with 'reel keys set {{keyRef}}' or export SYNTHESIA_API_KEY.
api_key_ref: {{keyRef}}
timeout: 30s
poll_interval: 10s

defaults:
  avatar: {{.Avatar}}
  background: green_screen
  visibility: private
  test: true
`

var envExampleTemplate = `SYNTHESIA_API_KEY=
# SYNTHESIA_BASE_URL=https://api.synthesia.io/v2
# SYNTHESIA_TIMEOUT=30s
`
