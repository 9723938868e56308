package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/petal-labs/reel/core"
	"github.com/petal-labs/reel/synthesia"
)

type waitFlags struct {
	interval    time.Duration
	maxAttempts int
}

func (w *waitFlags) register(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&w.interval, "interval", 0, "poll interval (default from config, else 10s)")
	cmd.Flags().IntVar(&w.maxAttempts, "max-attempts", core.DefaultPollMaxAttempts, "maximum number of status checks")
}

func (a *App) newVideosCommand() *cobra.Command {
	videos := &cobra.Command{
		Use:   "videos",
		Short: "Create and manage videos",
	}

	videos.AddCommand(a.newVideosCreateCommand())
	videos.AddCommand(a.newVideosFromTemplateCommand())
	videos.AddCommand(a.newVideosListCommand())
	videos.AddCommand(a.newVideosGetCommand())
	videos.AddCommand(a.newVideosUpdateCommand())
	videos.AddCommand(a.newVideosDeleteCommand())
	videos.AddCommand(a.newVideosWaitCommand())

	return videos
}

func (a *App) newVideosCreateCommand() *cobra.Command {
	var (
		script      string
		scriptFile  string
		avatar      string
		background  string
		title       string
		description string
		visibility  string
		aspectRatio string
		callbackID  string
		test        bool
		wait        bool
		wf          waitFlags
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Render a video from a script",
		Long: `Render a single-scene video from a script.

Examples:
  reel videos create --script "Hello from Reel" --avatar anna_costume1_cameraA --test
  reel videos create --script-file intro.txt --wait --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scriptFile != "" {
				b, err := os.ReadFile(scriptFile)
				if err != nil {
					return exitWithCode(ExitValidation, fmt.Errorf("read script: %w", err))
				}
				script = strings.TrimSpace(string(b))
			}

			defaults := a.cfg.Defaults
			if !cmd.Flags().Changed("avatar") {
				avatar = defaults.Avatar
			}
			if !cmd.Flags().Changed("background") {
				background = defaults.Background
			}
			if !cmd.Flags().Changed("visibility") {
				visibility = defaults.Visibility
			}
			if !cmd.Flags().Changed("test") {
				test = defaults.Test
			}

			req := &synthesia.CreateVideoRequest{
				Test:        test,
				Title:       title,
				Description: description,
				Visibility:  synthesia.Visibility(visibility),
				AspectRatio: aspectRatio,
				CallbackID:  callbackID,
				Input: []synthesia.VideoInput{{
					ScriptText: script,
					Avatar:     avatar,
					Background: background,
				}},
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			res := client.Videos().Create(commandContext(cmd), req)
			if !res.IsOk() {
				return a.handleAPIError(res.Error())
			}
			video := res.Value()
			if wait {
				return a.waitAndPrint(cmd, client, video.ID, wf)
			}
			return a.printVideo(video)
		},
	}

	cmd.Flags().StringVar(&script, "script", "", "script text spoken by the avatar")
	cmd.Flags().StringVar(&scriptFile, "script-file", "", "read the script from a file")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar ID")
	cmd.Flags().StringVar(&background, "background", "", "background ID or URL")
	cmd.Flags().StringVar(&title, "title", "", "video title")
	cmd.Flags().StringVar(&description, "description", "", "video description")
	cmd.Flags().StringVar(&visibility, "visibility", "", "private or public")
	cmd.Flags().StringVar(&aspectRatio, "aspect-ratio", "", "16:9, 9:16, 1:1, 4:5 or 5:4")
	cmd.Flags().StringVar(&callbackID, "callback-id", "", "opaque ID echoed back in webhooks")
	cmd.Flags().BoolVar(&test, "test", false, "create a watermarked test video")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait until rendering finishes")
	wf.register(cmd)
	cmd.MarkFlagsMutuallyExclusive("script", "script-file")

	return cmd
}

func (a *App) newVideosFromTemplateCommand() *cobra.Command {
	var (
		vars       map[string]string
		title      string
		visibility string
		callbackID string
		test       bool
		wait       bool
		wf         waitFlags
	)

	cmd := &cobra.Command{
		Use:   "from-template <template-id>",
		Short: "Render a video from a template",
		Long: `Render a video from a template, filling its variables.

Examples:
  reel videos from-template tpl_123 --var name=Ada --var company=Acme --test`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &synthesia.CreateFromTemplateRequest{
				TemplateID:   args[0],
				TemplateData: vars,
				Test:         test,
				Title:        title,
				Visibility:   synthesia.Visibility(visibility),
				CallbackID:   callbackID,
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			res := client.Videos().CreateFromTemplate(commandContext(cmd), req)
			if !res.IsOk() {
				return a.handleAPIError(res.Error())
			}
			if wait {
				return a.waitAndPrint(cmd, client, res.Value().ID, wf)
			}
			return a.printVideo(res.Value())
		},
	}

	cmd.Flags().StringToStringVar(&vars, "var", nil, "template variable as key=value (repeatable)")
	cmd.Flags().StringVar(&title, "title", "", "video title")
	cmd.Flags().StringVar(&visibility, "visibility", "", "private (default) or public")
	cmd.Flags().StringVar(&callbackID, "callback-id", "", "opaque ID echoed back in webhooks")
	cmd.Flags().BoolVar(&test, "test", false, "create a watermarked test video")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait until rendering finishes")
	wf.register(cmd)

	return cmd
}

func (a *App) newVideosListCommand() *cobra.Command {
	var (
		limit  int
		offset int
		source []string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			res := client.Videos().List(commandContext(cmd), &synthesia.ListVideosRequest{
				Limit:  limit,
				Offset: offset,
				Source: source,
			})
			if !res.IsOk() {
				return a.handleAPIError(res.Error())
			}
			list := res.Value()
			if a.jsonOutput {
				return a.outputJSON(list)
			}
			if len(list.Videos) == 0 {
				fmt.Fprintln(a.stdout, "No videos.")
				return nil
			}
			for _, v := range list.Videos {
				fmt.Fprintf(a.stdout, "%s\t%s\t%s\n", v.ID, v.Status, v.Title)
			}
			if list.NextOffset != nil {
				fmt.Fprintf(a.stdout, "More results: --offset %d\n", *list.NextOffset)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "page size (max 100)")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of videos to skip")
	cmd.Flags().StringSliceVar(&source, "source", nil, "filter by source (repeatable)")

	return cmd
}

func (a *App) newVideosGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <video-id>",
		Short: "Show a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			res := client.Videos().Get(commandContext(cmd), args[0])
			if !res.IsOk() {
				return a.handleAPIError(res.Error())
			}
			return a.printVideo(res.Value())
		},
	}
}

func (a *App) newVideosUpdateCommand() *cobra.Command {
	var title, description, visibility string

	cmd := &cobra.Command{
		Use:   "update <video-id>",
		Short: "Change video metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &synthesia.UpdateVideoRequest{}
			if cmd.Flags().Changed("title") {
				req.Title = &title
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			if cmd.Flags().Changed("visibility") {
				v := synthesia.Visibility(visibility)
				req.Visibility = &v
			}
			if req.Title == nil && req.Description == nil && req.Visibility == nil {
				return exitWithCode(ExitValidation, errors.New("nothing to update: set --title, --description or --visibility"))
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			res := client.Videos().Update(commandContext(cmd), args[0], req)
			if !res.IsOk() {
				return a.handleAPIError(res.Error())
			}
			return a.printVideo(res.Value())
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&visibility, "visibility", "", "private or public")

	return cmd
}

func (a *App) newVideosDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <video-id>",
		Short: "Delete a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			res := client.Videos().Delete(commandContext(cmd), args[0])
			if !res.IsOk() {
				return a.handleAPIError(res.Error())
			}
			if a.jsonOutput {
				return a.outputJSON(res.Value())
			}
			fmt.Fprintf(a.stdout, "Video %s deleted.\n", res.Value().ID)
			return nil
		},
	}
}

func (a *App) newVideosWaitCommand() *cobra.Command {
	var wf waitFlags

	cmd := &cobra.Command{
		Use:   "wait <video-id>",
		Short: "Wait until a video finishes rendering",
		Long: `Poll a video until it is complete or failed.

Exits 0 when the video completes and 2 when it fails or polling gives up.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			return a.waitAndPrint(cmd, client, args[0], wf)
		},
	}
	wf.register(cmd)

	return cmd
}

func (a *App) waitAndPrint(cmd *cobra.Command, client *synthesia.Client, id string, wf waitFlags) error {
	interval := wf.interval
	if interval <= 0 && a.cfg != nil {
		interval = a.cfg.PollInterval
	}

	video, err := client.Videos().WaitForCompletion(commandContext(cmd), id, core.PollConfig{
		MaxAttempts: wf.maxAttempts,
		Interval:    interval,
		OnStatusUpdate: func(status string) {
			a.logger.Info("waiting for video", "id", id, "status", status)
		},
	})
	if err != nil {
		var apiErr *core.APIError
		if errors.As(err, &apiErr) {
			return a.handleAPIError(apiErr)
		}
		return exitWithCode(ExitAPI, err)
	}

	if perr := a.printVideo(video); perr != nil {
		return perr
	}
	if core.IsFailed(video.Status) {
		return &exitError{code: ExitAPI, err: fmt.Errorf("video %s failed", video.ID), reported: a.jsonOutput}
	}
	return nil
}

func (a *App) printVideo(v *synthesia.Video) error {
	if a.jsonOutput {
		return a.outputJSON(v)
	}

	fmt.Fprintf(a.stdout, "ID:      %s\n", v.ID)
	if v.Title != "" {
		fmt.Fprintf(a.stdout, "Title:   %s\n", v.Title)
	}
	fmt.Fprintf(a.stdout, "Status:  %s\n", v.Status)
	if v.Visibility != "" {
		fmt.Fprintf(a.stdout, "Visible: %s\n", v.Visibility)
	}
	if v.Duration != "" {
		fmt.Fprintf(a.stdout, "Length:  %s\n", v.Duration)
	}
	if v.Download != "" {
		fmt.Fprintf(a.stdout, "URL:     %s\n", v.Download)
	}
	if v.CreatedAt > 0 {
		fmt.Fprintf(a.stdout, "Created: %s\n", time.Unix(v.CreatedAt, 0).UTC().Format(time.RFC3339))
	}
	return nil
}
