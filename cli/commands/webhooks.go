package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petal-labs/reel/synthesia"
	"github.com/petal-labs/reel/webhook"
)

func (a *App) newWebhooksCommand() *cobra.Command {
	webhooks := &cobra.Command{
		Use:   "webhooks",
		Short: "Manage webhook subscriptions",
	}

	var events []string
	create := &cobra.Command{
		Use:   "create <url>",
		Short: "Subscribe a URL to video events",
		Long: `Subscribe a URL to video events. The signing secret is shown once.

Examples:
  reel webhooks create https://example.com/hooks/synthesia
  reel webhooks create https://example.com/hooks --event video.failed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &synthesia.CreateWebhookRequest{URL: args[0]}
			for _, e := range events {
				req.Events = append(req.Events, synthesia.WebhookEvent(e))
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			res := client.Webhooks().Create(commandContext(cmd), req)
			if !res.IsOk() {
				return a.handleAPIError(res.Error())
			}
			return a.printWebhook(res.Value())
		},
	}
	create.Flags().StringSliceVar(&events, "event",
		[]string{string(synthesia.EventVideoCompleted), string(synthesia.EventVideoFailed)},
		"event to subscribe to (repeatable)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List webhooks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			res := client.Webhooks().List(commandContext(cmd))
			if !res.IsOk() {
				return a.handleAPIError(res.Error())
			}
			if a.jsonOutput {
				return a.outputJSON(res.Value())
			}
			if len(res.Value().Webhooks) == 0 {
				fmt.Fprintln(a.stdout, "No webhooks.")
				return nil
			}
			for _, w := range res.Value().Webhooks {
				fmt.Fprintf(a.stdout, "%s\t%s\t%s\n", w.ID, w.URL, joinEvents(w.Events))
			}
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get <webhook-id>",
		Short: "Show a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			res := client.Webhooks().Get(commandContext(cmd), args[0])
			if !res.IsOk() {
				return a.handleAPIError(res.Error())
			}
			return a.printWebhook(res.Value())
		},
	}

	del := &cobra.Command{
		Use:   "delete <webhook-id>",
		Short: "Delete a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			res := client.Webhooks().Delete(commandContext(cmd), args[0])
			if !res.IsOk() {
				return a.handleAPIError(res.Error())
			}
			if a.jsonOutput {
				return a.outputJSON(res.Value())
			}
			fmt.Fprintf(a.stdout, "Webhook %s deleted.\n", res.Value().ID)
			return nil
		},
	}

	webhooks.AddCommand(create, list, get, del, a.newWebhooksVerifyCommand())
	return webhooks
}

func (a *App) newWebhooksVerifyCommand() *cobra.Command {
	var secret, signature string

	cmd := &cobra.Command{
		Use:   "verify [payload-file]",
		Short: "Check the signature of a captured delivery",
		Long: `Check a captured webhook body against its signature header.
The body is read from payload-file, or stdin when omitted or "-".
The secret defaults to SYNTHESIA_WEBHOOK_SECRET.

Exits 0 when the signature matches and 1 otherwise.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("SYNTHESIA_WEBHOOK_SECRET")
			}
			if secret == "" {
				return exitWithCode(ExitValidation, errors.New("secret required: use --secret or set SYNTHESIA_WEBHOOK_SECRET"))
			}

			payload, err := a.readPayload(args)
			if err != nil {
				return exitWithCode(ExitValidation, err)
			}

			event, err := webhook.VerifyAndParse(payload, signature, secret)
			if err != nil {
				return exitWithCode(ExitValidation, err)
			}

			if a.jsonOutput {
				return a.outputJSON(map[string]any{
					"valid":      true,
					"event":      event.Event,
					"webhook_id": event.WebhookID,
					"timestamp":  event.Timestamp,
				})
			}
			fmt.Fprintf(a.stdout, "Signature valid: %s", event.Event)
			if event.IsVideoEvent() {
				if v, err := event.Video(); err == nil {
					fmt.Fprintf(a.stdout, " for video %s (%s)", v.ID, v.Status)
				}
			}
			fmt.Fprintln(a.stdout)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "webhook signing secret")
	cmd.Flags().StringVar(&signature, "signature", "", "value of the "+webhook.SignatureHeader+" header")
	_ = cmd.MarkFlagRequired("signature")

	return cmd
}

func (a *App) readPayload(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(io.LimitReader(a.stdin, webhook.MaxBodyBytes))
	}
	return os.ReadFile(args[0])
}

func (a *App) printWebhook(w *synthesia.Webhook) error {
	if a.jsonOutput {
		return a.outputJSON(w)
	}
	fmt.Fprintf(a.stdout, "ID:     %s\n", w.ID)
	fmt.Fprintf(a.stdout, "URL:    %s\n", w.URL)
	fmt.Fprintf(a.stdout, "Events: %s\n", joinEvents(w.Events))
	if w.Status != "" {
		fmt.Fprintf(a.stdout, "Status: %s\n", w.Status)
	}
	if w.Secret != "" {
		fmt.Fprintf(a.stdout, "Secret: %s (store it now, it is not shown again)\n", w.Secret)
	}
	return nil
}

func joinEvents(events []synthesia.WebhookEvent) string {
	s := make([]string, len(events))
	for i, e := range events {
		s[i] = string(e)
	}
	return strings.Join(s, ",")
}
