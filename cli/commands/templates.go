package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petal-labs/reel/synthesia"
)

func (a *App) newTemplatesCommand() *cobra.Command {
	templates := &cobra.Command{
		Use:   "templates",
		Short: "Browse video templates",
	}

	var limit, offset int
	list := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			res := client.Templates().List(commandContext(cmd), &synthesia.ListTemplatesRequest{Limit: limit, Offset: offset})
			if !res.IsOk() {
				return a.handleAPIError(res.Error())
			}
			if a.jsonOutput {
				return a.outputJSON(res.Value())
			}
			if len(res.Value().Templates) == 0 {
				fmt.Fprintln(a.stdout, "No templates.")
				return nil
			}
			for _, t := range res.Value().Templates {
				fmt.Fprintf(a.stdout, "%s\t%s\t%d variable(s)\n", t.ID, t.Title, len(t.Variables))
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 0, "page size (max 100)")
	list.Flags().IntVar(&offset, "offset", 0, "number of templates to skip")

	get := &cobra.Command{
		Use:   "get <template-id>",
		Short: "Show a template and its variables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			res := client.Templates().Get(commandContext(cmd), args[0])
			if !res.IsOk() {
				return a.handleAPIError(res.Error())
			}
			t := res.Value()
			if a.jsonOutput {
				return a.outputJSON(t)
			}
			fmt.Fprintf(a.stdout, "ID:    %s\n", t.ID)
			fmt.Fprintf(a.stdout, "Title: %s\n", t.Title)
			if len(t.Variables) > 0 {
				fmt.Fprintln(a.stdout, "Variables:")
				for _, v := range t.Variables {
					fmt.Fprintf(a.stdout, "  - %s (%s) %s\n", v.ID, v.Type, v.Label)
				}
			}
			return nil
		},
	}

	templates.AddCommand(list, get)
	return templates
}
