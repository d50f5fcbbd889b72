package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/jotbox/pkg/core"
)

var (
	listJSON  bool
	listQuery string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		list, res := app.Search(ctx, listQuery)
		if err := check(res); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if listJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(list)
		}

		for _, n := range list {
			fmt.Fprintln(out, formatLine(n))
		}
		return nil
	},
}

// formatLine renders the one-line summary shown in the notes list.
func formatLine(n core.Note) string {
	if n.IsTodo() {
		return fmt.Sprintf("%s  [%d/%d] %s  (%s)", n.ID, core.CompletedCount(n.Tasks), len(n.Tasks), n.Title, n.Date)
	}
	return fmt.Sprintf("%s  %s  (%s)", n.ID, n.Title, n.Date)
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Only list notes containing this text")
}
