package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/jotbox"
	"github.com/aretw0/jotbox/pkg/core"
	"github.com/aretw0/jotbox/pkg/export"
)

var (
	exportIDs    []string
	exportMatch  string
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export selected notes to a file and share it",
	Long: `Export concatenates the selected notes into one document. Select notes
with --id (repeatable) or --match, a glob over lower-cased titles.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var extra []jotbox.Option
		if exportOut != "" {
			extra = append(extra, jotbox.WithExportDir(exportOut))
		}
		app, err := openApp(ctx, extra...)
		if err != nil {
			return err
		}
		defer app.Close()

		all, res := app.LoadNotes(ctx)
		if err := check(res); err != nil {
			return err
		}
		selected, err := selectNotes(all)
		if err != nil {
			return err
		}

		format := export.Format(exportFormat)
		if format == "" {
			format = export.Format(settings.Export.Format)
		}
		path, res := app.ExportSelectedNotes(ctx, selected, format)
		if path != "" {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return check(res)
	},
}

func selectNotes(all []core.Note) ([]core.Note, error) {
	switch {
	case len(exportIDs) > 0 && exportMatch != "":
		return nil, errors.New("use either --id or --match")
	case len(exportIDs) > 0:
		return export.SelectByIDs(all, exportIDs), nil
	case exportMatch != "":
		return export.SelectByPattern(all, exportMatch)
	default:
		return all, nil
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringArrayVar(&exportIDs, "id", nil, "Note id to export (repeatable)")
	exportCmd.Flags().StringVar(&exportMatch, "match", "", "Glob over note titles, e.g. '*groceries*'")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: text, markdown or json")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Directory receiving the export file")
}
