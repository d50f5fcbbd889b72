package main

import (
	"github.com/spf13/cobra"
)

var (
	editID      string
	editTitle   string
	editContent string
	editColor   string
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Change the title, content or color of a note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		note, res := app.GetNote(ctx, editID)
		if err := check(res); err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("title") {
			note.Title = editTitle
		}
		if flags.Changed("content") {
			note.Content = editContent
		}
		if flags.Changed("color") {
			note.Color = editColor
		}
		return check(app.UpdateNote(ctx, note))
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		return check(app.DeleteNote(ctx, editID))
	},
}

func init() {
	rootCmd.AddCommand(editCmd, deleteCmd)

	editCmd.Flags().StringVar(&editID, "id", "", "Note id (required)")
	editCmd.Flags().StringVarP(&editTitle, "title", "t", "", "New title")
	editCmd.Flags().StringVarP(&editContent, "content", "c", "", "New body")
	editCmd.Flags().StringVar(&editColor, "color", "", "New palette color")
	editCmd.MarkFlagRequired("id")

	deleteCmd.Flags().StringVar(&editID, "id", "", "Note id (required)")
	deleteCmd.MarkFlagRequired("id")
}
