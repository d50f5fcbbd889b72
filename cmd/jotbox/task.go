package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/jotbox"
	"github.com/aretw0/jotbox/pkg/core"
)

var (
	taskNoteID string
	taskID     string
	taskText   string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Edit the tasks of a to-do list",
}

// taskAction builds a subcommand applying fn to the note selected by --note.
func taskAction(use, short string, fn func(cmd *cobra.Command, app *jotbox.App) (core.Note, jotbox.Result)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			note, res := fn(cmd, app)
			if err := check(res); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range note.Tasks {
				mark := "[ ]"
				if t.Completed {
					mark = "[x]"
				}
				fmt.Fprintf(out, "%s %s  %s\n", mark, t.ID, t.Text)
			}
			return nil
		},
	}
}

func init() {
	toggle := taskAction("toggle", "Check or uncheck a task", func(cmd *cobra.Command, app *jotbox.App) (core.Note, jotbox.Result) {
		return app.ToggleTask(cmd.Context(), taskNoteID, taskID)
	})
	add := taskAction("add", "Append a task", func(cmd *cobra.Command, app *jotbox.App) (core.Note, jotbox.Result) {
		return app.AddTask(cmd.Context(), taskNoteID, taskText)
	})
	edit := taskAction("edit", "Change the text of a task", func(cmd *cobra.Command, app *jotbox.App) (core.Note, jotbox.Result) {
		return app.EditTask(cmd.Context(), taskNoteID, taskID, taskText)
	})
	remove := taskAction("remove", "Remove a task", func(cmd *cobra.Command, app *jotbox.App) (core.Note, jotbox.Result) {
		return app.RemoveTask(cmd.Context(), taskNoteID, taskID)
	})

	for _, c := range []*cobra.Command{toggle, add, edit, remove} {
		c.Flags().StringVar(&taskNoteID, "note", "", "To-do list id (required)")
		c.MarkFlagRequired("note")
		taskCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{toggle, edit, remove} {
		c.Flags().StringVar(&taskID, "id", "", "Task id (required)")
		c.MarkFlagRequired("id")
	}
	for _, c := range []*cobra.Command{add, edit} {
		c.Flags().StringVar(&taskText, "text", "", "Task text (required)")
		c.MarkFlagRequired("text")
	}

	rootCmd.AddCommand(taskCmd)
}
