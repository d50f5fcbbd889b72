package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addTitle   string
	addContent string
	addColor   string
	addTasks   []string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		note, res := app.CreateNote(ctx, addTitle, addContent, addColor)
		if err := check(res); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), note.ID)
		return nil
	},
}

var addTodoCmd = &cobra.Command{
	Use:   "add-todo",
	Short: "Create a to-do list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		note, res := app.CreateTodo(ctx, addTitle, addTasks, addColor)
		if err := check(res); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), note.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd, addTodoCmd)

	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "Note title (required)")
	addCmd.Flags().StringVarP(&addContent, "content", "c", "", "Note body")
	addCmd.Flags().StringVar(&addColor, "color", "", "Palette color (default: first swatch)")
	addCmd.MarkFlagRequired("title")

	addTodoCmd.Flags().StringVarP(&addTitle, "title", "t", "", "List title (required)")
	addTodoCmd.Flags().StringArrayVar(&addTasks, "task", nil, "Task text (repeatable)")
	addTodoCmd.Flags().StringVar(&addColor, "color", "", "Palette color (default: first swatch)")
	addTodoCmd.MarkFlagRequired("title")
}
