package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes made to the store by other processes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		source, err := app.Watch(ctx)
		if err != nil {
			return err
		}
		if err := source.Start(ctx); err != nil {
			return err
		}

		slog.Info("watching for changes", "location", app.Location())
		out := cmd.OutOrStdout()
		for e := range source.Events() {
			fmt.Fprintln(out, e.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
