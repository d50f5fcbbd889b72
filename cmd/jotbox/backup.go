package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/jotbox"
)

var (
	backupOut   string
	restoreFile string
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a backup of all notes and passwords and share it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var extra []jotbox.Option
		if backupOut != "" {
			extra = append(extra, jotbox.WithBackupDir(backupOut))
		}
		app, err := openApp(ctx, extra...)
		if err != nil {
			return err
		}
		defer app.Close()

		path, res := app.CreateBackup(ctx)
		if path != "" {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return check(res)
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace all notes and passwords with the contents of a backup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		res := app.RestoreBackupFile(ctx, restoreFile)
		if err := check(res); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Message())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd, restoreCmd)
	backupCmd.Flags().StringVarP(&backupOut, "out", "o", "", "Directory receiving the backup file")
	restoreCmd.Flags().StringVar(&restoreFile, "file", "", "Backup document to restore (required)")
	restoreCmd.MarkFlagRequired("file")
}
