package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/jotbox"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of jotbox",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "jotbox version %s\n", strings.TrimSpace(jotbox.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
