package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/goaltracker/cmd/goalctl/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "goalctl",
		Short:         "Operator tools for the goal tracker",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.TokenCmd())
	rootCmd.AddCommand(cmd.ExportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
