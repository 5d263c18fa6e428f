// Package main provides the CLI entrypoint for the account service.
// It wires the serve, migrate and token subcommands.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "account",
		Short:        "User account registration, login and token authentication service",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		serveCommand(),
		migrateCommand(),
		tokenCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
