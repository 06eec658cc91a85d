package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/auralist-app/auralist/internal/interfaces/cli/migrate"
	"github.com/auralist-app/auralist/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "auralist",
		Short: "Auralist identity service",
		Long:  `Auralist's sync backend identity service: anonymous identity provisioning, recovery code verification, and device linking.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
