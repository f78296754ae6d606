package cmd

import (
	"fmt"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/app"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.LoadConfig()

		application, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		return application.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
