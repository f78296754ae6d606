// Package cmd holds the tenancy command line.
package cmd

import (
	"log"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/app"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "tenancy",
	Short:   "Tenant-aware authentication and session service",
	Version: app.BuildVersion,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Overload(); err != nil {
			log.Println("Error loading .env file, skipping")
		}
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalln(err.Error())
	}
}
