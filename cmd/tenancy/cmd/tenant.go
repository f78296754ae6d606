package cmd

import (
	"fmt"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/app"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/spf13/cobra"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage tenants",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var tenantCreateCmd = &cobra.Command{
	Use:   "create <subdomain>",
	Short: "Register a new tenant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		req := service.CreateTenantRequest{Subdomain: args[0]}
		req.Name, _ = flags.GetString("name")
		plan, _ := flags.GetString("plan")
		req.Plan = domain.Plan(plan)
		req.Features, _ = flags.GetStringSlice("feature")
		req.TrialDays, _ = flags.GetInt("trial-days")
		if req.Name == "" {
			req.Name = req.Subdomain
		}

		application, err := app.New(cmd.Context(), app.LoadConfig())
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer func() { _ = application.Shutdown() }()

		t, url, err := application.CreateTenant(cmd.Context(), req)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "tenant_id=%s\nstatus=%s\nurl=%s\n", t.ID, t.Status, url)
		return nil
	},
}

func init() {
	flags := tenantCreateCmd.Flags()
	flags.String("name", "", "display name (defaults to the subdomain)")
	flags.String("plan", "", "plan (basic, pro, enterprise)")
	flags.StringSlice("feature", nil, "feature flag to enable (repeatable)")
	flags.Int("trial-days", 0, "start the tenant on a trial of this many days")

	tenantCmd.AddCommand(tenantCreateCmd)
	rootCmd.AddCommand(tenantCmd)
}
