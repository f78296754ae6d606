package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/app"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/spf13/cobra"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the first tenant and its admin",
	Long: "Create the first tenant and its admin directly against the database.\n" +
		"The admin password is read from TENANCY_ADMIN_PASSWORD when --admin-password is not given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		req := service.BootstrapRequest{}
		req.TenantName, _ = flags.GetString("tenant-name")
		req.TenantSubdomain, _ = flags.GetString("subdomain")
		req.Plan, _ = flags.GetString("plan")
		req.Features, _ = flags.GetStringSlice("feature")
		req.AdminEmail, _ = flags.GetString("admin-email")
		req.AdminName, _ = flags.GetString("admin-name")
		req.AdminPassword, _ = flags.GetString("admin-password")
		if req.AdminPassword == "" {
			req.AdminPassword = os.Getenv("TENANCY_ADMIN_PASSWORD")
		}

		application, err := app.New(cmd.Context(), app.LoadConfig())
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer func() { _ = application.Shutdown() }()

		res, err := application.Bootstrap(cmd.Context(), req)
		if errors.Is(err, service.ErrAlreadyBootstrapped) {
			return errors.New("already bootstrapped: a tenant exists")
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "tenant_id=%s\nadmin_user_id=%s\n", res.TenantID, res.AdminUserID)
		return nil
	},
}

func init() {
	flags := bootstrapCmd.Flags()
	flags.String("tenant-name", "", "display name of the first tenant")
	flags.String("subdomain", "", "subdomain of the first tenant")
	flags.String("plan", "", "plan (basic, pro, enterprise)")
	flags.StringSlice("feature", nil, "feature flag to enable (repeatable)")
	flags.String("admin-email", "", "email of the admin user")
	flags.String("admin-name", "", "name of the admin user")
	flags.String("admin-password", "", "password of the admin user")
	_ = bootstrapCmd.MarkFlagRequired("tenant-name")
	_ = bootstrapCmd.MarkFlagRequired("subdomain")
	_ = bootstrapCmd.MarkFlagRequired("admin-email")
	_ = bootstrapCmd.MarkFlagRequired("admin-name")

	rootCmd.AddCommand(bootstrapCmd)
}
