package domain

// BootstrapData seeds an empty installation with its first tenant and admin.
type BootstrapData struct {
	TenantName      string
	TenantSubdomain string
	Plan            Plan
	Features        []string

	AdminEmail    string
	AdminName     string
	AdminPassword string
}
