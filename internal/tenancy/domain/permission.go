package domain

// Permission grants one action on one resource to a user within a tenant.
type Permission struct {
	UserID   string `json:"-"`
	TenantID string `json:"-"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// DefaultPermission is granted to every newly created user.
func DefaultPermission(userID, tenantID string) Permission {
	return Permission{UserID: userID, TenantID: tenantID, Resource: "dashboard", Action: "read"}
}

// Principal is the authenticated identity a request acts as.
type Principal struct {
	UserID    string
	TenantID  string
	Email     string
	Name      string
	Role      Role
	SessionID string
}
