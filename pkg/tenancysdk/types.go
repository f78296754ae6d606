package tenancysdk

import "time"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is a stable machine readable code (e.g. "invalid_request").
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error.
	ErrorDescription string `json:"error_description"`

	// Field names the offending input for validation failures.
	Field string `json:"field,omitempty"`
}

// ============================================================================
// Health
// ============================================================================

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Cache    string `json:"cache,omitempty"`
}

// ============================================================================
// Authentication
// ============================================================================

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TenantID string `json:"tenantId"`
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	TenantID        string `json:"tenantId"`
}

// LoginResponse is returned by login, register and demo sign-in. The same
// token is also set as the session cookie.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Redirect  string    `json:"redirect"`
	User      User      `json:"user"`
}

// User is an account without credential material.
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	TenantID    string     `json:"tenant_id"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	Provider    string     `json:"provider"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// SessionResponse describes the identity behind the presented session.
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	TenantID  string    `json:"tenant_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ============================================================================
// Profile
// ============================================================================

type Permission struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

type ProfileResponse struct {
	User        User         `json:"user"`
	Tenant      Tenant       `json:"tenant"`
	Permissions []Permission `json:"permissions"`
}

type UpdateProfileRequest struct {
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ============================================================================
// Invitations
// ============================================================================

type InviteRequest struct {
	Email    string `json:"email"`
	TenantID string `json:"tenantId"`
	Role     string `json:"role"`
}

// InviteResponse carries the raw invitation token. It is shown only once.
type InviteResponse struct {
	InvitationID string    `json:"invitation_id"`
	Token        string    `json:"token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type Invitation struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	TenantID  string    `json:"tenant_id"`
	Role      string    `json:"role"`
	InvitedBy string    `json:"invited_by"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type ListInvitationsResponse struct {
	Invitations []Invitation `json:"invitations"`
}

type AcceptInvitationRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
}

type AcceptInvitationResponse struct {
	UserID string `json:"user_id"`
}

// ============================================================================
// Users
// ============================================================================

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// ============================================================================
// Tenants and bootstrap
// ============================================================================

type CreateTenantRequest struct {
	Name      string   `json:"name"`
	Subdomain string   `json:"subdomain"`
	Plan      string   `json:"plan,omitempty"`
	Features  []string `json:"features,omitempty"`
	TrialDays int      `json:"trialDays,omitempty"`
}

// Tenant is the public summary of a tenant.
type Tenant struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Subdomain   string     `json:"subdomain"`
	Plan        string     `json:"plan"`
	Status      string     `json:"status"`
	Features    []string   `json:"features"`
	TrialEndsAt *time.Time `json:"trial_ends_at,omitempty"`
	URL         string     `json:"url"`
}

type BootstrapRequest struct {
	TenantName      string   `json:"tenantName"`
	TenantSubdomain string   `json:"tenantSubdomain"`
	Plan            string   `json:"plan,omitempty"`
	Features        []string `json:"features,omitempty"`
	AdminEmail      string   `json:"adminEmail"`
	AdminName       string   `json:"adminName"`
	AdminPassword   string   `json:"adminPassword"`
}

type BootstrapResponse struct {
	TenantID    string `json:"tenant_id"`
	AdminUserID string `json:"admin_user_id"`
}

// ============================================================================
// Pages
// ============================================================================

// PageResponse is served for a guarded tenant page the session may view.
type PageResponse struct {
	Tenant  Tenant          `json:"tenant"`
	Page    string          `json:"page"`
	Session SessionResponse `json:"session"`
}

// LandingResponse describes how to sign in.
type LandingResponse struct {
	Service       string `json:"service"`
	Version       string `json:"version"`
	Tenant        string `json:"tenant,omitempty"`
	LoginEndpoint string `json:"login_endpoint"`
	OIDCEnabled   bool   `json:"oidc_enabled"`
	DemoEnabled   bool   `json:"demo_enabled"`
}
