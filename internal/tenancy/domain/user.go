package domain

import (
	"strings"
	"time"
)

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInvited   UserStatus = "invited"
	UserSuspended UserStatus = "suspended"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserActive, UserInvited, UserSuspended:
		return true
	}
	return false
}

// AuthProvider names how an account authenticates.
type AuthProvider string

const (
	ProviderCredentials AuthProvider = "credentials"
	ProviderOIDC        AuthProvider = "oidc"
	ProviderDemo        AuthProvider = "demo"
)

type User struct {
	ID           string
	Email        string // lowercased, globally unique
	Name         string
	TenantID     string
	Role         Role
	Status       UserStatus
	PasswordHash string // empty for accounts without a local password
	AvatarURL    string
	Provider     AuthProvider
	ExternalID   string
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SanitizedUser is a User without credential material. It is the only user
// shape that leaves the service layer.
type SanitizedUser struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	Name        string       `json:"name"`
	TenantID    string       `json:"tenant_id"`
	Role        Role         `json:"role"`
	Status      UserStatus   `json:"status"`
	AvatarURL   string       `json:"avatar_url,omitempty"`
	Provider    AuthProvider `json:"provider"`
	LastLoginAt *time.Time   `json:"last_login_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

func (u User) Sanitize() SanitizedUser {
	return SanitizedUser{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		TenantID:    u.TenantID,
		Role:        u.Role,
		Status:      u.Status,
		AvatarURL:   u.AvatarURL,
		Provider:    u.Provider,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// NormalizeEmail is the canonical form emails are stored and compared in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
