// Package service holds the tenancy business rules: credential checks,
// sessions, invitations, authorization and tenant management. Handlers and
// commands call into it; it talks to storage only through store.Store.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
)

const (
	DefaultSessionTTL      = 30 * 24 * time.Hour
	DefaultSessionCacheTTL = 5 * time.Minute
	DefaultInvitationTTL   = 7 * 24 * time.Hour
)

// ClientMeta describes the client a session is issued to.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// TokenFunc produces a fresh opaque token.
type TokenFunc func() (string, error)

func defaultToken() (string, error) {
	return cryptox.GenerateToken(cryptox.TokenSize256)
}

func nowOr(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}

func tokenOr(fn TokenFunc) TokenFunc {
	if fn == nil {
		return defaultToken
	}
	return fn
}

// lookupTenant resolves a tenant reference, trying subdomain then id.
func lookupTenant(ctx context.Context, tenants store.Tenants, ref string) (domain.Tenant, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Tenant{}, store.ErrNotFound
	}
	t, err := tenants.GetTenantBySubdomain(ctx, strings.ToLower(ref))
	if errors.Is(err, store.ErrNotFound) {
		return tenants.GetTenantByID(ctx, ref)
	}
	return t, err
}

// Principal builds the authorization identity for a stored user.
func Principal(u domain.User) *domain.Principal {
	return &domain.Principal{
		UserID:   u.ID,
		TenantID: u.TenantID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
	}
}
