package service_test

import (
	"testing"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/stretchr/testify/require"
)

func principal(role domain.Role) *domain.Principal {
	return &domain.Principal{UserID: "u1", TenantID: "t1", Role: role}
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		principal *domain.Principal
		required  []domain.Role
		want      service.Decision
	}{
		{"no identity", nil, nil, service.Decision{Reason: service.ReasonUnauthenticated}},
		{"no identity with roles", nil, []domain.Role{domain.RoleAdmin}, service.Decision{Reason: service.ReasonUnauthenticated}},
		{"any authenticated", principal(domain.RoleUser), nil, service.Decision{Allowed: true}},
		{"role matches", principal(domain.RoleManager), []domain.Role{domain.RoleAdmin, domain.RoleManager}, service.Decision{Allowed: true}},
		{"role missing", principal(domain.RoleUser), []domain.Role{domain.RoleAdmin, domain.RoleManager}, service.Decision{Reason: service.ReasonForbidden}},
		{"admin is not implicit for roles", principal(domain.RoleAdmin), []domain.Role{domain.RoleManager}, service.Decision{Reason: service.ReasonForbidden}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := service.Authorize(tt.principal, tt.required...)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDecisionErr(t *testing.T) {
	t.Parallel()

	require.NoError(t, service.Decision{Allowed: true}.Err())
	require.ErrorIs(t, service.Decision{Reason: service.ReasonUnauthenticated}.Err(), service.ErrUnauthenticated)
	require.ErrorIs(t, service.Decision{Reason: service.ReasonForbidden}.Err(), service.ErrForbidden)
}

func TestAuthorizeTenant(t *testing.T) {
	t.Parallel()

	p := principal(domain.RoleAdmin)
	require.True(t, service.AuthorizeTenant(p, "t1", domain.RoleAdmin).Allowed)
	require.Equal(t, service.ReasonForbidden, service.AuthorizeTenant(p, "t2", domain.RoleAdmin).Reason)
	require.Equal(t, service.ReasonUnauthenticated, service.AuthorizeTenant(nil, "t1").Reason)
}

func TestHasPermission(t *testing.T) {
	t.Parallel()

	grants := []domain.Permission{domain.DefaultPermission("u1", "t1")}

	require.True(t, service.HasPermission(principal(domain.RoleUser), grants, "dashboard", "read"))
	require.False(t, service.HasPermission(principal(domain.RoleUser), grants, "dashboard", "write"))
	require.True(t, service.HasPermission(principal(domain.RoleAdmin), nil, "billing", "write"))
	require.False(t, service.HasPermission(nil, grants, "dashboard", "read"))

	other := &domain.Principal{UserID: "u1", TenantID: "t2", Role: domain.RoleUser}
	require.False(t, service.HasPermission(other, grants, "dashboard", "read"), "grants are tenant scoped")
}
