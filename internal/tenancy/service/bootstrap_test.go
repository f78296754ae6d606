package service_test

import (
	"testing"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/stretchr/testify/require"
)

func bootstrapRequest() service.BootstrapRequest {
	return service.BootstrapRequest{
		TenantName:      "Acme",
		TenantSubdomain: "acme",
		AdminEmail:      "Root@Example.com",
		AdminName:       "Root",
		AdminPassword:   "root-password",
	}
}

func TestBootstrap(t *testing.T) {
	f := newFixture(t)

	done, err := f.bootstrap.IsBootstrapped(f.ctx)
	require.NoError(t, err)
	require.False(t, done)

	_, err = f.bootstrap.Bootstrap(f.ctx, "wrong-token", bootstrapRequest())
	require.ErrorIs(t, err, service.ErrBootstrapUnauthorized)

	res, err := f.bootstrap.Bootstrap(f.ctx, "bootstrap-token", bootstrapRequest())
	require.NoError(t, err)

	tenant, err := f.store.Tenants().GetTenantByID(f.ctx, res.TenantID)
	require.NoError(t, err)
	require.Equal(t, "acme", tenant.Subdomain)
	require.Equal(t, res.AdminUserID, tenant.OwnerID)

	admin, err := f.store.Users().GetUserByID(f.ctx, res.AdminUserID)
	require.NoError(t, err)
	require.Equal(t, "root@example.com", admin.Email)
	require.Equal(t, domain.RoleAdmin, admin.Role)

	got, err := f.credentials.Verify(f.ctx, "root@example.com", "root-password", "acme")
	require.NoError(t, err)
	require.NotNil(t, got)

	_, err = f.bootstrap.Bootstrap(f.ctx, "bootstrap-token", bootstrapRequest())
	require.ErrorIs(t, err, service.ErrAlreadyBootstrapped)
	_, err = f.bootstrap.BootstrapLocal(f.ctx, bootstrapRequest())
	require.ErrorIs(t, err, service.ErrAlreadyBootstrapped)
}

func TestBootstrapWithoutConfiguredToken(t *testing.T) {
	f := newFixture(t)
	f.bootstrap.Token = ""

	require.False(t, f.bootstrap.Authorized(""))
	_, err := f.bootstrap.Bootstrap(f.ctx, "", bootstrapRequest())
	require.ErrorIs(t, err, service.ErrBootstrapUnauthorized)

	res, err := f.bootstrap.BootstrapLocal(f.ctx, bootstrapRequest())
	require.NoError(t, err)
	require.NotEmpty(t, res.TenantID)
}

func TestBootstrapValidation(t *testing.T) {
	f := newFixture(t)

	req := bootstrapRequest()
	req.AdminPassword = "short"
	_, err := f.bootstrap.Bootstrap(f.ctx, "bootstrap-token", req)

	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "adminPassword", verr.Field)

	done, err := f.bootstrap.IsBootstrapped(f.ctx)
	require.NoError(t, err)
	require.False(t, done)
}
