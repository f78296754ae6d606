package service_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestVerifyMatchesTenant(t *testing.T) {
	f := newFixture(t)
	acme := f.tenant("acme")
	globex := f.tenant("globex")
	alice := f.user(acme, "alice@example.com", domain.RoleUser)

	t.Run("by subdomain", func(t *testing.T) {
		got, err := f.credentials.Verify(f.ctx, "alice@example.com", testPassword, "acme")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, alice.ID, got.ID)
	})

	t.Run("by tenant id and mixed case email", func(t *testing.T) {
		got, err := f.credentials.Verify(f.ctx, " Alice@Example.com ", testPassword, acme.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
	})

	t.Run("other tenant", func(t *testing.T) {
		got, err := f.credentials.Verify(f.ctx, "alice@example.com", testPassword, "globex")
		require.NoError(t, err)
		require.Nil(t, got)

		got, err = f.credentials.Verify(f.ctx, "alice@example.com", testPassword, globex.ID)
		require.NoError(t, err)
		require.Nil(t, got)
	})
}

func TestVerifyRejectionsAreUniform(t *testing.T) {
	f := newFixture(t)
	acme := f.tenant("acme")
	f.user(acme, "alice@example.com", domain.RoleUser)
	bob := f.user(acme, "bob@example.com", domain.RoleUser)
	require.NoError(t, f.store.Users().UpdateStatus(f.ctx, bob.ID, domain.UserSuspended))

	tests := []struct {
		name, email, password, tenant string
	}{
		{"wrong password", "alice@example.com", "not-the-password", "acme"},
		{"unknown email", "nobody@example.com", testPassword, "acme"},
		{"unknown tenant", "alice@example.com", testPassword, "nowhere"},
		{"empty password", "alice@example.com", "", "acme"},
		{"empty tenant", "alice@example.com", testPassword, ""},
		{"suspended user", "bob@example.com", testPassword, "acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.credentials.Verify(f.ctx, tt.email, tt.password, tt.tenant)
			require.NoError(t, err)
			require.Nil(t, got)
		})
	}
}

func TestVerifyRejectsUnusableTenant(t *testing.T) {
	f := newFixture(t)

	trial, err := f.tenants.Create(f.ctx, service.CreateTenantRequest{Name: "Trial", Subdomain: "trial", TrialDays: 14})
	require.NoError(t, err)
	f.user(trial, "carol@example.com", domain.RoleUser)

	got, err := f.credentials.Verify(f.ctx, "carol@example.com", testPassword, "trial")
	require.NoError(t, err)
	require.NotNil(t, got)

	f.clock.Advance(15 * 24 * time.Hour)
	got, err = f.credentials.Verify(f.ctx, "carol@example.com", testPassword, "trial")
	require.NoError(t, err)
	require.Nil(t, got, "expired trial")

	suspended := f.tenant("frozen")
	f.user(suspended, "dave@example.com", domain.RoleUser)
	require.NoError(t, f.store.Tenants().UpdateTenantStatus(f.ctx, suspended.ID, domain.TenantSuspended))

	got, err = f.credentials.Verify(f.ctx, "dave@example.com", testPassword, "frozen")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestVerifyUpgradesLegacyHash(t *testing.T) {
	f := newFixture(t)
	acme := f.tenant("acme")
	u := f.user(acme, "legacy@example.com", domain.RoleUser)

	legacy, err := cryptox.HashLegacy(testPassword)
	require.NoError(t, err)
	require.NoError(t, f.store.Users().UpdatePasswordHash(f.ctx, u.ID, legacy))

	got, err := f.credentials.Verify(f.ctx, "legacy@example.com", testPassword, "acme")
	require.NoError(t, err)
	require.NotNil(t, got)

	stored, err := f.store.Users().GetUserByID(f.ctx, u.ID)
	require.NoError(t, err)
	require.NotEqual(t, legacy, stored.PasswordHash)
	require.False(t, f.hasher.NeedsRehash(stored.PasswordHash))
	require.True(t, f.hasher.Verify(testPassword, stored.PasswordHash))
}

func TestVerifyStoreFailureIsUnavailable(t *testing.T) {
	f := newFixture(t)
	f.breakStore()

	got, err := f.credentials.Verify(f.ctx, "alice@example.com", testPassword, "acme")
	require.ErrorIs(t, err, service.ErrUnavailable)
	require.Nil(t, got)
}
