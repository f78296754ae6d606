package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store/drivers/sqlite"
	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedTenant(t *testing.T, s store.Store, subdomain string) domain.Tenant {
	t.Helper()

	tenant := domain.Tenant{
		ID:        idx.New().String(),
		Name:      "Tenant " + subdomain,
		Subdomain: subdomain,
		Plan:      domain.PlanPro,
		Features:  []string{"analytics", "sso"},
		Status:    domain.TenantActive,
	}
	require.NoError(t, s.Tenants().CreateTenant(context.Background(), tenant))
	return tenant
}

func seedUser(t *testing.T, s store.Store, tenantID, email string) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "Someone",
		TenantID:     tenantID,
		Role:         domain.RoleUser,
		Status:       domain.UserActive,
		PasswordHash: "hash",
		Provider:     domain.ProviderCredentials,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func newInvitation(tenantID, invitedBy, email string, expiresAt time.Time) domain.Invitation {
	return domain.Invitation{
		ID:        idx.New().String(),
		Email:     email,
		TenantID:  tenantID,
		Role:      domain.RoleManager,
		TokenHash: idx.New().String(),
		Status:    domain.InvitationPending,
		InvitedBy: invitedBy,
		ExpiresAt: expiresAt,
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestTenants(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	empty, err := s.Tenants().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	tenant := seedTenant(t, s, "acme")

	got, err := s.Tenants().GetTenantBySubdomain(ctx, "acme")
	require.NoError(t, err)
	require.Equal(t, tenant.ID, got.ID)
	require.Equal(t, []string{"analytics", "sso"}, got.Features)
	require.Equal(t, domain.PlanPro, got.Plan)

	_, err = s.Tenants().GetTenantByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.Tenants().CreateTenant(ctx, domain.Tenant{
		ID: idx.New().String(), Name: "dup", Subdomain: "acme", Plan: domain.PlanBasic, Status: domain.TenantActive,
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	require.NoError(t, s.Tenants().UpdateTenantStatus(ctx, tenant.ID, domain.TenantSuspended))
	got, err = s.Tenants().GetTenantByID(ctx, tenant.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TenantSuspended, got.Status)

	empty, err = s.Tenants().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)
}

func TestUsers(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	tenant := seedTenant(t, s, "acme")
	u := seedUser(t, s, tenant.ID, "alice@example.com")

	got, err := s.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Nil(t, got.LastLoginAt)

	// Email is unique across all tenants.
	other := seedTenant(t, s, "globex")
	err = s.Users().CreateUser(ctx, domain.User{
		ID: idx.New().String(), Email: "alice@example.com", Name: "Alice", TenantID: other.ID,
		Role: domain.RoleUser, Status: domain.UserActive, Provider: domain.ProviderCredentials,
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	require.NoError(t, s.Users().UpdateRole(ctx, u.ID, domain.RoleAdmin))
	require.NoError(t, s.Users().UpdateStatus(ctx, u.ID, domain.UserSuspended))
	require.NoError(t, s.Users().UpdateProfile(ctx, u.ID, "Alice A", "https://example.com/a.png"))

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Users().TouchLastLogin(ctx, u.ID, at))

	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, got.Role)
	require.Equal(t, domain.UserSuspended, got.Status)
	require.Equal(t, "Alice A", got.Name)
	require.NotNil(t, got.LastLoginAt)
	require.True(t, at.Equal(*got.LastLoginAt))

	err = s.Users().UpdateRole(ctx, "missing", domain.RoleAdmin)
	require.ErrorIs(t, err, store.ErrNotFound)

	users, err := s.Users().ListUsersByTenant(ctx, tenant.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestSessions(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	tenant := seedTenant(t, s, "acme")
	u := seedUser(t, s, tenant.ID, "alice@example.com")

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	live := domain.Session{
		ID: idx.New().String(), UserID: u.ID, TenantID: tenant.ID, TokenHash: "live",
		CreatedAt: now, ExpiresAt: now.Add(time.Hour), LastActiveAt: now,
	}
	dead := domain.Session{
		ID: idx.New().String(), UserID: u.ID, TenantID: tenant.ID, TokenHash: "dead",
		CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Minute), LastActiveAt: now.Add(-time.Hour),
	}
	require.NoError(t, s.Sessions().CreateSession(ctx, live))
	require.NoError(t, s.Sessions().CreateSession(ctx, dead))

	got, err := s.Sessions().GetSessionByTokenHash(ctx, "live")
	require.NoError(t, err)
	require.Equal(t, live.ID, got.ID)
	require.True(t, live.ExpiresAt.Equal(got.ExpiresAt))

	n, err := s.Sessions().DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = s.Sessions().GetSessionByTokenHash(ctx, "dead")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Sessions().DeleteSessionByTokenHash(ctx, "live"))
	require.NoError(t, s.Sessions().DeleteSessionByTokenHash(ctx, "live"), "delete is idempotent")
}

func TestDeleteSessionsByUser(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	tenant := seedTenant(t, s, "acme")
	u := seedUser(t, s, tenant.ID, "alice@example.com")

	now := time.Now()
	for _, hash := range []string{"a", "b"} {
		require.NoError(t, s.Sessions().CreateSession(ctx, domain.Session{
			ID: idx.New().String(), UserID: u.ID, TenantID: tenant.ID, TokenHash: hash,
			CreatedAt: now, ExpiresAt: now.Add(time.Hour), LastActiveAt: now,
		}))
	}

	hashes, err := s.Sessions().DeleteSessionsByUser(ctx, u.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b"}, hashes)

	_, err = s.Sessions().GetSessionByTokenHash(ctx, "a")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestInvitationPendingUniqueness(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	tenant := seedTenant(t, s, "acme")
	admin := seedUser(t, s, tenant.ID, "admin@example.com")

	expires := time.Now().Add(time.Hour)
	first := newInvitation(tenant.ID, admin.ID, "bob@example.com", expires)
	require.NoError(t, s.Invitations().CreateInvitation(ctx, first))

	err := s.Invitations().CreateInvitation(ctx, newInvitation(tenant.ID, admin.ID, "bob@example.com", expires))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// Once the first is no longer pending another may be issued.
	require.NoError(t, s.Invitations().MarkInvitationExpired(ctx, first.ID))
	require.NoError(t, s.Invitations().CreateInvitation(ctx, newInvitation(tenant.ID, admin.ID, "bob@example.com", expires)))

	pending, err := s.Invitations().ListPendingInvitations(ctx, tenant.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.NotEqual(t, first.ID, pending[0].ID)
}

func TestMarkInvitationAcceptedIsConditional(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	tenant := seedTenant(t, s, "acme")
	admin := seedUser(t, s, tenant.ID, "admin@example.com")
	bob := seedUser(t, s, tenant.ID, "bob@example.com")

	inv := newInvitation(tenant.ID, admin.ID, "bob@example.com", time.Now().Add(time.Hour))
	require.NoError(t, s.Invitations().CreateInvitation(ctx, inv))

	at := time.Now()
	require.NoError(t, s.Invitations().MarkInvitationAccepted(ctx, inv.ID, bob.ID, at))
	require.ErrorIs(t, s.Invitations().MarkInvitationAccepted(ctx, inv.ID, bob.ID, at), store.ErrConflict)

	got, err := s.Invitations().GetInvitationByTokenHash(ctx, inv.TokenHash)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationAccepted, got.Status)
	require.Equal(t, bob.ID, got.AcceptedBy)
	require.NotNil(t, got.AcceptedAt)
}

func TestExpirePendingInvitations(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	tenant := seedTenant(t, s, "acme")
	admin := seedUser(t, s, tenant.ID, "admin@example.com")

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stale := newInvitation(tenant.ID, admin.ID, "old@example.com", now.Add(-time.Second))
	fresh := newInvitation(tenant.ID, admin.ID, "new@example.com", now.Add(time.Hour))
	require.NoError(t, s.Invitations().CreateInvitation(ctx, stale))
	require.NoError(t, s.Invitations().CreateInvitation(ctx, fresh))

	n, err := s.Invitations().ExpirePendingInvitations(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	got, err := s.Invitations().GetInvitationByID(ctx, stale.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationExpired, got.Status)

	_, err = s.Invitations().GetPendingInvitation(ctx, "new@example.com", tenant.ID)
	require.NoError(t, err)
}

func TestPermissionsGrantIsIdempotent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	tenant := seedTenant(t, s, "acme")
	u := seedUser(t, s, tenant.ID, "alice@example.com")

	p := domain.DefaultPermission(u.ID, tenant.ID)
	require.NoError(t, s.Permissions().GrantPermission(ctx, p))
	require.NoError(t, s.Permissions().GrantPermission(ctx, p))

	perms, err := s.Permissions().ListPermissions(ctx, u.ID, tenant.ID)
	require.NoError(t, err)
	require.Equal(t, []domain.Permission{p}, perms)
}

func TestWithTxRollsBack(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	tenant := seedTenant(t, s, "acme")

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, domain.User{
			ID: idx.New().String(), Email: "ghost@example.com", Name: "Ghost", TenantID: tenant.ID,
			Role: domain.RoleUser, Status: domain.UserActive, Provider: domain.ProviderCredentials,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Users().GetUserByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}
