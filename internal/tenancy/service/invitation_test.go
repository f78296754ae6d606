package service_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/identity"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func (f *fixture) invite(admin domain.User, email string, role domain.Role) service.InvitationHandle {
	f.t.Helper()
	h, err := f.invitations.Invite(f.ctx, service.InviteRequest{
		Email: email, TenantID: admin.TenantID, Role: role, InviterID: admin.ID,
	})
	require.NoError(f.t, err)
	return h
}

func TestInviteAndAccept(t *testing.T) {
	f := newFixture(t)
	acme := f.tenant("acme")
	admin := f.user(acme, "admin@example.com", domain.RoleAdmin)

	h := f.invite(admin, "New.Hire@Example.com", domain.RoleManager)
	require.NotEmpty(t, h.Token)
	require.Equal(t, f.clock.Now().Add(service.DefaultInvitationTTL), h.ExpiresAt)

	stored, err := f.store.Invitations().GetInvitationByID(f.ctx, h.InvitationID)
	require.NoError(t, err)
	require.Equal(t, "new.hire@example.com", stored.Email)
	require.Equal(t, cryptox.FingerprintToken(h.Token), stored.TokenHash)
	require.Equal(t, domain.InvitationPending, stored.Status)

	user, err := f.invitations.Accept(f.ctx, service.AcceptRequest{Token: h.Token, Name: "New Hire", Password: "a-new-password"})
	require.NoError(t, err)
	require.Equal(t, "new.hire@example.com", user.Email)
	require.Equal(t, acme.ID, user.TenantID)
	require.Equal(t, domain.RoleManager, user.Role)
	require.Equal(t, domain.UserActive, user.Status)

	stored, err = f.store.Invitations().GetInvitationByID(f.ctx, h.InvitationID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationAccepted, stored.Status)
	require.Equal(t, user.ID, stored.AcceptedBy)

	perms, err := f.store.Permissions().ListPermissions(f.ctx, user.ID, acme.ID)
	require.NoError(t, err)
	require.Equal(t, []domain.Permission{domain.DefaultPermission(user.ID, acme.ID)}, perms)

	// The new account can sign in to its tenant with the chosen password.
	got, err := f.credentials.Verify(f.ctx, "new.hire@example.com", "a-new-password", "acme")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestInviteRefusals(t *testing.T) {
	f := newFixture(t)
	acme := f.tenant("acme")
	globex := f.tenant("globex")
	admin := f.user(acme, "admin@example.com", domain.RoleAdmin)
	manager := f.user(acme, "manager@example.com", domain.RoleManager)
	outsider := f.user(globex, "outsider@example.com", domain.RoleAdmin)

	f.invite(admin, "pending@example.com", domain.RoleUser)

	tests := []struct {
		name string
		req  service.InviteRequest
		want error
	}{
		{
			name: "non-admin inviter",
			req:  service.InviteRequest{Email: "x@example.com", TenantID: acme.ID, Role: domain.RoleUser, InviterID: manager.ID},
			want: service.ErrForbidden,
		},
		{
			name: "admin of another tenant",
			req:  service.InviteRequest{Email: "x@example.com", TenantID: acme.ID, Role: domain.RoleUser, InviterID: outsider.ID},
			want: service.ErrForbidden,
		},
		{
			name: "unknown inviter",
			req:  service.InviteRequest{Email: "x@example.com", TenantID: acme.ID, Role: domain.RoleUser, InviterID: "missing"},
			want: service.ErrForbidden,
		},
		{
			name: "unknown tenant",
			req:  service.InviteRequest{Email: "x@example.com", TenantID: "initech", Role: domain.RoleUser, InviterID: admin.ID},
			want: service.ErrForbidden,
		},
		{
			name: "admin of another tenant by subdomain",
			req:  service.InviteRequest{Email: "x@example.com", TenantID: "acme", Role: domain.RoleUser, InviterID: outsider.ID},
			want: service.ErrForbidden,
		},
		{
			name: "email registered in any tenant",
			req:  service.InviteRequest{Email: "Outsider@example.com", TenantID: acme.ID, Role: domain.RoleUser, InviterID: admin.ID},
			want: service.ErrEmailTaken,
		},
		{
			name: "live invitation pending",
			req:  service.InviteRequest{Email: "pending@example.com", TenantID: acme.ID, Role: domain.RoleAdmin, InviterID: admin.ID},
			want: service.ErrInvitationPending,
		},
		{
			name: "unknown role",
			req:  service.InviteRequest{Email: "x@example.com", TenantID: acme.ID, Role: "owner", InviterID: admin.ID},
			want: service.ErrValidation,
		},
		{
			name: "malformed email",
			req:  service.InviteRequest{Email: "not-an-email", TenantID: acme.ID, Role: domain.RoleUser, InviterID: admin.ID},
			want: service.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.invitations.Invite(f.ctx, tt.req)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestInviteNamesTenantBySubdomain(t *testing.T) {
	f := newFixture(t)
	acme := f.tenant("acme")
	admin := f.user(acme, "admin@example.com", domain.RoleAdmin)

	h, err := f.invitations.Invite(f.ctx, service.InviteRequest{
		Email: "sub@example.com", TenantID: "ACME", Role: domain.RoleUser, InviterID: admin.ID,
	})
	require.NoError(t, err)

	stored, err := f.store.Invitations().GetInvitationByID(f.ctx, h.InvitationID)
	require.NoError(t, err)
	require.Equal(t, acme.ID, stored.TenantID)

	// The subdomain and the id name the same pending invitation.
	_, err = f.invitations.Invite(f.ctx, service.InviteRequest{
		Email: "sub@example.com", TenantID: acme.ID, Role: domain.RoleUser, InviterID: admin.ID,
	})
	require.ErrorIs(t, err, service.ErrInvitationPending)
}

func TestInviteReplacesStalePendingInvitation(t *testing.T) {
	f := newFixture(t)
	acme := f.tenant("acme")
	admin := f.user(acme, "admin@example.com", domain.RoleAdmin)

	old := f.invite(admin, "late@example.com", domain.RoleUser)
	f.clock.Advance(service.DefaultInvitationTTL + time.Minute)
	fresh := f.invite(admin, "late@example.com", domain.RoleManager)

	stale, err := f.store.Invitations().GetInvitationByID(f.ctx, old.InvitationID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationExpired, stale.Status)

	_, err = f.invitations.Accept(f.ctx, service.AcceptRequest{Token: old.Token, Name: "Late", Password: "a-new-password"})
	require.ErrorIs(t, err, service.ErrInvitationExpired)

	user, err := f.invitations.Accept(f.ctx, service.AcceptRequest{Token: fresh.Token, Name: "Late", Password: "a-new-password"})
	require.NoError(t, err)
	require.Equal(t, domain.RoleManager, user.Role)
}

func TestAcceptRefusals(t *testing.T) {
	f := newFixture(t)
	acme := f.tenant("acme")
	admin := f.user(acme, "admin@example.com", domain.RoleAdmin)

	t.Run("unknown token", func(t *testing.T) {
		_, err := f.invitations.Accept(f.ctx, service.AcceptRequest{Token: "bogus", Name: "Nobody", Password: "a-new-password"})
		require.ErrorIs(t, err, service.ErrInvitationNotFound)
	})

	t.Run("password required without identity", func(t *testing.T) {
		h := f.invite(admin, "nopass@example.com", domain.RoleUser)
		_, err := f.invitations.Accept(f.ctx, service.AcceptRequest{Token: h.Token, Name: "No Pass"})

		var verr *service.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "password", verr.Field)
	})

	t.Run("short password", func(t *testing.T) {
		h := f.invite(admin, "short@example.com", domain.RoleUser)
		_, err := f.invitations.Accept(f.ctx, service.AcceptRequest{Token: h.Token, Name: "Short", Password: "short"})

		var verr *service.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "password", verr.Field)
		require.Equal(t, "must be at least 8 characters", verr.Message)
	})

	t.Run("already used", func(t *testing.T) {
		h := f.invite(admin, "twice@example.com", domain.RoleUser)
		_, err := f.invitations.Accept(f.ctx, service.AcceptRequest{Token: h.Token, Name: "Twice", Password: "a-new-password"})
		require.NoError(t, err)

		_, err = f.invitations.Accept(f.ctx, service.AcceptRequest{Token: h.Token, Name: "Twice", Password: "a-new-password"})
		require.ErrorIs(t, err, service.ErrInvitationAlreadyUsed)
	})

	t.Run("identity for a different email", func(t *testing.T) {
		h := f.invite(admin, "sso@example.com", domain.RoleUser)
		id, err := identity.New(identity.KindOIDC, "someone-else@example.com", "", "sub-9")
		require.NoError(t, err)

		_, err = f.invitations.Accept(f.ctx, service.AcceptRequest{Token: h.Token, Name: "SSO", Identity: &id})
		require.ErrorIs(t, err, service.ErrForbidden)
	})
}

func TestAcceptExpiresAtDeadline(t *testing.T) {
	f := newFixture(t)
	f.invitations.TTL = time.Hour
	acme := f.tenant("acme")
	admin := f.user(acme, "admin@example.com", domain.RoleAdmin)

	h := f.invite(admin, "slow@example.com", domain.RoleUser)
	f.clock.Advance(time.Hour)

	_, err := f.invitations.Accept(f.ctx, service.AcceptRequest{Token: h.Token, Name: "Slow", Password: "a-new-password"})
	require.ErrorIs(t, err, service.ErrInvitationExpired)

	stored, err := f.store.Invitations().GetInvitationByID(f.ctx, h.InvitationID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationExpired, stored.Status)
	require.Equal(t, 1, f.countUsers(acme.ID))
}

func TestAcceptWithIdentity(t *testing.T) {
	f := newFixture(t)
	acme := f.tenant("acme")
	admin := f.user(acme, "admin@example.com", domain.RoleAdmin)

	h := f.invite(admin, "sso@example.com", domain.RoleUser)
	id, err := identity.New(identity.KindOIDC, "SSO@example.com", "Single Sign", "sub-1")
	require.NoError(t, err)

	user, err := f.invitations.Accept(f.ctx, service.AcceptRequest{Token: h.Token, Name: "Single Sign", Identity: &id})
	require.NoError(t, err)
	require.Equal(t, domain.ProviderOIDC, user.Provider)

	stored, err := f.store.Users().GetUserByID(f.ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, stored.PasswordHash)
	require.Equal(t, "sub-1", stored.ExternalID)
}

func TestConcurrentAcceptCreatesOneUser(t *testing.T) {
	f := newFixture(t)
	acme := f.tenant("acme")
	admin := f.user(acme, "admin@example.com", domain.RoleAdmin)
	h := f.invite(admin, "race@example.com", domain.RoleUser)

	const racers = 4
	errs := make([]error, racers)

	var wg sync.WaitGroup
	for i := range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.invitations.Accept(f.ctx, service.AcceptRequest{Token: h.Token, Name: "Racer", Password: "a-new-password"})
		}()
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		require.True(t, errors.Is(err, service.ErrInvitationAlreadyUsed), "unexpected error: %v", err)
	}
	require.Equal(t, 1, won)
	require.Equal(t, 2, f.countUsers(acme.ID))
}

func TestInviteTokenFailureIsUnavailable(t *testing.T) {
	f := newFixture(t)
	acme := f.tenant("acme")
	admin := f.user(acme, "admin@example.com", domain.RoleAdmin)
	f.invitations.NewToken = func() (string, error) { return "", errors.New("entropy exhausted") }

	_, err := f.invitations.Invite(f.ctx, service.InviteRequest{Email: "x@example.com", TenantID: acme.ID, Role: domain.RoleUser, InviterID: admin.ID})
	require.ErrorIs(t, err, service.ErrUnavailable)
}

func TestListAndRevokeInvitations(t *testing.T) {
	f := newFixture(t)
	acme := f.tenant("acme")
	admin := f.user(acme, "admin@example.com", domain.RoleAdmin)
	user := f.user(acme, "user@example.com", domain.RoleUser)

	first := f.invite(admin, "one@example.com", domain.RoleUser)
	second := f.invite(admin, "two@example.com", domain.RoleUser)

	pending, err := f.invitations.ListPending(f.ctx, admin.ID, acme.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	_, err = f.invitations.ListPending(f.ctx, user.ID, acme.ID)
	require.ErrorIs(t, err, service.ErrForbidden)
	require.ErrorIs(t, f.invitations.Revoke(f.ctx, user.ID, first.InvitationID), service.ErrForbidden)

	require.NoError(t, f.invitations.Revoke(f.ctx, admin.ID, first.InvitationID))
	require.NoError(t, f.invitations.Revoke(f.ctx, admin.ID, first.InvitationID), "revoking twice is fine")

	_, err = f.invitations.Accept(f.ctx, service.AcceptRequest{Token: first.Token, Name: "One", Password: "a-new-password"})
	require.ErrorIs(t, err, service.ErrInvitationExpired)

	_, err = f.invitations.Accept(f.ctx, service.AcceptRequest{Token: second.Token, Name: "Two", Password: "a-new-password"})
	require.NoError(t, err)
	require.ErrorIs(t, f.invitations.Revoke(f.ctx, admin.ID, second.InvitationID), service.ErrInvitationAlreadyUsed)

	require.ErrorIs(t, f.invitations.Revoke(f.ctx, admin.ID, "missing"), service.ErrInvitationNotFound)

	pending, err = f.invitations.ListPending(f.ctx, admin.ID, acme.ID)
	require.NoError(t, err)
	require.Empty(t, pending)
}
