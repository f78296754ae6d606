package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/observability/metrics"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

// Credential failure reasons. They are logged and counted, never returned.
const (
	reasonMissingFields  = "missing_fields"
	reasonUnknownTenant  = "unknown_tenant"
	reasonUnknownUser    = "unknown_user"
	reasonTenantMismatch = "tenant_mismatch"
	reasonNoPassword     = "no_password"
	reasonWrongPassword  = "wrong_password"
	reasonInactiveUser   = "inactive_user"
	reasonTenantUnusable = "tenant_unusable"
)

type CredentialService struct {
	Store  store.Store
	Hasher cryptox.Hasher
	Now    func() time.Time

	dummyOnce sync.Once
	dummy     string
}

// Verify checks an email and password against the user's stored hash and
// tenant. Every rejection returns (nil, nil) so callers cannot tell why;
// only a storage failure returns an error (ErrUnavailable).
func (s *CredentialService) Verify(ctx context.Context, email, password, tenantRef string) (*domain.SanitizedUser, error) {
	log := slogx.FromContext(ctx)
	email = domain.NormalizeEmail(email)

	// 1. Missing input fails before any lookup.
	if email == "" || password == "" || tenantRef == "" {
		s.fail(ctx, reasonMissingFields, email, tenantRef)
		return nil, nil
	}

	// 2. Resolve the tenant.
	tenant, err := lookupTenant(ctx, s.Store.Tenants(), tenantRef)
	if errors.Is(err, store.ErrNotFound) {
		s.burn(password)
		s.fail(ctx, reasonUnknownTenant, email, tenantRef)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load tenant for credential check", slog.Any("error", err))
		return nil, unavailable(err)
	}

	// 3. Load the user.
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		s.burn(password)
		s.fail(ctx, reasonUnknownUser, email, tenantRef)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load user for credential check", slog.Any("error", err))
		return nil, unavailable(err)
	}

	// 4. The user must belong to the tenant being signed in to.
	if user.TenantID != tenant.ID {
		s.burn(password)
		s.fail(ctx, reasonTenantMismatch, email, tenantRef)
		return nil, nil
	}

	// 5. Check the password.
	if user.PasswordHash == "" {
		s.burn(password)
		s.fail(ctx, reasonNoPassword, email, tenantRef)
		return nil, nil
	}
	if !s.Hasher.Verify(password, user.PasswordHash) {
		s.fail(ctx, reasonWrongPassword, email, tenantRef)
		return nil, nil
	}

	// 6. Account and tenant state.
	if user.Status != domain.UserActive {
		s.fail(ctx, reasonInactiveUser, email, tenantRef)
		return nil, nil
	}
	if !tenant.Usable(nowOr(s.Now)) {
		s.fail(ctx, reasonTenantUnusable, email, tenantRef)
		return nil, nil
	}

	// 7. Upgrade legacy or outdated hashes while the plaintext is at hand.
	if s.Hasher.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user.ID, password)
	}

	sanitized := user.Sanitize()
	return &sanitized, nil
}

func (s *CredentialService) fail(ctx context.Context, reason, email, tenantRef string) {
	slogx.FromContext(ctx).Warn("credential verification failed",
		slog.String("reason", reason),
		slog.String("email", email),
		slog.String("tenant", tenantRef),
	)
	metrics.ObserveCredentialFailure(reason)
}

// burn runs a verification against a throwaway hash so the paths that never
// reach a real hash take about as long as the ones that do.
func (s *CredentialService) burn(password string) {
	s.dummyOnce.Do(func() {
		s.dummy, _ = s.Hasher.Hash("tenancy-timing-equaliser")
	})
	_ = s.Hasher.Verify(password, s.dummy)
}

func (s *CredentialService) rehash(ctx context.Context, userID, password string) {
	log := slogx.FromContext(ctx)

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		log.Warn("failed to rehash password", slog.String("user_id", userID), slog.Any("error", err))
		return
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		log.Warn("failed to store upgraded password hash", slog.String("user_id", userID), slog.Any("error", err))
		return
	}
	log.Info("upgraded password hash", slog.String("user_id", userID))
}
