package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/audit"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/identity"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/observability/metrics"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

type InviteRequest struct {
	Email     string      `json:"email" validate:"required,email,max=254"`
	TenantID  string      `json:"tenantId" validate:"required"`
	Role      domain.Role `json:"role" validate:"required,role"`
	InviterID string      `json:"-" validate:"required"`
}

// InvitationHandle carries the raw token. It is only ever returned here.
type InvitationHandle struct {
	InvitationID string
	Token        string
	ExpiresAt    time.Time
}

// AcceptRequest redeems an invitation either with a password or with an
// identity from an external provider.
type AcceptRequest struct {
	Token    string             `json:"token" validate:"required"`
	Name     string             `json:"name" validate:"required,min=2,max=100"`
	Password string             `json:"password" validate:"omitempty,min=8,max=128"`
	Identity *identity.Identity `json:"-"`
}

type InvitationService struct {
	Store  store.Store
	Hasher cryptox.Hasher
	Audit  *audit.Logger

	TTL      time.Duration
	Now      func() time.Time
	NewToken TokenFunc
}

func (s *InvitationService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultInvitationTTL
	}
	return s.TTL
}

// Invite issues an invitation for email to join a tenant with a role. Only an
// active admin of that tenant may invite.
func (s *InvitationService) Invite(ctx context.Context, req InviteRequest) (InvitationHandle, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	if err := validateStruct(req); err != nil {
		return InvitationHandle{}, err
	}
	email := domain.NormalizeEmail(req.Email)

	// 2. The tenant may be named by subdomain or id. Nobody administers a
	// tenant that does not exist.
	tenant, err := lookupTenant(ctx, s.Store.Tenants(), req.TenantID)
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("invitation for unknown tenant refused", slog.String("tenant", req.TenantID))
		return InvitationHandle{}, ErrForbidden
	}
	if err != nil {
		log.Error("failed to look up tenant", slog.Any("error", err))
		return InvitationHandle{}, unavailable(err)
	}
	tenantID := tenant.ID

	// 3. The inviter must be an admin of the tenant.
	inviter, err := requireActor(ctx, s.Store.Users(), s.Audit, req.InviterID, tenantID, "invitation", domain.RoleAdmin)
	if err != nil {
		return InvitationHandle{}, err
	}

	// 4. Existing accounts cannot be invited.
	_, err = s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		log.Warn("invitation for existing account refused", slog.String("email", email))
		return InvitationHandle{}, ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check email availability", slog.Any("error", err))
		return InvitationHandle{}, unavailable(err)
	}

	// 5. Generate the token.
	token, err := tokenOr(s.NewToken)()
	if err != nil {
		log.Error("failed to generate invitation token", slog.Any("error", err))
		return InvitationHandle{}, unavailable(err)
	}

	now := nowOr(s.Now)
	inv := domain.Invitation{
		ID:        idx.NewAt(now).String(),
		Email:     email,
		TenantID:  tenantID,
		Role:      req.Role,
		TokenHash: cryptox.FingerprintToken(token),
		Status:    domain.InvitationPending,
		InvitedBy: inviter.ID,
		ExpiresAt: now.Add(s.ttl()),
	}

	// 6. Retire a stale pending invitation, refuse a live one, then insert.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Invitations().GetPendingInvitation(ctx, email, tenantID)
		switch {
		case err == nil && !existing.Expired(now):
			return ErrInvitationPending
		case err == nil:
			if err := tx.Invitations().MarkInvitationExpired(ctx, existing.ID); err != nil {
				return err
			}
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		if err := tx.Invitations().CreateInvitation(ctx, inv); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrInvitationPending
			}
			return err
		}
		return nil
	})
	if errors.Is(err, ErrInvitationPending) {
		log.Warn("invitation already pending",
			slog.String("email", email),
			slog.String("tenant_id", tenantID),
		)
		return InvitationHandle{}, err
	}
	if err != nil {
		log.Error("failed to create invitation", slog.Any("error", err))
		return InvitationHandle{}, unavailable(err)
	}

	metrics.ObserveInvitation("issued")
	s.Audit.LogAction(ctx, tenantID, inviter.ID, audit.ActionInvite, "invitation", inv.ID, audit.StatusSuccess, "role="+string(req.Role))
	log.Info("invitation issued",
		slog.String("invitation_id", inv.ID),
		slog.String("tenant_id", tenantID),
		slog.String("role", string(req.Role)),
		slog.Time("expires_at", inv.ExpiresAt),
	)

	return InvitationHandle{InvitationID: inv.ID, Token: token, ExpiresAt: inv.ExpiresAt}, nil
}

// Accept redeems an invitation token and creates the invited user. Of any
// number of concurrent accepts for one invitation exactly one succeeds.
func (s *InvitationService) Accept(ctx context.Context, req AcceptRequest) (domain.SanitizedUser, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input. A password is needed unless an identity vouches.
	if err := validateStruct(req); err != nil {
		return domain.SanitizedUser{}, err
	}
	if req.Password == "" && req.Identity == nil {
		return domain.SanitizedUser{}, invalid("password", "is required")
	}

	// 2. Find the invitation by fingerprint.
	inv, err := s.Store.Invitations().GetInvitationByTokenHash(ctx, cryptox.FingerprintToken(req.Token))
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("invitation accept with unknown token")
		return domain.SanitizedUser{}, ErrInvitationNotFound
	}
	if err != nil {
		log.Error("failed to load invitation", slog.Any("error", err))
		return domain.SanitizedUser{}, unavailable(err)
	}

	// 3. State checks outside the transaction give precise errors; the
	// conditional update below is what actually decides the race.
	now := nowOr(s.Now)
	switch {
	case inv.Status == domain.InvitationAccepted:
		log.Warn("invitation already accepted", slog.String("invitation_id", inv.ID))
		return domain.SanitizedUser{}, ErrInvitationAlreadyUsed
	case inv.Status == domain.InvitationExpired || inv.Expired(now):
		if inv.Status == domain.InvitationPending {
			if err := s.Store.Invitations().MarkInvitationExpired(ctx, inv.ID); err != nil {
				log.Warn("failed to mark invitation expired", slog.Any("error", err))
			}
		}
		return domain.SanitizedUser{}, ErrInvitationExpired
	}

	if req.Identity != nil && req.Identity.Email != inv.Email {
		log.Warn("invitation accept with mismatched identity",
			slog.String("invitation_id", inv.ID),
			slog.String("identity_email", req.Identity.Email),
		)
		return domain.SanitizedUser{}, ErrForbidden
	}

	// 4. Build the user outside the transaction; hashing is slow.
	user := domain.User{
		ID:       idx.NewAt(now).String(),
		Email:    inv.Email,
		Name:     req.Name,
		TenantID: inv.TenantID,
		Role:     inv.Role,
		Status:   domain.UserActive,
		Provider: domain.ProviderCredentials,
	}
	if req.Identity != nil {
		user.Provider = req.Identity.Kind.Provider()
		user.ExternalID = req.Identity.ExternalID
	}
	if req.Password != "" {
		hash, err := s.Hasher.Hash(req.Password)
		if err != nil {
			log.Error("failed to hash password", slog.Any("error", err))
			return domain.SanitizedUser{}, unavailable(err)
		}
		user.PasswordHash = hash
	}

	// 5. Claim the invitation, then create the user and default grant.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Invitations().MarkInvitationAccepted(ctx, inv.ID, user.ID, now); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrInvitationAlreadyUsed
			}
			return err
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}
		return tx.Permissions().GrantPermission(ctx, domain.DefaultPermission(user.ID, user.TenantID))
	})
	switch {
	case errors.Is(err, ErrInvitationAlreadyUsed), errors.Is(err, ErrEmailTaken):
		log.Warn("invitation accept lost", slog.String("invitation_id", inv.ID), slog.Any("error", err))
		return domain.SanitizedUser{}, err
	case err != nil:
		log.Error("failed to accept invitation", slog.String("invitation_id", inv.ID), slog.Any("error", err))
		return domain.SanitizedUser{}, unavailable(err)
	}

	metrics.ObserveInvitation("accepted")
	s.Audit.LogAction(ctx, inv.TenantID, user.ID, audit.ActionInviteAccept, "invitation", inv.ID, audit.StatusSuccess, "")
	log.Info("invitation accepted",
		slog.String("invitation_id", inv.ID),
		slog.String("user_id", user.ID),
		slog.String("tenant_id", inv.TenantID),
		slog.String("role", string(inv.Role)),
	)

	user.CreatedAt = now
	return user.Sanitize(), nil
}

// ListPending returns the tenant's outstanding invitations. Admin only.
func (s *InvitationService) ListPending(ctx context.Context, actorID, tenantID string) ([]domain.Invitation, error) {
	if _, err := requireActor(ctx, s.Store.Users(), s.Audit, actorID, tenantID, "invitation", domain.RoleAdmin); err != nil {
		return nil, err
	}

	invs, err := s.Store.Invitations().ListPendingInvitations(ctx, tenantID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list invitations", slog.Any("error", err))
		return nil, unavailable(err)
	}

	now := nowOr(s.Now)
	live := invs[:0]
	for _, inv := range invs {
		if !inv.Expired(now) {
			live = append(live, inv)
		}
	}
	return live, nil
}

// Revoke withdraws a pending invitation. Revoking an already expired
// invitation succeeds; an accepted one cannot be revoked.
func (s *InvitationService) Revoke(ctx context.Context, actorID, invitationID string) error {
	log := slogx.FromContext(ctx)

	inv, err := s.Store.Invitations().GetInvitationByID(ctx, invitationID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvitationNotFound
	}
	if err != nil {
		log.Error("failed to load invitation", slog.Any("error", err))
		return unavailable(err)
	}

	actor, err := requireActor(ctx, s.Store.Users(), s.Audit, actorID, inv.TenantID, "invitation", domain.RoleAdmin)
	if err != nil {
		return err
	}

	switch inv.Status {
	case domain.InvitationAccepted:
		return ErrInvitationAlreadyUsed
	case domain.InvitationExpired:
		return nil
	}

	if err := s.Store.Invitations().MarkInvitationExpired(ctx, inv.ID); err != nil {
		log.Error("failed to revoke invitation", slog.Any("error", err))
		return unavailable(err)
	}

	metrics.ObserveInvitation("revoked")
	s.Audit.LogAction(ctx, inv.TenantID, actor.ID, audit.ActionInviteRevoke, "invitation", inv.ID, audit.StatusSuccess, "")
	log.Info("invitation revoked", slog.String("invitation_id", inv.ID))
	return nil
}
