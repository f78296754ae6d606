package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/audit"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

type DecisionReason string

const (
	ReasonNone            DecisionReason = ""
	ReasonUnauthenticated DecisionReason = "unauthenticated"
	ReasonForbidden       DecisionReason = "forbidden"
)

type Decision struct {
	Allowed bool
	Reason  DecisionReason
}

// Err maps a refusal onto ErrUnauthenticated or ErrForbidden.
func (d Decision) Err() error {
	switch d.Reason {
	case ReasonUnauthenticated:
		return ErrUnauthenticated
	case ReasonForbidden:
		return ErrForbidden
	}
	return nil
}

// Authorize decides whether p may proceed. With no required roles any
// authenticated principal is allowed.
func Authorize(p *domain.Principal, required ...domain.Role) Decision {
	if p == nil || p.UserID == "" {
		return Decision{Reason: ReasonUnauthenticated}
	}
	if len(required) > 0 && !slices.Contains(required, p.Role) {
		return Decision{Reason: ReasonForbidden}
	}
	return Decision{Allowed: true}
}

// AuthorizeTenant is Authorize plus the requirement that p belongs to
// tenantID.
func AuthorizeTenant(p *domain.Principal, tenantID string, required ...domain.Role) Decision {
	d := Authorize(p, required...)
	if !d.Allowed {
		return d
	}
	if p.TenantID != tenantID {
		return Decision{Reason: ReasonForbidden}
	}
	return d
}

// HasPermission reports whether p holds (resource, action) among grants.
// Admins hold every permission.
func HasPermission(p *domain.Principal, grants []domain.Permission, resource, action string) bool {
	if p == nil {
		return false
	}
	if p.Role == domain.RoleAdmin {
		return true
	}
	return slices.ContainsFunc(grants, func(g domain.Permission) bool {
		return g.UserID == p.UserID && g.TenantID == p.TenantID && g.Resource == resource && g.Action == action
	})
}

// requireActor loads the acting user and checks they are an active member of
// tenantID holding one of roles. Refusals are logged and audited.
func requireActor(ctx context.Context, users store.Users, al *audit.Logger, actorID, tenantID, resource string, roles ...domain.Role) (domain.User, error) {
	log := slogx.FromContext(ctx)

	actor, err := users.GetUserByID(ctx, actorID)
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("unknown actor attempted privileged operation", slog.String("actor_id", actorID))
		return domain.User{}, ErrForbidden
	}
	if err != nil {
		log.Error("failed to load actor", slog.Any("error", err))
		return domain.User{}, unavailable(err)
	}

	d := AuthorizeTenant(Principal(actor), tenantID, roles...)
	if d.Allowed && actor.Status != domain.UserActive {
		d = Decision{Reason: ReasonForbidden}
	}
	if !d.Allowed {
		log.Warn("authorization denied",
			slog.String("user_id", actor.ID),
			slog.String("role", string(actor.Role)),
			slog.Any("required_roles", roles),
			slog.String("tenant_id", tenantID),
			slog.String("resource", resource),
		)
		al.LogDenied(ctx, tenantID, actor.ID, resource, "role "+string(actor.Role)+" not permitted")
		return domain.User{}, ErrForbidden
	}
	return actor, nil
}
