package http

import (
	"context"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
)

type ctxKey int

const (
	ctxKeySession ctxKey = iota
	ctxKeyTenant
)

func withSession(ctx context.Context, v service.Validation) context.Context {
	return context.WithValue(ctx, ctxKeySession, v)
}

// SessionFromContext returns the validated session attached by the session
// middleware. The zero Validation means none.
func SessionFromContext(ctx context.Context) service.Validation {
	v, _ := ctx.Value(ctxKeySession).(service.Validation)
	return v
}

// PrincipalFromContext returns the authenticated principal, or nil.
func PrincipalFromContext(ctx context.Context) *domain.Principal {
	return SessionFromContext(ctx).Principal()
}

func withTenant(ctx context.Context, res service.Resolution) context.Context {
	return context.WithValue(ctx, ctxKeyTenant, res)
}

// TenantFromContext returns the resolution made by TenantMiddleware.
func TenantFromContext(ctx context.Context) service.Resolution {
	res, _ := ctx.Value(ctxKeyTenant).(service.Resolution)
	return res
}
