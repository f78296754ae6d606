package http

import (
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/observability/metrics"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
)

// tenantExempt lists paths that are never tenant scoped.
var tenantExempt = map[string]bool{
	"/":            true,
	"/login":       true,
	"/register":    true,
	"/livez":       true,
	"/readyz":      true,
	"/metrics":     true,
	"/favicon.ico": true,
}

var tenantExemptPrefixes = []string{"/v1/", "/api/", "/swagger/"}

func isTenantExempt(p string) bool {
	if tenantExempt[p] {
		return true
	}
	for _, prefix := range tenantExemptPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	// Static assets.
	return strings.Contains(path.Base(p), ".")
}

// TenantMiddleware resolves the tenant of every page request. Requests with
// no tenant, or for the www host, are sent to the landing page. A tenant
// found in the host or path is pinned into the signed tenant cookie and
// echoed in the x-tenant-id header.
func TenantMiddleware(cookies *Cookies) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isTenantExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			res := service.ResolveTenant(service.RequestInfo{
				Host:         r.Host,
				Path:         r.URL.Path,
				CookieTenant: cookies.Tenant(r),
			})
			if !res.Found() || res.TenantID == "www" {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			if res.Source != service.SourceCookie {
				if err := cookies.SetTenant(w, res.TenantID); err != nil {
					slogx.FromContext(r.Context()).Error("failed to sign tenant cookie", slog.Any("error", err))
				}
			}
			w.Header().Set(TenantHeader, res.TenantID)

			ctx := withTenant(r.Context(), res)
			ctx = slogx.With(ctx, "tenant", res.TenantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireSession rejects requests without a live session and attaches the
// validated session to the context.
func (r *Router) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		v, err := r.SessionService.Validate(ctx, sessionToken(req))
		if err != nil {
			writeServiceError(w, req, err)
			return
		}
		if !v.Valid {
			writeError(w, http.StatusUnauthorized, tenancysdk.ErrorCodeUnauthenticated, "Authentication required")
			return
		}

		ctx = withSession(ctx, v)
		ctx = httpx.WithSubject(ctx, v.UserID)
		ctx = slogx.With(ctx, "user_id", v.UserID, "tenant_id", v.TenantID)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// requireRole refuses sessions whose role is not among roles. It must run
// after requireSession.
func (r *Router) requireRole(roles ...domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			p := PrincipalFromContext(req.Context())
			if d := service.Authorize(p, roles...); !d.Allowed {
				if d.Reason == service.ReasonForbidden {
					r.logDenied(req, p, roles)
				}
				writeServiceError(w, req, d.Err())
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func (r *Router) logDenied(req *http.Request, p *domain.Principal, roles []domain.Role) {
	required := make([]string, len(roles))
	for i, role := range roles {
		required[i] = string(role)
	}
	slogx.FromContext(req.Context()).Warn("access denied",
		slog.String("user_id", p.UserID),
		slog.String("role", string(p.Role)),
		slog.String("required", strings.Join(required, ",")),
		slog.String("path", req.URL.Path),
	)
	r.Audit.LogDenied(req.Context(), p.TenantID, p.UserID, req.URL.Path, "role")
}

// timeout bounds the time a handler may take before the client gets a 503.
func timeout(d time.Duration) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.TimeoutHandler(next, d, `{"error":"temporarily_unavailable","error_description":"Request timed out"}`)
	}
}

// limit builds a rate limit middleware that reports rejections to metrics.
func (r *Router) limit(cfg httpx.RateLimitConfig, key httpx.KeyExtractor) httpx.Middleware {
	rl := httpx.NewRateLimiter(cfg)
	rl.OnReject = func(_ *http.Request, c httpx.RateLimitConfig) {
		metrics.ObserveRateLimitRejection(c.Name)
	}
	return rl.Middleware(key)
}

func clientMeta(req *http.Request) service.ClientMeta {
	return service.ClientMeta{
		IPAddress: httpx.IPKeyExtractor(req),
		UserAgent: req.UserAgent(),
	}
}
