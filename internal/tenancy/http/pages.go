package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/audit"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
)

// pageRoles maps every guarded tenant page to the roles allowed to view it.
// A nil entry admits any member of the tenant.
var pageRoles = map[string][]domain.Role{
	"dashboard":       nil,
	"projects":        nil,
	"profile":         nil,
	"analytics":       nil,
	"protected":       nil,
	"team":            {domain.RoleAdmin, domain.RoleManager},
	"settings":        {domain.RoleAdmin, domain.RoleManager},
	"protected/admin": {domain.RoleAdmin},
}

// PagesHandler guards the tenant scoped pages. Browsers are redirected
// rather than sent error bodies: to the login page without a session, and to
// a dashboard they may see when the page is off limits.
type PagesHandler struct {
	TenantService  *service.TenantService
	SessionService *service.SessionService
	Audit          *audit.Logger
}

// ServeHTTP godoc
//
//	@Summary		Tenant Page
//	@Description	Guarded tenant page. Redirects to /login without a session and to the dashboard when the role is insufficient.
//	@Tags			Pages
//	@Produce		json
//	@Param			tenant	path		string						true	"Tenant subdomain"
//	@Param			page	path		string						true	"dashboard, projects, team, profile, settings, analytics, protected or protected/admin"
//	@Success		200		{object}	tenancysdk.PageResponse		"page the session may view"
//	@Success		303
//	@Failure		404		{object}	tenancysdk.ErrorResponse	"not_found"
//	@Router			/{tenant}/{page} [get].
func (h *PagesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	res, page := pageRoute(TenantFromContext(ctx), r.URL.Path)

	// 1. The route tenant must exist
	tenant, err := h.TenantService.Lookup(ctx, res.TenantID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	base := tenantBase(res, tenant)

	// 2. A bare tenant goes to its dashboard
	if page == "" {
		http.Redirect(w, r, base+"/dashboard", http.StatusSeeOther)
		return
	}
	roles, ok := pageRoles[page]
	if !ok {
		writeError(w, http.StatusNotFound, tenancysdk.ErrorCodeNotFound, "Page not found")
		return
	}

	// 3. Everything here needs a session
	v, err := h.SessionService.Validate(ctx, sessionToken(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	p := v.Principal()

	// 4. Role and tenant membership
	switch d := service.AuthorizeTenant(p, tenant.ID, roles...); d.Reason {
	case service.ReasonUnauthenticated:
		http.Redirect(w, r, "/login?tenant="+url.QueryEscape(tenant.Subdomain), http.StatusSeeOther)
		return
	case service.ReasonForbidden:
		h.Audit.LogDenied(ctx, tenant.ID, p.UserID, page, "page")
		log.Warn("page access denied",
			slog.String("user_id", p.UserID),
			slog.String("role", string(p.Role)),
			slog.String("page", page),
		)
		http.Redirect(w, r, h.dashboardFor(r, p, tenant, base), http.StatusSeeOther)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tenancysdk.PageResponse{
		Tenant:  toTenant(tenant, h.TenantService.URL(tenant)),
		Page:    page,
		Session: toSession(v),
	})
}

// pageRoute splits a request path into the tenant it is guarded by and the
// page it names. The tenant is always the one TenantMiddleware resolved.
// Under a subdomain or cookie the whole path is the page, with a leading
// segment naming that same tenant dropped, so a path naming some other
// tenant is not a page.
func pageRoute(res service.Resolution, path string) (service.Resolution, string) {
	path = strings.Trim(path, "/")
	first, rest, _ := strings.Cut(path, "/")

	switch res.Source {
	case service.SourceSubdomain, service.SourceCookie:
		if _, ok := pageRoles[path]; !ok && strings.EqualFold(first, res.TenantID) {
			path = rest
		}
		return res, strings.Trim(path, "/")
	default:
		return service.Resolution{TenantID: first, Source: service.SourcePath}, strings.Trim(rest, "/")
	}
}

// tenantBase is the prefix of the tenant's page links on this request.
// Subdomain hosts carry the tenant in the host, everything else in the
// first path segment.
func tenantBase(res service.Resolution, t domain.Tenant) string {
	if res.Source == service.SourceSubdomain {
		return ""
	}
	return "/" + t.Subdomain
}

// dashboardFor is where a refused principal is sent. Members of another
// tenant go to their own dashboard; sending them to the route tenant's
// dashboard would be refused again.
func (h *PagesHandler) dashboardFor(r *http.Request, p *domain.Principal, route domain.Tenant, base string) string {
	if p.TenantID == route.ID {
		return base + "/dashboard"
	}
	own, err := h.TenantService.Lookup(r.Context(), p.TenantID)
	if err != nil {
		return "/"
	}
	if base == "" {
		// Their dashboard lives on another host.
		return strings.TrimSuffix(h.TenantService.URL(own), "/") + "/dashboard"
	}
	return "/" + own.Subdomain + "/dashboard"
}

// LandingHandler godoc
//
//	@Summary		Landing Page
//	@Description	Describes the available sign-in methods. Also served at /login.
//	@Tags			Pages
//	@Produce		json
//	@Param			tenant	query		string						false	"Tenant the user was sent from"
//	@Success		200		{object}	tenancysdk.LandingResponse	"sign-in options"
//	@Router			/ [get].
func LandingHandler(version string, cookies *Cookies, oidc, demo bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := r.URL.Query().Get("tenant")
		if tenant == "" {
			tenant = cookies.Tenant(r)
		}
		httpx.WriteJSON(w, http.StatusOK, tenancysdk.LandingResponse{
			Service:       "tenancy",
			Version:       version,
			Tenant:        tenant,
			LoginEndpoint: "/v1/auth/login",
			OIDCEnabled:   oidc,
			DemoEnabled:   demo,
		})
	}
}
