package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/audit"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/identity"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/observability/metrics"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"

	_ "github.com/aussiebroadwan/tenancy/api/tenancy" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RateLimits are the limiter profiles applied per route group.
type RateLimits struct {
	Strict   httpx.RateLimitConfig
	Moderate httpx.RateLimitConfig
	Lenient  httpx.RateLimitConfig
	Public   httpx.RateLimitConfig
}

// DefaultRateLimits returns the stock httpx profiles.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Strict:   httpx.StrictLimit,
		Moderate: httpx.ModerateLimit,
		Lenient:  httpx.LenientLimit,
		Public:   httpx.PublicLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	cookies      *Cookies
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	AuthService       *service.AuthService
	SessionService    *service.SessionService
	InvitationService *service.InvitationService
	TenantService     *service.TenantService
	BootstrapService  *service.BootstrapService
	Audit             *audit.Logger

	OIDC IdentityProvider       // Optional: only when an issuer is configured
	Demo *identity.DemoProvider // Optional: never in prod

	// CachePing reports session cache health on /readyz when set.
	CachePing      func(ctx context.Context) error
	RequestTimeout time.Duration
	Limits         RateLimits
}

func NewRouter(
	cookies *Cookies,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		cookies:      cookies,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		Limits:       DefaultRateLimits(),
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		otelhttp.NewMiddleware("tenancy"),
		slogx.HTTPMiddleware(r.logger),
		TenantMiddleware(r.cookies),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerOIDC()
	r.registerProfile()
	r.registerInvitations()
	r.registerUsers()
	r.registerTenants()
	r.registerBootstrap()
	r.registerPages()
	r.registerSystem()

	// The mux records the matched pattern on the request it serves, so the
	// metrics layer has to sit directly above it.
	r.middlewares = append(r.middlewares,
		timeout(r.RequestTimeout),
		metrics.HTTPMetricsMiddleware,
	)

	r.Mux.Handle("GET /swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						Tenancy Service API
//	@version					0.1.0
//	@description				Tenant-aware authentication, session and authorization service.
//	@description
//	@description				Sessions are opaque bearer tokens, also delivered as the HttpOnly "session" cookie.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/tenancy
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authed chains the session check, optional role check and a per-subject
// limiter in front of h.
func (r *Router) authed(h http.Handler, cfg httpx.RateLimitConfig, roles ...domain.Role) http.Handler {
	mws := []httpx.Middleware{r.requireSession}
	if len(roles) > 0 {
		mws = append(mws, r.requireRole(roles...))
	}
	mws = append(mws, r.limit(cfg, httpx.CompositeKeyExtractor(":", httpx.SubjectKeyExtractor, httpx.IPKeyExtractor)))
	return httpx.Chain(h, mws...)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService: r.AuthService,
		Cookies:     r.cookies,
		Demo:        r.Demo,
	}

	// POST /login - strict rate limit by IP + email to slow credential stuffing
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			r.limit(r.Limits.Strict, httpx.CompositeKeyExtractor(":", httpx.IPKeyExtractor, httpx.JSONFieldKeyExtractor("email"))),
		),
	)

	// POST /register - strict rate limit by IP (public signup endpoint)
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			r.limit(r.Limits.Strict, httpx.IPKeyExtractor),
		),
	)

	// POST /logout - idempotent, works without a valid session
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			r.limit(r.Limits.Moderate, httpx.IPKeyExtractor),
		),
	)

	if r.Demo != nil {
		r.logger.Warn("demo login endpoint enabled")
		r.Mux.Handle("POST /v1/auth/demo",
			httpx.Chain(http.HandlerFunc(h.HandleDemo),
				r.limit(r.Limits.Strict, httpx.CompositeKeyExtractor(":", httpx.IPKeyExtractor, httpx.JSONFieldKeyExtractor("email"))),
			),
		)
	}

	r.Mux.Handle("GET /v1/session", r.authed(http.HandlerFunc(h.HandleSession), r.Limits.Lenient))
}

func (r *Router) registerOIDC() {
	if r.OIDC == nil {
		return
	}
	h := &OIDCHandler{
		AuthService:       r.AuthService,
		InvitationService: r.InvitationService,
		Provider:          r.OIDC,
		Cookies:           r.cookies,
	}

	r.Mux.Handle("GET /v1/auth/oidc/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			r.limit(r.Limits.Moderate, httpx.IPKeyExtractor),
		),
	)
	r.Mux.Handle("GET "+oauthCallbackPath,
		httpx.Chain(http.HandlerFunc(h.HandleCallback),
			r.limit(r.Limits.Strict, httpx.IPKeyExtractor),
		),
	)
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{AuthService: r.AuthService}

	r.Mux.Handle("GET /v1/profile", r.authed(http.HandlerFunc(h.HandleGet), r.Limits.Lenient))
	r.Mux.Handle("PATCH /v1/profile", r.authed(http.HandlerFunc(h.HandleUpdate), r.Limits.Moderate))

	// POST /profile/password - strict, the current password is checked
	r.Mux.Handle("POST /v1/profile/password", r.authed(http.HandlerFunc(h.HandleChangePassword), r.Limits.Strict))
}

func (r *Router) registerInvitations() {
	h := &InvitationsHandler{InvitationService: r.InvitationService}

	r.Mux.Handle("POST /v1/invitations", r.authed(http.HandlerFunc(h.HandleCreate), r.Limits.Moderate, domain.RoleAdmin))
	r.Mux.Handle("GET /v1/invitations", r.authed(http.HandlerFunc(h.HandleList), r.Limits.Moderate, domain.RoleAdmin))
	r.Mux.Handle("DELETE /v1/invitations/{id}", r.authed(http.HandlerFunc(h.HandleRevoke), r.Limits.Moderate, domain.RoleAdmin))

	// POST /invitations/accept - strict rate limit by IP (public signup endpoint)
	r.Mux.Handle("POST /v1/invitations/accept",
		httpx.Chain(http.HandlerFunc(h.HandleAccept),
			r.limit(r.Limits.Strict, httpx.IPKeyExtractor),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{AuthService: r.AuthService}

	r.Mux.Handle("PATCH /v1/users/{id}/role", r.authed(http.HandlerFunc(h.HandleChangeRole), r.Limits.Moderate, domain.RoleAdmin))
	r.Mux.Handle("PATCH /v1/users/{id}/status", r.authed(http.HandlerFunc(h.HandleChangeStatus), r.Limits.Moderate, domain.RoleAdmin))
}

func (r *Router) registerTenants() {
	h := &TenantsHandler{
		TenantService:    r.TenantService,
		SessionService:   r.SessionService,
		BootstrapService: r.BootstrapService,
		Audit:            r.Audit,
	}

	// POST /tenants - bootstrap token or admin session, checked in the handler
	r.Mux.Handle("POST /v1/tenants",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			r.limit(r.Limits.Strict, httpx.IPKeyExtractor),
		),
	)
	r.Mux.Handle("GET /v1/tenants/{ref}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.limit(r.Limits.Public, httpx.IPKeyExtractor),
		),
	)
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	h := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(h,
			r.limit(r.Limits.Strict, httpx.IPKeyExtractor),
		),
	)
}

func (r *Router) registerPages() {
	landing := LandingHandler(r.buildVersion, r.cookies, r.OIDC != nil, r.Demo != nil)
	r.Mux.Handle("GET /{$}", httpx.Chain(landing, r.limit(r.Limits.Public, httpx.IPKeyExtractor)))
	r.Mux.Handle("GET /login", httpx.Chain(landing, r.limit(r.Limits.Public, httpx.IPKeyExtractor)))

	h := &PagesHandler{
		TenantService:  r.TenantService,
		SessionService: r.SessionService,
		Audit:          r.Audit,
	}
	pages := httpx.Chain(h, r.limit(r.Limits.Lenient, httpx.IPKeyExtractor))
	r.Mux.Handle("GET /{tenant}", pages)
	r.Mux.Handle("GET /{tenant}/{page...}", pages)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			r.limit(r.Limits.Lenient, httpx.IPKeyExtractor),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.CachePing),
			r.limit(r.Limits.Lenient, httpx.IPKeyExtractor),
		),
	)
	r.Mux.Handle("GET /metrics", metrics.Handler())
}
