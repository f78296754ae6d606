package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/audit"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	tenancyhttp "github.com/aussiebroadwan/tenancy/internal/tenancy/http"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store/drivers/sqlite"
	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/aussiebroadwan/tenancy/pkg/jwtx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
	"github.com/stretchr/testify/require"
)

const (
	testPassword   = "correct-horse-battery"
	testSecret     = "0123456789abcdef0123456789abcdef"
	bootstrapToken = "bootstrap-token"
)

var generous = httpx.RateLimitConfig{Name: "test", RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}

type harness struct {
	t       *testing.T
	ctx     context.Context
	store   *sqlite.Store
	hasher  cryptox.Hasher
	cookies *tenancyhttp.Cookies
	router  *tenancyhttp.Router
}

// newHarness wires a router over an in-memory store. configure runs before
// routes are applied.
func newHarness(t *testing.T, configure ...func(*tenancyhttp.Router)) *harness {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	codec, err := jwtx.NewHMAC([]byte(testSecret), "tenancy-test")
	require.NoError(t, err)
	cookies := tenancyhttp.NewCookies(codec, false)

	hasher := cryptox.Hasher{Pepper: "test-pepper"}
	al := audit.NewLogger(slogx.Discard())
	sessions := &service.SessionService{Store: s}
	tenants := &service.TenantService{Store: s, Audit: al, BaseURL: "http://localhost:8080"}

	r := tenancyhttp.NewRouter(cookies, "test", s, slogx.Discard())
	r.SessionService = sessions
	r.TenantService = tenants
	r.Audit = al
	r.AuthService = &service.AuthService{
		Store:       s,
		Credentials: &service.CredentialService{Store: s, Hasher: hasher},
		Sessions:    sessions,
		Hasher:      hasher,
		Audit:       al,
	}
	r.InvitationService = &service.InvitationService{Store: s, Hasher: hasher, Audit: al}
	r.BootstrapService = &service.BootstrapService{Store: s, Tenants: tenants, Hasher: hasher, Audit: al, Token: bootstrapToken}
	r.Limits = tenancyhttp.RateLimits{Strict: generous, Moderate: generous, Lenient: generous, Public: generous}

	for _, fn := range configure {
		fn(r)
	}
	r.ApplyRoutes()

	return &harness{
		t:       t,
		ctx:     slogx.WithContext(context.Background(), slogx.Discard()),
		store:   s,
		hasher:  hasher,
		cookies: cookies,
		router:  r,
	}
}

type reqOpt func(*http.Request)

func bearer(token string) reqOpt {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func withCookie(c *http.Cookie) reqOpt {
	return func(r *http.Request) { r.AddCookie(c) }
}

func withHeader(key, value string) reqOpt {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

func withHost(host string) reqOpt {
	return func(r *http.Request) { r.Host = host }
}

func (h *harness) do(method, target string, body any, opts ...reqOpt) *httptest.ResponseRecorder {
	h.t.Helper()

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) tenancysdk.ErrorResponse {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[tenancysdk.ErrorResponse](t, rec)
	require.Equal(t, code, body.Error)
	return body
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// tenantCookie signs a tenant cookie the way the service does.
func (h *harness) tenantCookie(tenant string) *http.Cookie {
	h.t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(h.t, h.cookies.SetTenant(rec, tenant))
	c := responseCookie(rec, tenancyhttp.TenantCookieName)
	require.NotNil(h.t, c)
	return c
}

func (h *harness) tenant(subdomain string) domain.Tenant {
	h.t.Helper()
	t, err := h.router.TenantService.Create(h.ctx, service.CreateTenantRequest{Name: "Tenant " + subdomain, Subdomain: subdomain})
	require.NoError(h.t, err)
	return t
}

// user inserts an active user with testPassword directly into the store.
func (h *harness) user(tenant domain.Tenant, email string, role domain.Role) domain.User {
	h.t.Helper()

	hash, err := h.hasher.Hash(testPassword)
	require.NoError(h.t, err)

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "User " + email,
		TenantID:     tenant.ID,
		Role:         role,
		Status:       domain.UserActive,
		PasswordHash: hash,
		Provider:     domain.ProviderCredentials,
	}
	require.NoError(h.t, h.store.Users().CreateUser(h.ctx, u))
	require.NoError(h.t, h.store.Permissions().GrantPermission(h.ctx, domain.DefaultPermission(u.ID, tenant.ID)))
	return u
}

// login signs u in through the API and returns the session token.
func (h *harness) login(email, tenant string) string {
	h.t.Helper()
	rec := h.do(http.MethodPost, "/v1/auth/login", tenancysdk.LoginRequest{
		Email:    email,
		Password: testPassword,
		TenantID: tenant,
	})
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[tenancysdk.LoginResponse](h.t, rec).Token
}
