package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenancy/pkg/jwtx"
)

const (
	TenantCookieName  = "tenantId"
	SessionCookieName = "session"
	TenantHeader      = "x-tenant-id"

	oauthNonceCookieName = "oauth_nonce"
	oauthCallbackPath    = "/api/auth/callback/oidc"

	tenantCookieAudience = "tenant-cookie"
	oauthStateAudience   = "oauth-state"
	oauthStateTTL        = 10 * time.Minute
)

// Cookies reads and writes the browser state of the service. The tenant
// cookie and the OAuth state are HS256 signed; the session cookie carries the
// opaque session token.
type Cookies struct {
	codec  *jwtx.HMAC
	secure bool
}

// NewCookies returns a cookie jar. secure marks every cookie Secure, which
// production requires.
func NewCookies(codec *jwtx.HMAC, secure bool) *Cookies {
	return &Cookies{codec: codec, secure: secure}
}

// Tenant returns the tenant key from a validly signed tenant cookie. A
// missing, tampered or foreign cookie yields "".
func (c *Cookies) Tenant(r *http.Request) string {
	cookie, err := r.Cookie(TenantCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	claims, err := c.codec.Verify(cookie.Value, tenantCookieAudience)
	if err != nil {
		return ""
	}
	return claims.Tenant
}

func (c *Cookies) SetTenant(w http.ResponseWriter, tenant string) error {
	claims := jwtx.NewClaims(c.codec.Issuer(), tenantCookieAudience, 0, time.Now())
	claims.Tenant = tenant

	value, err := c.codec.Sign(claims)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     TenantCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

func (c *Cookies) SetSession(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *Cookies) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SignState produces the OAuth state value binding the flow to a tenant and
// nonce, and to the invitation it redeems when there is one.
func (c *Cookies) SignState(tenant, nonce, invitation string) (string, error) {
	claims := jwtx.NewClaims(c.codec.Issuer(), oauthStateAudience, oauthStateTTL, time.Now())
	claims.Tenant = tenant
	claims.Nonce = nonce
	claims.Invitation = invitation
	return c.codec.Sign(claims)
}

func (c *Cookies) VerifyState(state string) (jwtx.Claims, error) {
	return c.codec.Verify(state, oauthStateAudience)
}

func (c *Cookies) SetNonce(w http.ResponseWriter, nonce string) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthNonceCookieName,
		Value:    nonce,
		Path:     oauthCallbackPath,
		MaxAge:   int(oauthStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *Cookies) ClearNonce(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthNonceCookieName,
		Value:    "",
		Path:     oauthCallbackPath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionToken returns the bearer token if present, else the session cookie.
func sessionToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		scheme, token, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
