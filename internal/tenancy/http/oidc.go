package http

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/identity"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/observability/metrics"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/jwtx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
)

// IdentityProvider is the part of an OpenID Connect provider the handlers
// drive.
type IdentityProvider interface {
	AuthCodeURL(state, nonce string) string
	Exchange(ctx context.Context, code, nonce string) (identity.Identity, error)
}

type OIDCHandler struct {
	AuthService       *service.AuthService
	InvitationService *service.InvitationService
	Provider          IdentityProvider
	Cookies           *Cookies
}

// HandleLogin godoc
//
//	@Summary		Start OIDC Login
//	@Description	Redirect the browser to the identity provider. The tenant is bound into the signed state.
//	@Tags			Authentication
//	@Param			tenant		query	string	false	"Tenant subdomain; defaults to the tenantId cookie"
//	@Param			invitation	query	string	false	"Invitation token to accept with the provider identity"
//	@Success		302
//	@Failure		400	{object}	tenancysdk.ErrorResponse	"invalid_request: no tenant"
//	@Router			/v1/auth/oidc/login [get].
func (h *OIDCHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	// 1. Work out which tenant the user is signing into. An invitation
	// names its own tenant.
	q := r.URL.Query()
	tenant, invitation := q.Get("tenant"), q.Get("invitation")
	if tenant == "" {
		tenant = h.Cookies.Tenant(r)
	}
	if tenant == "" && invitation == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, tenancysdk.ErrorResponse{
			Error:            tenancysdk.ErrorCodeInvalidRequest,
			ErrorDescription: "tenant is required",
			Field:            "tenant",
		})
		return
	}

	// 2. Bind tenant and nonce into a signed state
	nonce, err := jwtx.NewNonce()
	if err != nil {
		log.Error("failed to generate nonce", slog.Any("error", err))
		writeError(w, http.StatusServiceUnavailable, tenancysdk.ErrorCodeTemporarilyUnavailable,
			"Service temporarily unavailable, try again later")
		return
	}
	state, err := h.Cookies.SignState(tenant, nonce, invitation)
	if err != nil {
		log.Error("failed to sign oauth state", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, tenancysdk.ErrorCodeServerError, "An internal error occurred")
		return
	}

	// 3. Off to the provider
	h.Cookies.SetNonce(w, nonce)
	http.Redirect(w, r, h.Provider.AuthCodeURL(state, nonce), http.StatusFound)
}

// HandleCallback godoc
//
//	@Summary		OIDC Callback
//	@Description	Complete the authorization code flow, open a session and redirect to the tenant dashboard.
//	@Tags			Authentication
//	@Param			code	query	string	true	"Authorization code"
//	@Param			state	query	string	true	"State issued by /v1/auth/oidc/login"
//	@Success		303
//	@Failure		400	{object}	tenancysdk.ErrorResponse	"invalid_request: bad state"
//	@Failure		401	{object}	tenancysdk.ErrorResponse	"invalid_credentials"
//	@Router			/api/auth/callback/oidc [get].
func (h *OIDCHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	q := r.URL.Query()

	// 1. The provider may report a refusal instead of a code
	if providerErr := q.Get("error"); providerErr != "" {
		log.Warn("identity provider refused sign-in", slog.String("error", providerErr))
		metrics.ObserveLogin(string(identity.KindOIDC), "failure")
		writeServiceError(w, r, service.ErrInvalidCredentials)
		return
	}

	// 2. State must be ours, fresh, and match the nonce cookie
	claims, err := h.Cookies.VerifyState(q.Get("state"))
	if err != nil {
		log.Warn("invalid oauth state", slog.Any("error", err))
		writeError(w, http.StatusBadRequest, tenancysdk.ErrorCodeInvalidRequest, "Invalid or expired state")
		return
	}
	nonce, err := r.Cookie(oauthNonceCookieName)
	if err != nil || subtle.ConstantTimeCompare([]byte(nonce.Value), []byte(claims.Nonce)) != 1 {
		log.Warn("oauth nonce mismatch")
		writeError(w, http.StatusBadRequest, tenancysdk.ErrorCodeInvalidRequest, "Invalid or expired state")
		return
	}
	h.Cookies.ClearNonce(w)

	// 3. Trade the code for a verified identity
	id, err := h.Provider.Exchange(ctx, q.Get("code"), claims.Nonce)
	if err != nil {
		log.Warn("oidc exchange failed", slog.Any("error", err))
		metrics.ObserveLogin(string(identity.KindOIDC), "failure")
		writeServiceError(w, r, service.ErrInvalidCredentials)
		return
	}

	// 4. Redeem the invitation the flow was started with; the new account
	// belongs to the inviting tenant.
	tenant := claims.Tenant
	if claims.Invitation != "" {
		user, err := h.InvitationService.Accept(ctx, service.AcceptRequest{
			Token:    claims.Invitation,
			Name:     inviteeName(id),
			Identity: &id,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		tenant = user.TenantID
	}

	// 5. Match to a user of the tenant and open the session
	res, err := h.AuthService.SignInWithIdentity(ctx, id, tenant, clientMeta(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	signIn(w, r, h.Cookies, res)
	http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
}

// inviteeName is the display name for an account created from an identity.
// Providers may omit the name, so the email stands in.
func inviteeName(id identity.Identity) string {
	name := strings.TrimSpace(id.Name)
	if utf8.RuneCountInString(name) < 2 {
		name = id.Email
	}
	if r := []rune(name); len(r) > 100 {
		name = string(r[:100])
	}
	return name
}
