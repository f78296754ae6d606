package http

import (
	"net/http"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/identity"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/observability/metrics"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
)

type AuthHandler struct {
	AuthService *service.AuthService
	Cookies     *Cookies
	Demo        *identity.DemoProvider
}

// HandleLogin godoc
//
//	@Summary		Password Login
//	@Description	Verify an email and password against a tenant and open a session.
//	@Description	When tenantId is omitted the tenant pinned in the tenantId cookie is used.
//	@Description	Every credential failure returns the same response.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tenancysdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	tenancysdk.LoginResponse	"token, expires_at, redirect, user"
//	@Failure		400		{object}	tenancysdk.ErrorResponse	"invalid_request"
//	@Failure		401		{object}	tenancysdk.ErrorResponse	"invalid_credentials"
//	@Failure		429		{object}	tenancysdk.ErrorResponse	"rate_limit_exceeded"
//	@Failure		503		{object}	tenancysdk.ErrorResponse	"temporarily_unavailable"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	// 1. Parse request body
	var req tenancysdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}
	if req.TenantID == "" {
		req.TenantID = h.Cookies.Tenant(r)
	}

	// 2. Verify and open the session
	res, err := h.AuthService.Login(r.Context(), service.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		Tenant:   req.TenantID,
	}, clientMeta(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// 3. Hand the token back as cookie and body
	h.signIn(w, r, res)
	httpx.WriteJSON(w, http.StatusOK, toLoginResponse(res))
}

// HandleRegister godoc
//
//	@Summary		Register
//	@Description	Create a password account with role user in an existing tenant and sign it in.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tenancysdk.RegisterRequest	true	"New account"
//	@Success		201		{object}	tenancysdk.LoginResponse	"token, expires_at, redirect, user"
//	@Failure		400		{object}	tenancysdk.ErrorResponse	"invalid_request with field"
//	@Failure		409		{object}	tenancysdk.ErrorResponse	"conflict: email already registered"
//	@Failure		503		{object}	tenancysdk.ErrorResponse	"temporarily_unavailable"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req tenancysdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}
	if req.TenantID == "" {
		req.TenantID = h.Cookies.Tenant(r)
	}

	res, err := h.AuthService.Register(r.Context(), service.RegisterRequest{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Tenant:          req.TenantID,
	}, clientMeta(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.signIn(w, r, res)
	httpx.WriteJSON(w, http.StatusCreated, toLoginResponse(res))
}

// HandleLogout godoc
//
//	@Summary		Logout
//	@Description	Revoke the presented session, clear the session cookie and redirect to the landing page.
//	@Description	Succeeds without a session.
//	@Tags			Authentication
//	@Security		BearerAuth
//	@Success		303
//	@Failure		503	{object}	tenancysdk.ErrorResponse	"temporarily_unavailable"
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthService.Logout(r.Context(), sessionToken(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.Cookies.ClearSession(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleDemo godoc
//
//	@Summary		Demo Login
//	@Description	Sign in with the configured demo account. Only registered outside production when enabled.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tenancysdk.LoginRequest		true	"Demo credentials"
//	@Success		200		{object}	tenancysdk.LoginResponse	"token, expires_at, redirect, user"
//	@Failure		401		{object}	tenancysdk.ErrorResponse	"invalid_credentials"
//	@Router			/v1/auth/demo [post].
func (h *AuthHandler) HandleDemo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req tenancysdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}
	if req.TenantID == "" {
		req.TenantID = h.Cookies.Tenant(r)
	}

	id, ok := h.Demo.Authenticate(ctx, req.Email, req.Password)
	if !ok {
		metrics.ObserveLogin(string(identity.KindDemo), "failure")
		writeServiceError(w, r, service.ErrInvalidCredentials)
		return
	}

	res, err := h.AuthService.SignInWithIdentity(ctx, id, req.TenantID, clientMeta(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.signIn(w, r, res)
	httpx.WriteJSON(w, http.StatusOK, toLoginResponse(res))
}

// HandleSession godoc
//
//	@Summary		Current Session
//	@Description	Return the identity behind the presented session.
//	@Tags			Authentication
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	tenancysdk.SessionResponse	"session and user identity"
//	@Failure		401	{object}	tenancysdk.ErrorResponse	"unauthenticated"
//	@Router			/v1/session [get].
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, toSession(SessionFromContext(r.Context())))
}

func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, res service.LoginResult) {
	signIn(w, r, h.Cookies, res)
}

// signIn sets the session cookie and pins the user's tenant.
func signIn(w http.ResponseWriter, r *http.Request, cookies *Cookies, res service.LoginResult) {
	cookies.SetSession(w, res.Session.Token, res.Session.ExpiresAt)
	if err := cookies.SetTenant(w, res.Tenant.Subdomain); err != nil {
		slogx.FromContext(r.Context()).Warn("failed to pin tenant cookie", "error", err)
	}
}
