package http

import (
	"net/http"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/audit"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
)

const bootstrapTokenHeader = "X-Bootstrap-Token"

type TenantsHandler struct {
	TenantService    *service.TenantService
	SessionService   *service.SessionService
	BootstrapService *service.BootstrapService
	Audit            *audit.Logger
}

// HandleCreate godoc
//
//	@Summary		Create Tenant
//	@Description	Register a new tenant. Requires either the bootstrap token or an admin session.
//	@Tags			Tenants
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			X-Bootstrap-Token	header		string							false	"Bootstrap token, instead of an admin session"
//	@Param			request				body		tenancysdk.CreateTenantRequest	true	"Tenant"
//	@Success		201					{object}	tenancysdk.Tenant				"created tenant"
//	@Failure		400					{object}	tenancysdk.ErrorResponse		"invalid_request"
//	@Failure		401					{object}	tenancysdk.ErrorResponse		"unauthenticated or unauthorized"
//	@Failure		403					{object}	tenancysdk.ErrorResponse		"forbidden"
//	@Failure		409					{object}	tenancysdk.ErrorResponse		"conflict: subdomain taken"
//	@Router			/v1/tenants [post].
func (h *TenantsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// 1. Either the operator token or an admin session
	if token := r.Header.Get(bootstrapTokenHeader); token != "" {
		if !h.BootstrapService.Authorized(token) {
			log.Warn("tenant creation with invalid bootstrap token")
			writeError(w, http.StatusUnauthorized, tenancysdk.ErrorCodeUnauthorized, "Invalid bootstrap token")
			return
		}
	} else {
		v, err := h.SessionService.Validate(ctx, sessionToken(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		p := v.Principal()
		if d := service.Authorize(p, domain.RoleAdmin); !d.Allowed {
			if p != nil {
				h.Audit.LogDenied(ctx, p.TenantID, p.UserID, "tenant", "role")
			}
			writeServiceError(w, r, d.Err())
			return
		}
	}

	// 2. Parse request body
	var req tenancysdk.CreateTenantRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	// 3. Create
	t, err := h.TenantService.Create(ctx, service.CreateTenantRequest{
		Name:      req.Name,
		Subdomain: req.Subdomain,
		Plan:      domain.Plan(req.Plan),
		Features:  req.Features,
		TrialDays: req.TrialDays,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toTenant(t, h.TenantService.URL(t)))
}

// HandleGet godoc
//
//	@Summary		Get Tenant
//	@Description	Public summary of a tenant, looked up by subdomain or ID.
//	@Tags			Tenants
//	@Produce		json
//	@Param			ref	path		string						true	"Subdomain or tenant ID"
//	@Success		200	{object}	tenancysdk.Tenant			"tenant summary"
//	@Failure		404	{object}	tenancysdk.ErrorResponse	"not_found"
//	@Router			/v1/tenants/{ref} [get].
func (h *TenantsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	t, err := h.TenantService.Lookup(r.Context(), r.PathValue("ref"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTenant(t, h.TenantService.URL(t)))
}
