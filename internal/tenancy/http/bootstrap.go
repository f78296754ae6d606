package http

import (
	"net/http"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles the bootstrap endpoint for initial system setup.
//
//	@Summary		Bootstrap the tenancy service
//	@Description	Creates the first tenant and its admin user. This endpoint is only available when a bootstrap token is configured and can only be used once.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string						true	"Bootstrap token for authorization"
//	@Param			request				body		tenancysdk.BootstrapRequest		true	"Bootstrap configuration"
//	@Success		201					{object}	tenancysdk.BootstrapResponse	"Created tenant and admin user IDs"
//	@Failure		400					{object}	tenancysdk.ErrorResponse		"Invalid request body or validation failed"
//	@Failure		401					{object}	tenancysdk.ErrorResponse		"Missing or invalid bootstrap token"
//	@Failure		404					{object}	tenancysdk.ErrorResponse		"Bootstrap not enabled (no token configured)"
//	@Failure		409					{object}	tenancysdk.ErrorResponse		"System already bootstrapped"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())
	l.Info("Starting to bootstrap")

	// 1. Check if enabled
	if h.BootstrapService.Token == "" {
		writeError(w, http.StatusNotFound, tenancysdk.ErrorCodeNotFound, "Bootstrap endpoint is not enabled")
		return
	}

	// 2. Require bootstrap token header
	token := r.Header.Get(bootstrapTokenHeader)
	if token == "" {
		writeError(w, http.StatusUnauthorized, tenancysdk.ErrorCodeUnauthorized,
			"Bootstrap token is required in X-Bootstrap-Token header")
		return
	}

	// 3. Parse request body
	var req tenancysdk.BootstrapRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	// 4. Perform bootstrap
	res, err := h.BootstrapService.Bootstrap(r.Context(), token, service.BootstrapRequest{
		TenantName:      req.TenantName,
		TenantSubdomain: req.TenantSubdomain,
		Plan:            req.Plan,
		Features:        req.Features,
		AdminEmail:      req.AdminEmail,
		AdminName:       req.AdminName,
		AdminPassword:   req.AdminPassword,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// 5. Respond with created IDs
	httpx.WriteJSON(w, http.StatusCreated, tenancysdk.BootstrapResponse{
		TenantID:    res.TenantID,
		AdminUserID: res.AdminUserID,
	})
}
