package http

import (
	"net/http"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
)

// UsersHandler lets tenant admins manage the members of their tenant.
type UsersHandler struct {
	AuthService *service.AuthService
}

// HandleChangeRole godoc
//
//	@Summary		Change Role
//	@Description	Set another member's role. Admins cannot change their own role.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string						true	"User ID"
//	@Param			request	body		tenancysdk.ChangeRoleRequest	true	"New role"
//	@Success		200		{object}	tenancysdk.User				"updated user"
//	@Failure		400		{object}	tenancysdk.ErrorResponse	"invalid_request"
//	@Failure		403		{object}	tenancysdk.ErrorResponse	"forbidden"
//	@Failure		404		{object}	tenancysdk.ErrorResponse	"not_found"
//	@Router			/v1/users/{id}/role [patch].
func (h *UsersHandler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())

	var req tenancysdk.ChangeRoleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	user, err := h.AuthService.ChangeRole(r.Context(), p.UserID, r.PathValue("id"), domain.Role(req.Role))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(user))
}

// HandleChangeStatus godoc
//
//	@Summary		Change Status
//	@Description	Activate or suspend another member. Suspending ends every session of that user.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string							true	"User ID"
//	@Param			request	body		tenancysdk.ChangeStatusRequest	true	"New status"
//	@Success		200		{object}	tenancysdk.User					"updated user"
//	@Failure		400		{object}	tenancysdk.ErrorResponse		"invalid_request"
//	@Failure		403		{object}	tenancysdk.ErrorResponse		"forbidden"
//	@Router			/v1/users/{id}/status [patch].
func (h *UsersHandler) HandleChangeStatus(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())

	var req tenancysdk.ChangeStatusRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	user, err := h.AuthService.SetStatus(r.Context(), p.UserID, r.PathValue("id"), domain.UserStatus(req.Status))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(user))
}
