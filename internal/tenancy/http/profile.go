package http

import (
	"net/http"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
)

type ProfileHandler struct {
	AuthService *service.AuthService
}

// HandleGet godoc
//
//	@Summary		Get Profile
//	@Description	Return the signed-in user with their tenant and permissions.
//	@Tags			Profile
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	tenancysdk.ProfileResponse	"user, tenant, permissions"
//	@Failure		401	{object}	tenancysdk.ErrorResponse	"unauthenticated"
//	@Router			/v1/profile [get].
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())

	profile, err := h.AuthService.Profile(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	perms := make([]tenancysdk.Permission, len(profile.Permissions))
	for i, perm := range profile.Permissions {
		perms[i] = tenancysdk.Permission{Resource: perm.Resource, Action: perm.Action}
	}
	httpx.WriteJSON(w, http.StatusOK, tenancysdk.ProfileResponse{
		User:        toUser(profile.User),
		Tenant:      toTenant(profile.Tenant, ""),
		Permissions: perms,
	})
}

// HandleUpdate godoc
//
//	@Summary		Update Profile
//	@Description	Change the signed-in user's display name or avatar.
//	@Tags			Profile
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		tenancysdk.UpdateProfileRequest	true	"Fields to change"
//	@Success		200		{object}	tenancysdk.User					"updated user"
//	@Failure		400		{object}	tenancysdk.ErrorResponse		"invalid_request"
//	@Failure		401		{object}	tenancysdk.ErrorResponse		"unauthenticated"
//	@Router			/v1/profile [patch].
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())

	var req tenancysdk.UpdateProfileRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	user, err := h.AuthService.UpdateProfile(r.Context(), p.UserID, service.UpdateProfileRequest{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(user))
}

// HandleChangePassword godoc
//
//	@Summary		Change Password
//	@Description	Replace the signed-in user's password after checking the current one.
//	@Tags			Profile
//	@Accept			json
//	@Security		BearerAuth
//	@Param			request	body	tenancysdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		204
//	@Failure		400	{object}	tenancysdk.ErrorResponse	"invalid_request"
//	@Failure		401	{object}	tenancysdk.ErrorResponse	"invalid_credentials"
//	@Router			/v1/profile/password [post].
func (h *ProfileHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())

	var req tenancysdk.ChangePasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	err := h.AuthService.ChangePassword(r.Context(), p.UserID, service.ChangePasswordRequest{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
