package http

import (
	"net/http"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
)

type InvitationsHandler struct {
	InvitationService *service.InvitationService
}

// HandleCreate godoc
//
//	@Summary		Invite User
//	@Description	Issue an invitation to join a tenant with a role. The token is only returned here.
//	@Description	tenantId defaults to the inviting admin's tenant.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		tenancysdk.InviteRequest	true	"Invitee and role"
//	@Success		201		{object}	tenancysdk.InviteResponse	"invitation_id, token, expires_at"
//	@Failure		400		{object}	tenancysdk.ErrorResponse	"invalid_request"
//	@Failure		403		{object}	tenancysdk.ErrorResponse	"forbidden"
//	@Failure		409		{object}	tenancysdk.ErrorResponse	"conflict"
//	@Router			/v1/invitations [post].
func (h *InvitationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())

	var req tenancysdk.InviteRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}
	if req.TenantID == "" {
		req.TenantID = p.TenantID
	}

	inv, err := h.InvitationService.Invite(r.Context(), service.InviteRequest{
		Email:     req.Email,
		TenantID:  req.TenantID,
		Role:      domain.Role(req.Role),
		InviterID: p.UserID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, tenancysdk.InviteResponse{
		InvitationID: inv.InvitationID,
		Token:        inv.Token,
		ExpiresAt:    inv.ExpiresAt,
	})
}

// HandleList godoc
//
//	@Summary		List Invitations
//	@Description	List the pending, unexpired invitations of the admin's tenant.
//	@Tags			Invitations
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	tenancysdk.ListInvitationsResponse	"pending invitations"
//	@Failure		403	{object}	tenancysdk.ErrorResponse			"forbidden"
//	@Router			/v1/invitations [get].
func (h *InvitationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())

	invs, err := h.InvitationService.ListPending(r.Context(), p.UserID, p.TenantID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]tenancysdk.Invitation, len(invs))
	for i, inv := range invs {
		out[i] = toInvitation(inv)
	}
	httpx.WriteJSON(w, http.StatusOK, tenancysdk.ListInvitationsResponse{Invitations: out})
}

// HandleRevoke godoc
//
//	@Summary		Revoke Invitation
//	@Tags			Invitations
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Invitation ID"
//	@Success		204
//	@Failure		400	{object}	tenancysdk.ErrorResponse	"invalid_invitation"
//	@Failure		403	{object}	tenancysdk.ErrorResponse	"forbidden"
//	@Failure		409	{object}	tenancysdk.ErrorResponse	"conflict: already accepted"
//	@Router			/v1/invitations/{id} [delete].
func (h *InvitationsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())

	if err := h.InvitationService.Revoke(r.Context(), p.UserID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAccept godoc
//
//	@Summary		Accept Invitation
//	@Description	Redeem an invitation token to create the invited account in the invitation's tenant.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tenancysdk.AcceptInvitationRequest	true	"Token, name and password"
//	@Success		201		{object}	tenancysdk.AcceptInvitationResponse	"user_id"
//	@Failure		400		{object}	tenancysdk.ErrorResponse			"invalid_request or invalid_invitation"
//	@Failure		409		{object}	tenancysdk.ErrorResponse			"conflict: already used"
//	@Failure		410		{object}	tenancysdk.ErrorResponse			"invitation_expired"
//	@Router			/v1/invitations/accept [post].
func (h *InvitationsHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	var req tenancysdk.AcceptInvitationRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w)
		return
	}

	user, err := h.InvitationService.Accept(r.Context(), service.AcceptRequest{
		Token:    req.Token,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, tenancysdk.AcceptInvitationResponse{UserID: user.ID})
}
