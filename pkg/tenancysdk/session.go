package tenancysdk

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Session is a signed-in client. The token is sent as a bearer credential.
type Session struct {
	client    *SDKClient
	token     string
	expiresAt time.Time
	redirect  string
	user      User
}

func newSession(c *SDKClient, resp LoginResponse) *Session {
	return &Session{
		client:    c,
		token:     resp.Token,
		expiresAt: resp.ExpiresAt,
		redirect:  resp.Redirect,
		user:      resp.User,
	}
}

func (s *Session) Token() string        { return s.token }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// Redirect is the landing page the service suggested at sign-in.
func (s *Session) Redirect() string { return s.redirect }

// User is the account as it was at sign-in.
func (s *Session) User() User { return s.user }

// Logout revokes the session. Logging out twice is not an error.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.do(ctx, http.MethodPost, "/v1/auth/logout", nil)
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusSeeOther)
}

// Current describes the identity behind the session.
func (s *Session) Current(ctx context.Context) (*SessionResponse, error) {
	var out SessionResponse
	if err := s.getJSON(ctx, "/v1/session", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) Profile(ctx context.Context) (*ProfileResponse, error) {
	var out ProfileResponse
	if err := s.getJSON(ctx, "/v1/profile", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	var out User
	if err := s.sendJSON(ctx, http.MethodPatch, "/v1/profile", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword replaces the password. Every session of the user, this one
// included, is revoked.
func (s *Session) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	return s.sendJSON(ctx, http.MethodPost, "/v1/profile/password", req, nil, http.StatusNoContent)
}

// Invite issues an invitation. Admin only.
func (s *Session) Invite(ctx context.Context, req InviteRequest) (*InviteResponse, error) {
	var out InviteResponse
	if err := s.sendJSON(ctx, http.MethodPost, "/v1/invitations", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInvitations returns the pending invitations of the session's tenant.
func (s *Session) ListInvitations(ctx context.Context) ([]Invitation, error) {
	var out ListInvitationsResponse
	if err := s.getJSON(ctx, "/v1/invitations", &out); err != nil {
		return nil, err
	}
	return out.Invitations, nil
}

func (s *Session) RevokeInvitation(ctx context.Context, id string) error {
	resp, err := s.do(ctx, http.MethodDelete, "/v1/invitations/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusNoContent)
}

func (s *Session) ChangeRole(ctx context.Context, userID, role string) (*User, error) {
	var out User
	path := "/v1/users/" + url.PathEscape(userID) + "/role"
	if err := s.sendJSON(ctx, http.MethodPatch, path, ChangeRoleRequest{Role: role}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) SetStatus(ctx context.Context, userID, status string) (*User, error) {
	var out User
	path := "/v1/users/" + url.PathEscape(userID) + "/status"
	if err := s.sendJSON(ctx, http.MethodPatch, path, ChangeStatusRequest{Status: status}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTenant creates a tenant. Admin only.
func (s *Session) CreateTenant(ctx context.Context, req CreateTenantRequest) (*Tenant, error) {
	var out Tenant
	if err := s.sendJSON(ctx, http.MethodPost, "/v1/tenants", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
