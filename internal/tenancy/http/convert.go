package http

import (
	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
)

func toUser(u domain.SanitizedUser) tenancysdk.User {
	return tenancysdk.User{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		TenantID:    u.TenantID,
		Role:        string(u.Role),
		Status:      string(u.Status),
		AvatarURL:   u.AvatarURL,
		Provider:    string(u.Provider),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

func toTenant(t domain.Tenant, url string) tenancysdk.Tenant {
	features := t.Features
	if features == nil {
		features = []string{}
	}
	return tenancysdk.Tenant{
		ID:          t.ID,
		Name:        t.Name,
		Subdomain:   t.Subdomain,
		Plan:        string(t.Plan),
		Status:      string(t.Status),
		Features:    features,
		TrialEndsAt: t.TrialEndsAt,
		URL:         url,
	}
}

func toSession(v service.Validation) tenancysdk.SessionResponse {
	return tenancysdk.SessionResponse{
		SessionID: v.SessionID,
		UserID:    v.UserID,
		TenantID:  v.TenantID,
		Email:     v.User.Email,
		Name:      v.User.Name,
		Role:      string(v.User.Role),
		ExpiresAt: v.ExpiresAt,
	}
}

func toInvitation(inv domain.Invitation) tenancysdk.Invitation {
	return tenancysdk.Invitation{
		ID:        inv.ID,
		Email:     inv.Email,
		TenantID:  inv.TenantID,
		Role:      string(inv.Role),
		InvitedBy: inv.InvitedBy,
		ExpiresAt: inv.ExpiresAt,
		CreatedAt: inv.CreatedAt,
	}
}

func toLoginResponse(res service.LoginResult) tenancysdk.LoginResponse {
	return tenancysdk.LoginResponse{
		Token:     res.Session.Token,
		ExpiresAt: res.Session.ExpiresAt,
		Redirect:  res.Redirect,
		User:      toUser(res.User),
	}
}
