package domain

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
)

type Invitation struct {
	ID         string
	Email      string
	TenantID   string
	Role       Role
	TokenHash  string
	Status     InvitationStatus
	InvitedBy  string
	AcceptedBy string
	ExpiresAt  time.Time
	AcceptedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Expired reports whether the invitation can no longer be accepted because of
// time, regardless of what the stored status says.
func (i Invitation) Expired(now time.Time) bool {
	return i.Status == InvitationExpired || !now.Before(i.ExpiresAt)
}
