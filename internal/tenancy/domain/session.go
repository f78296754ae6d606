package domain

import "time"

// Session is a stored login. Only the fingerprint of the bearer token is kept.
type Session struct {
	ID           string
	UserID       string
	TenantID     string
	TokenHash    string
	IPAddress    string
	UserAgent    string
	CreatedAt    time.Time
	ExpiresAt    time.Time
	LastActiveAt time.Time
}

// Expired reports whether the session is past its fixed expiry. Validity is
// decided here at read time, never by a background sweep.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
