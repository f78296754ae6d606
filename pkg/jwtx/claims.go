// Package jwtx signs the small, short-lived values the service hands to
// browsers (tenant cookie, OAuth state) as HS256 JWTs.
package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// Claims are the fields carried by signed browser values. Purpose is
// enforced through the audience so a tenant cookie can never be replayed as
// OAuth state and vice versa.
type Claims struct {
	jwt.RegisteredClaims

	// Tenant is the tenant key the value is bound to.
	Tenant string `json:"tnt,omitempty"`

	// Nonce is random per value (CSRF binding for OAuth state).
	Nonce string `json:"nonce,omitempty"`

	// Redirect is a same-site path to continue to.
	Redirect string `json:"rdr,omitempty"`

	// Invitation is a raw invitation token to redeem once the flow ends.
	Invitation string `json:"inv,omitempty"`
}

// NewClaims builds claims for audience valid for ttl from now. A zero ttl
// produces a value with no expiry.
func NewClaims(issuer, audience string, ttl time.Duration, now time.Time) Claims {
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			Audience: jwt.ClaimStrings{audience},
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return c
}

// NewNonce returns a URL-safe random value.
func NewNonce() (string, error) {
	var b [20]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}
