package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC secret accepted.
const MinSecretLength = 32

// HMAC signs and verifies Claims with HS256.
type HMAC struct {
	secret []byte
	issuer string

	// Now is the verification clock; defaults to time.Now.
	Now func() time.Time
}

// NewHMAC returns a codec for secret. Tokens it produces carry issuer and
// tokens from any other issuer are rejected.
func NewHMAC(secret []byte, issuer string) (*HMAC, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("jwtx: secret must be at least %d bytes", MinSecretLength)
	}
	return &HMAC{secret: secret, issuer: issuer}, nil
}

func (h *HMAC) Issuer() string { return h.issuer }

func (h *HMAC) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Sign serialises c as a compact JWS.
func (h *HMAC) Sign(c Claims) (string, error) {
	if c.Issuer == "" {
		c.Issuer = h.issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(h.secret)
}

// Verify checks signature, issuer, audience and expiry, returning the claims.
func (h *HMAC) Verify(token, audience string) (Claims, error) {
	var c Claims
	_, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) { return h.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(h.issuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(h.now),
	)
	if err != nil {
		return Claims{}, mapError(err)
	}
	return c, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ErrAudience
	default:
		return fmt.Errorf("%w: %w", ErrInvalidClaim, err)
	}
}
