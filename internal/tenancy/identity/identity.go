// Package identity turns external sign-in mechanisms into a normalised
// Identity the service layer can match against stored users.
package identity

import (
	"errors"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
)

var (
	ErrDisabled        = errors.New("identity provider disabled")
	ErrUnverifiedEmail = errors.New("identity provider did not verify the email address")
	ErrInvalidIdentity = errors.New("identity provider returned an unusable identity")
	ErrDemoInProd      = errors.New("demo login cannot be enabled in production")
)

// Kind is the closed set of ways a user can prove who they are.
type Kind string

const (
	KindCredentials Kind = "credentials"
	KindOIDC        Kind = "oidc"
	KindDemo        Kind = "demo"
)

func (k Kind) Valid() bool {
	switch k {
	case KindCredentials, KindOIDC, KindDemo:
		return true
	}
	return false
}

// Provider maps the kind onto the stored account provider.
func (k Kind) Provider() domain.AuthProvider {
	switch k {
	case KindOIDC:
		return domain.ProviderOIDC
	case KindDemo:
		return domain.ProviderDemo
	default:
		return domain.ProviderCredentials
	}
}

type Identity struct {
	Kind       Kind
	Email      string
	Name       string
	ExternalID string
}

// New builds an Identity with a normalised email. It fails when the email is
// missing or the kind is unknown.
func New(kind Kind, email, name, externalID string) (Identity, error) {
	id := Identity{
		Kind:       kind,
		Email:      domain.NormalizeEmail(email),
		Name:       name,
		ExternalID: externalID,
	}
	if !kind.Valid() || id.Email == "" {
		return Identity{}, ErrInvalidIdentity
	}
	if id.Name == "" {
		id.Name = id.Email
	}
	return id, nil
}
