package identity

import (
	"context"
	"crypto/subtle"
	"log/slog"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

type DemoConfig struct {
	Enabled  bool
	Prod     bool
	Email    string
	Password string
}

// DemoProvider accepts one configured email and password pair. It exists for
// local demos and is refused in production.
type DemoProvider struct {
	email    string
	password string
}

func NewDemoProvider(cfg DemoConfig) (*DemoProvider, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	if cfg.Prod {
		return nil, ErrDemoInProd
	}
	if cfg.Email == "" || cfg.Password == "" {
		return nil, ErrInvalidIdentity
	}
	return &DemoProvider{email: domain.NormalizeEmail(cfg.Email), password: cfg.Password}, nil
}

// Authenticate returns the demo identity when email and password match the
// configured pair. The result still has to match an existing user.
func (p *DemoProvider) Authenticate(ctx context.Context, email, password string) (Identity, bool) {
	slogx.FromContext(ctx).Warn("demo login used", slog.String("email", email))

	id, err := New(KindDemo, email, "", "")
	if err != nil {
		return Identity{}, false
	}

	emailOK := subtle.ConstantTimeCompare([]byte(id.Email), []byte(p.email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(p.password)) == 1
	if !emailOK || !passOK {
		return Identity{}, false
	}
	return id, true
}
