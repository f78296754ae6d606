package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/audit"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store/drivers/sqlite"
	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct-horse-battery"

// clock is a settable time source shared by every service in a fixture.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *sqlite.Store
	clock *clock

	hasher      cryptox.Hasher
	credentials *service.CredentialService
	sessions    *service.SessionService
	invitations *service.InvitationService
	tenants     *service.TenantService
	auth        *service.AuthService
	bootstrap   *service.BootstrapService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	c := &clock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	hasher := cryptox.Hasher{Pepper: "test-pepper"}
	al := audit.NewLogger(slogx.Discard())

	f := &fixture{
		t:      t,
		ctx:    slogx.WithContext(context.Background(), slogx.Discard()),
		store:  s,
		clock:  c,
		hasher: hasher,
	}
	f.credentials = &service.CredentialService{Store: s, Hasher: hasher, Now: c.Now}
	f.sessions = &service.SessionService{Store: s, Now: c.Now}
	f.invitations = &service.InvitationService{Store: s, Hasher: hasher, Audit: al, Now: c.Now}
	f.tenants = &service.TenantService{Store: s, Audit: al, BaseURL: "http://localhost:8080", Now: c.Now}
	f.auth = &service.AuthService{
		Store:       s,
		Credentials: f.credentials,
		Sessions:    f.sessions,
		Hasher:      hasher,
		Audit:       al,
		Now:         c.Now,
	}
	f.bootstrap = &service.BootstrapService{Store: s, Tenants: f.tenants, Hasher: hasher, Audit: al, Token: "bootstrap-token"}
	return f
}

func (f *fixture) tenant(subdomain string) domain.Tenant {
	f.t.Helper()
	t, err := f.tenants.Create(f.ctx, service.CreateTenantRequest{Name: "Tenant " + subdomain, Subdomain: subdomain})
	require.NoError(f.t, err)
	return t
}

// user inserts an active user with testPassword directly into the store.
func (f *fixture) user(tenant domain.Tenant, email string, role domain.Role) domain.User {
	f.t.Helper()

	hash, err := f.hasher.Hash(testPassword)
	require.NoError(f.t, err)

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "User " + email,
		TenantID:     tenant.ID,
		Role:         role,
		Status:       domain.UserActive,
		PasswordHash: hash,
		Provider:     domain.ProviderCredentials,
	}
	require.NoError(f.t, f.store.Users().CreateUser(f.ctx, u))
	require.NoError(f.t, f.store.Permissions().GrantPermission(f.ctx, domain.DefaultPermission(u.ID, tenant.ID)))
	return u
}

func (f *fixture) countUsers(tenantID string) int {
	f.t.Helper()
	users, err := f.store.Users().ListUsersByTenant(f.ctx, tenantID)
	require.NoError(f.t, err)
	return len(users)
}

// breakStore closes the database so every further call fails.
func (f *fixture) breakStore() {
	require.NoError(f.t, f.store.Close())
}

// memCache is an in-process SessionCache that counts hits.
type memCache struct {
	mu      sync.Mutex
	entries map[string]domain.Session
	hits    int
	fail    bool
}

func newMemCache() *memCache { return &memCache{entries: map[string]domain.Session{}} }

func (c *memCache) Get(_ context.Context, hash string) (domain.Session, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return domain.Session{}, false, context.DeadlineExceeded
	}
	s, ok := c.entries[hash]
	if ok {
		c.hits++
	}
	return s, ok, nil
}

func (c *memCache) Put(_ context.Context, s domain.Session, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return context.DeadlineExceeded
	}
	c.entries[s.TokenHash] = s
	return nil
}

func (c *memCache) Delete(_ context.Context, hashes ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return context.DeadlineExceeded
	}
	for _, h := range hashes {
		delete(c.entries, h)
	}
	return nil
}

var _ service.SessionCache = (*memCache)(nil)
var _ store.Store = (*sqlite.Store)(nil)
