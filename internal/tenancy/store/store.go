package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	// ErrConflict reports a conditional write that matched no row because
	// another writer changed it first.
	ErrConflict = errors.New("store: conflicting update")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this and expose sub-repositories so a transaction can
// only ever be started from the root.
type Store interface {
	Tenants() Tenants
	Users() Users
	Sessions() Sessions
	Invitations() Invitations
	Permissions() Permissions

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying connection pool.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is the transaction-scoped view handed to WithTx callbacks.
type Tx interface {
	Tenants() Tenants
	Users() Users
	Sessions() Sessions
	Invitations() Invitations
	Permissions() Permissions
}

type Tenants interface {
	CreateTenant(ctx context.Context, t domain.Tenant) error
	GetTenantByID(ctx context.Context, id string) (domain.Tenant, error)
	GetTenantBySubdomain(ctx context.Context, subdomain string) (domain.Tenant, error)
	UpdateTenantStatus(ctx context.Context, id string, status domain.TenantStatus) error
	SetTenantOwner(ctx context.Context, id, ownerID string) error

	// IsEmpty returns true if there are no tenants.
	IsEmpty(ctx context.Context) (bool, error)
}

type Users interface {
	CreateUser(ctx context.Context, u domain.User) error
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up a normalised email across all tenants.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	ListUsersByTenant(ctx context.Context, tenantID string) ([]domain.User, error)

	UpdateRole(ctx context.Context, userID string, role domain.Role) error
	UpdateStatus(ctx context.Context, userID string, status domain.UserStatus) error
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
	UpdateProfile(ctx context.Context, userID, name, avatarURL string) error
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error
	GetSessionByTokenHash(ctx context.Context, hash string) (domain.Session, error)
	TouchSession(ctx context.Context, id string, at time.Time) error

	// DeleteSessionByTokenHash is idempotent; a missing row is not an error.
	DeleteSessionByTokenHash(ctx context.Context, hash string) error

	// DeleteSessionsByUser returns the token hashes removed so caches can be
	// evicted.
	DeleteSessionsByUser(ctx context.Context, userID string) ([]string, error)

	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type Invitations interface {
	// CreateInvitation fails with ErrAlreadyExists when a pending invitation
	// for the same (email, tenant) already exists.
	CreateInvitation(ctx context.Context, inv domain.Invitation) error
	GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error)
	GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error)
	GetPendingInvitation(ctx context.Context, email, tenantID string) (domain.Invitation, error)
	ListPendingInvitations(ctx context.Context, tenantID string) ([]domain.Invitation, error)

	// MarkInvitationAccepted flips a pending row to accepted. It returns
	// ErrConflict when the row is no longer pending.
	MarkInvitationAccepted(ctx context.Context, id, userID string, at time.Time) error

	// MarkInvitationExpired flips a pending row to expired. A row that is no
	// longer pending is left alone.
	MarkInvitationExpired(ctx context.Context, id string) error

	ExpirePendingInvitations(ctx context.Context, now time.Time) (int64, error)
}

type Permissions interface {
	GrantPermission(ctx context.Context, p domain.Permission) error
	ListPermissions(ctx context.Context, userID, tenantID string) ([]domain.Permission, error)
}
