// Package sqlstore implements store.Store over database/sql through sqlx.
// Queries are written with '?' placeholders and rebound for the driver, so
// the sqlite and postgres drivers share every repository.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/jmoiron/sqlx"
)

// Dialect captures what differs between engines.
type Dialect struct {
	// IsUniqueViolation reports whether err came from a unique constraint.
	IsUniqueViolation func(error) bool
}

type Store struct {
	db      *sqlx.DB
	dialect Dialect
}

func New(db *sqlx.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB exposes the pool for driver specific work such as migrations.
func (s *Store) DB() *sqlx.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(&txStore{q: tx, dialect: s.dialect}); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Tenants() store.Tenants         { return &tenantsRepo{q: s.db, d: s.dialect} }
func (s *Store) Users() store.Users             { return &usersRepo{q: s.db, d: s.dialect} }
func (s *Store) Sessions() store.Sessions       { return &sessionsRepo{q: s.db, d: s.dialect} }
func (s *Store) Invitations() store.Invitations { return &invitationsRepo{q: s.db, d: s.dialect} }
func (s *Store) Permissions() store.Permissions { return &permissionsRepo{q: s.db, d: s.dialect} }

type txStore struct {
	q       *sqlx.Tx
	dialect Dialect
}

func (t *txStore) Tenants() store.Tenants         { return &tenantsRepo{q: t.q, d: t.dialect} }
func (t *txStore) Users() store.Users             { return &usersRepo{q: t.q, d: t.dialect} }
func (t *txStore) Sessions() store.Sessions       { return &sessionsRepo{q: t.q, d: t.dialect} }
func (t *txStore) Invitations() store.Invitations { return &invitationsRepo{q: t.q, d: t.dialect} }
func (t *txStore) Permissions() store.Permissions { return &permissionsRepo{q: t.q, d: t.dialect} }

func get(ctx context.Context, q sqlx.ExtContext, dest any, query string, args ...any) error {
	err := sqlx.GetContext(ctx, q, dest, q.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func list(ctx context.Context, q sqlx.ExtContext, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, q, dest, q.Rebind(query), args...)
}

func exec(ctx context.Context, q sqlx.ExtContext, d Dialect, query string, args ...any) (int64, error) {
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		if d.IsUniqueViolation != nil && d.IsUniqueViolation(err) {
			return 0, store.ErrAlreadyExists
		}
		return 0, err
	}
	return res.RowsAffected()
}

// execOne runs an update that must touch exactly one row.
func execOne(ctx context.Context, q sqlx.ExtContext, d Dialect, query string, args ...any) error {
	n, err := exec(ctx, q, d, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// utc normalises timestamps before they are written so text-encoded engines
// compare them consistently.
func utc(t time.Time) time.Time { return t.UTC() }

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	v := nt.Time
	return &v
}

func joinFields(fields []string) string { return strings.Join(fields, " ") }

func splitFields(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	return fields
}
