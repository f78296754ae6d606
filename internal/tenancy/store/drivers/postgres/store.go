package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/store/drivers/sqlstore"
	"github.com/aussiebroadwan/tenancy/pkg/retry"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = pq.ErrorCode("23505")

type Store struct {
	*sqlstore.Store
}

// Options tune the connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Retry governs the initial connection attempts; the database is often
	// still starting when the service comes up.
	Retry *retry.Config
}

// NewStore connects to dsn (a postgres:// URL), retrying until the server
// answers or the attempts run out.
func NewStore(ctx context.Context, dsn string, opts Options, log *slog.Logger) (*Store, error) {
	if opts.Retry == nil {
		opts.Retry = retry.DefaultConfig()
	}
	if log == nil {
		log = slog.Default()
	}

	db, err := retry.Do(ctx, opts.Retry, log, "postgres connect", func(ctx context.Context) (*sqlx.DB, error) {
		return sqlx.ConnectContext(ctx, "postgres", dsn)
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	return &Store{Store: sqlstore.New(db, sqlstore.Dialect{IsUniqueViolation: isUniqueViolation})}, nil
}

func isUniqueViolation(err error) bool {
	var perr *pq.Error
	return errors.As(err, &perr) && perr.Code == uniqueViolation
}
