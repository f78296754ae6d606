package sqlite

import (
	"errors"
	"strings"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/store/drivers/sqlstore"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

type Store struct {
	*sqlstore.Store
}

// DSN builds a connection string for a database file, or an in-memory
// database for ":memory:". Timestamps are written in SQLite's text format
// so range comparisons in SQL behave.
func DSN(path string) string {
	params := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	if path == ":memory:" {
		return "file::memory:?" + params
	}
	return "file:" + path + "?" + params + "&_pragma=journal_mode(WAL)"
}

// NewStore opens path (a file or ":memory:"). A full "file:" DSN is used
// as given.
func NewStore(path string) (*Store, error) {
	dsn := path
	if !strings.HasPrefix(path, "file:") {
		dsn = DSN(path)
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// One writer at a time; this also keeps an in-memory database alive
	// across calls since it lives on a single connection.
	db.SetMaxOpenConns(1)

	return &Store{Store: sqlstore.New(db, sqlstore.Dialect{IsUniqueViolation: isUniqueViolation})}, nil
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
