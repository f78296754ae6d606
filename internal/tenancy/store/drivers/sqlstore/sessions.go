package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/jmoiron/sqlx"
)

type sessionRow struct {
	ID           string         `db:"id"`
	UserID       string         `db:"user_id"`
	TenantID     string         `db:"tenant_id"`
	TokenHash    string         `db:"token_hash"`
	IPAddress    sql.NullString `db:"ip_address"`
	UserAgent    sql.NullString `db:"user_agent"`
	CreatedAt    time.Time      `db:"created_at"`
	ExpiresAt    time.Time      `db:"expires_at"`
	LastActiveAt time.Time      `db:"last_active_at"`
}

func (r sessionRow) toDomain() domain.Session {
	return domain.Session{
		ID:           r.ID,
		UserID:       r.UserID,
		TenantID:     r.TenantID,
		TokenHash:    r.TokenHash,
		IPAddress:    r.IPAddress.String,
		UserAgent:    r.UserAgent.String,
		CreatedAt:    r.CreatedAt,
		ExpiresAt:    r.ExpiresAt,
		LastActiveAt: r.LastActiveAt,
	}
}

const sessionColumns = `id, user_id, tenant_id, token_hash, ip_address, user_agent, created_at, expires_at, last_active_at`

type sessionsRepo struct {
	q sqlx.ExtContext
	d Dialect
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := exec(ctx, r.q, r.d, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.TenantID, s.TokenHash, nullString(s.IPAddress), nullString(s.UserAgent),
		utc(s.CreatedAt), utc(s.ExpiresAt), utc(s.LastActiveAt),
	)
	return err
}

func (r *sessionsRepo) GetSessionByTokenHash(ctx context.Context, hash string) (domain.Session, error) {
	var row sessionRow
	if err := get(ctx, r.q, &row, `SELECT `+sessionColumns+` FROM sessions WHERE token_hash = ?`, hash); err != nil {
		return domain.Session{}, err
	}
	return row.toDomain(), nil
}

func (r *sessionsRepo) TouchSession(ctx context.Context, id string, at time.Time) error {
	return execOne(ctx, r.q, r.d, `UPDATE sessions SET last_active_at = ? WHERE id = ?`, utc(at), id)
}

func (r *sessionsRepo) DeleteSessionByTokenHash(ctx context.Context, hash string) error {
	_, err := exec(ctx, r.q, r.d, `DELETE FROM sessions WHERE token_hash = ?`, hash)
	return err
}

func (r *sessionsRepo) DeleteSessionsByUser(ctx context.Context, userID string) ([]string, error) {
	var hashes []string
	if err := list(ctx, r.q, &hashes, `SELECT token_hash FROM sessions WHERE user_id = ?`, userID); err != nil {
		return nil, err
	}
	if _, err := exec(ctx, r.q, r.d, `DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		return nil, err
	}
	return hashes, nil
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return exec(ctx, r.q, r.d, `DELETE FROM sessions WHERE expires_at <= ?`, utc(now))
}
