package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/jmoiron/sqlx"
)

type userRow struct {
	ID           string         `db:"id"`
	Email        string         `db:"email"`
	Name         string         `db:"name"`
	TenantID     string         `db:"tenant_id"`
	Role         string         `db:"role"`
	Status       string         `db:"status"`
	PasswordHash sql.NullString `db:"password_hash"`
	AvatarURL    sql.NullString `db:"avatar_url"`
	Provider     string         `db:"provider"`
	ExternalID   sql.NullString `db:"external_id"`
	LastLoginAt  sql.NullTime   `db:"last_login_at"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		TenantID:     r.TenantID,
		Role:         domain.Role(r.Role),
		Status:       domain.UserStatus(r.Status),
		PasswordHash: r.PasswordHash.String,
		AvatarURL:    r.AvatarURL.String,
		Provider:     domain.AuthProvider(r.Provider),
		ExternalID:   r.ExternalID.String,
		LastLoginAt:  timePtr(r.LastLoginAt),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

const userColumns = `id, email, name, tenant_id, role, status, password_hash, avatar_url, provider, external_id, last_login_at, created_at, updated_at`

type usersRepo struct {
	q sqlx.ExtContext
	d Dialect
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := utc(time.Now())
	_, err := exec(ctx, r.q, r.d, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.TenantID, string(u.Role), string(u.Status),
		nullString(u.PasswordHash), nullString(u.AvatarURL), string(u.Provider), nullString(u.ExternalID),
		nullTime(u.LastLoginAt), now, now,
	)
	return err
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	var row userRow
	if err := get(ctx, r.q, &row, `SELECT `+userColumns+` FROM users WHERE id = ?`, id); err != nil {
		return domain.User{}, err
	}
	return row.toDomain(), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var row userRow
	if err := get(ctx, r.q, &row, `SELECT `+userColumns+` FROM users WHERE email = ?`, email); err != nil {
		return domain.User{}, err
	}
	return row.toDomain(), nil
}

func (r *usersRepo) ListUsersByTenant(ctx context.Context, tenantID string) ([]domain.User, error) {
	var rows []userRow
	if err := list(ctx, r.q, &rows,
		`SELECT `+userColumns+` FROM users WHERE tenant_id = ? ORDER BY created_at, id`, tenantID,
	); err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *usersRepo) UpdateRole(ctx context.Context, userID string, role domain.Role) error {
	return execOne(ctx, r.q, r.d,
		`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		string(role), utc(time.Now()), userID,
	)
}

func (r *usersRepo) UpdateStatus(ctx context.Context, userID string, status domain.UserStatus) error {
	return execOne(ctx, r.q, r.d,
		`UPDATE users SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), utc(time.Now()), userID,
	)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	return execOne(ctx, r.q, r.d,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		nullString(hash), utc(time.Now()), userID,
	)
}

func (r *usersRepo) UpdateProfile(ctx context.Context, userID, name, avatarURL string) error {
	return execOne(ctx, r.q, r.d,
		`UPDATE users SET name = ?, avatar_url = ?, updated_at = ? WHERE id = ?`,
		name, nullString(avatarURL), utc(time.Now()), userID,
	)
}

func (r *usersRepo) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	return execOne(ctx, r.q, r.d,
		`UPDATE users SET last_login_at = ? WHERE id = ?`,
		utc(at), userID,
	)
}
