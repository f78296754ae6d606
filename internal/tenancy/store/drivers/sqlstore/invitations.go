package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/jmoiron/sqlx"
)

type invitationRow struct {
	ID         string         `db:"id"`
	Email      string         `db:"email"`
	TenantID   string         `db:"tenant_id"`
	Role       string         `db:"role"`
	TokenHash  string         `db:"token_hash"`
	Status     string         `db:"status"`
	InvitedBy  string         `db:"invited_by"`
	AcceptedBy sql.NullString `db:"accepted_by"`
	ExpiresAt  time.Time      `db:"expires_at"`
	AcceptedAt sql.NullTime   `db:"accepted_at"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (r invitationRow) toDomain() domain.Invitation {
	return domain.Invitation{
		ID:         r.ID,
		Email:      r.Email,
		TenantID:   r.TenantID,
		Role:       domain.Role(r.Role),
		TokenHash:  r.TokenHash,
		Status:     domain.InvitationStatus(r.Status),
		InvitedBy:  r.InvitedBy,
		AcceptedBy: r.AcceptedBy.String,
		ExpiresAt:  r.ExpiresAt,
		AcceptedAt: timePtr(r.AcceptedAt),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

const invitationColumns = `id, email, tenant_id, role, token_hash, status, invited_by, accepted_by, expires_at, accepted_at, created_at, updated_at`

type invitationsRepo struct {
	q sqlx.ExtContext
	d Dialect
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	now := utc(time.Now())
	_, err := exec(ctx, r.q, r.d, `
		INSERT INTO invitations (`+invitationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Email, inv.TenantID, string(inv.Role), inv.TokenHash, string(inv.Status),
		inv.InvitedBy, nullString(inv.AcceptedBy), utc(inv.ExpiresAt), nullTime(inv.AcceptedAt),
		now, now,
	)
	return err
}

func (r *invitationsRepo) getOne(ctx context.Context, where string, args ...any) (domain.Invitation, error) {
	var row invitationRow
	if err := get(ctx, r.q, &row, `SELECT `+invitationColumns+` FROM invitations WHERE `+where, args...); err != nil {
		return domain.Invitation{}, err
	}
	return row.toDomain(), nil
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *invitationsRepo) GetInvitationByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	return r.getOne(ctx, `token_hash = ?`, hash)
}

func (r *invitationsRepo) GetPendingInvitation(ctx context.Context, email, tenantID string) (domain.Invitation, error) {
	return r.getOne(ctx, `email = ? AND tenant_id = ? AND status = 'pending'`, email, tenantID)
}

func (r *invitationsRepo) ListPendingInvitations(ctx context.Context, tenantID string) ([]domain.Invitation, error) {
	var rows []invitationRow
	if err := list(ctx, r.q, &rows,
		`SELECT `+invitationColumns+` FROM invitations
		 WHERE tenant_id = ? AND status = 'pending'
		 ORDER BY created_at DESC, id DESC`, tenantID,
	); err != nil {
		return nil, err
	}
	out := make([]domain.Invitation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *invitationsRepo) MarkInvitationAccepted(ctx context.Context, id, userID string, at time.Time) error {
	n, err := exec(ctx, r.q, r.d, `
		UPDATE invitations
		SET status = 'accepted', accepted_by = ?, accepted_at = ?, updated_at = ?
		WHERE id = ? AND status = 'pending'`,
		userID, utc(at), utc(at), id,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrConflict
	}
	return nil
}

func (r *invitationsRepo) MarkInvitationExpired(ctx context.Context, id string) error {
	_, err := exec(ctx, r.q, r.d,
		`UPDATE invitations SET status = 'expired', updated_at = ? WHERE id = ? AND status = 'pending'`,
		utc(time.Now()), id,
	)
	return err
}

func (r *invitationsRepo) ExpirePendingInvitations(ctx context.Context, now time.Time) (int64, error) {
	return exec(ctx, r.q, r.d,
		`UPDATE invitations SET status = 'expired', updated_at = ? WHERE status = 'pending' AND expires_at <= ?`,
		utc(now), utc(now),
	)
}
