package sqlstore

import (
	"context"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/jmoiron/sqlx"
)

type permissionRow struct {
	UserID   string `db:"user_id"`
	TenantID string `db:"tenant_id"`
	Resource string `db:"resource"`
	Action   string `db:"action"`
}

type permissionsRepo struct {
	q sqlx.ExtContext
	d Dialect
}

// GrantPermission is idempotent: granting an existing permission succeeds.
func (r *permissionsRepo) GrantPermission(ctx context.Context, p domain.Permission) error {
	_, err := exec(ctx, r.q, r.d, `
		INSERT INTO permissions (user_id, tenant_id, resource, action) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, tenant_id, resource, action) DO NOTHING`,
		p.UserID, p.TenantID, p.Resource, p.Action,
	)
	return err
}

func (r *permissionsRepo) ListPermissions(ctx context.Context, userID, tenantID string) ([]domain.Permission, error) {
	var rows []permissionRow
	if err := list(ctx, r.q, &rows, `
		SELECT user_id, tenant_id, resource, action
		FROM permissions
		WHERE user_id = ? AND tenant_id = ?
		ORDER BY resource, action`, userID, tenantID,
	); err != nil {
		return nil, err
	}
	out := make([]domain.Permission, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Permission(row))
	}
	return out, nil
}
