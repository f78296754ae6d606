package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/jmoiron/sqlx"
)

type tenantRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Subdomain    string         `db:"subdomain"`
	CustomDomain sql.NullString `db:"custom_domain"`
	Plan         string         `db:"plan"`
	Features     string         `db:"features"`
	Status       string         `db:"status"`
	TrialEndsAt  sql.NullTime   `db:"trial_ends_at"`
	OwnerID      sql.NullString `db:"owner_id"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r tenantRow) toDomain() domain.Tenant {
	return domain.Tenant{
		ID:           r.ID,
		Name:         r.Name,
		Subdomain:    r.Subdomain,
		CustomDomain: r.CustomDomain.String,
		Plan:         domain.Plan(r.Plan),
		Features:     splitFields(r.Features),
		Status:       domain.TenantStatus(r.Status),
		TrialEndsAt:  timePtr(r.TrialEndsAt),
		OwnerID:      r.OwnerID.String,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

const tenantColumns = `id, name, subdomain, custom_domain, plan, features, status, trial_ends_at, owner_id, created_at, updated_at`

type tenantsRepo struct {
	q sqlx.ExtContext
	d Dialect
}

func (r *tenantsRepo) CreateTenant(ctx context.Context, t domain.Tenant) error {
	now := utc(time.Now())
	_, err := exec(ctx, r.q, r.d, `
		INSERT INTO tenants (`+tenantColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Subdomain, nullString(t.CustomDomain), string(t.Plan),
		joinFields(t.Features), string(t.Status), nullTime(t.TrialEndsAt), nullString(t.OwnerID),
		now, now,
	)
	return err
}

func (r *tenantsRepo) GetTenantByID(ctx context.Context, id string) (domain.Tenant, error) {
	var row tenantRow
	if err := get(ctx, r.q, &row, `SELECT `+tenantColumns+` FROM tenants WHERE id = ?`, id); err != nil {
		return domain.Tenant{}, err
	}
	return row.toDomain(), nil
}

func (r *tenantsRepo) GetTenantBySubdomain(ctx context.Context, subdomain string) (domain.Tenant, error) {
	var row tenantRow
	if err := get(ctx, r.q, &row, `SELECT `+tenantColumns+` FROM tenants WHERE subdomain = ?`, subdomain); err != nil {
		return domain.Tenant{}, err
	}
	return row.toDomain(), nil
}

func (r *tenantsRepo) UpdateTenantStatus(ctx context.Context, id string, status domain.TenantStatus) error {
	return execOne(ctx, r.q, r.d,
		`UPDATE tenants SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), utc(time.Now()), id,
	)
}

func (r *tenantsRepo) SetTenantOwner(ctx context.Context, id, ownerID string) error {
	return execOne(ctx, r.q, r.d,
		`UPDATE tenants SET owner_id = ?, updated_at = ? WHERE id = ?`,
		nullString(ownerID), utc(time.Now()), id,
	)
}

func (r *tenantsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	if err := get(ctx, r.q, &n, `SELECT COUNT(*) FROM tenants`); err != nil {
		return false, err
	}
	return n == 0, nil
}
