package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store/drivers/postgres"
	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a throwaway postgres container and returns its DSN.
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container tests are skipped with -short")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "tenancy",
			"POSTGRES_PASSWORD": "tenancy",
			"POSTGRES_DB":       "tenancy",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://tenancy:tenancy@%s:%s/tenancy?sslmode=disable", host, port.Port())
}

func TestPostgresStore(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	s, err := postgres.NewStore(ctx, dsn, postgres.Options{MaxOpenConns: 4}, slogx.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.ApplyMigrations())

	tenant := domain.Tenant{
		ID: idx.New().String(), Name: "Acme", Subdomain: "acme",
		Plan: domain.PlanBasic, Status: domain.TenantActive,
	}
	require.NoError(t, s.Tenants().CreateTenant(ctx, tenant))

	admin := domain.User{
		ID: idx.New().String(), Email: "admin@example.com", Name: "Admin", TenantID: tenant.ID,
		Role: domain.RoleAdmin, Status: domain.UserActive, Provider: domain.ProviderCredentials,
	}
	require.NoError(t, s.Users().CreateUser(ctx, admin))

	dup := admin
	dup.ID = idx.New().String()
	require.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)

	t.Run("pending invitation is unique", func(t *testing.T) {
		inv := domain.Invitation{
			ID: idx.New().String(), Email: "bob@example.com", TenantID: tenant.ID, Role: domain.RoleUser,
			TokenHash: "hash-1", Status: domain.InvitationPending, InvitedBy: admin.ID,
			ExpiresAt: time.Now().Add(time.Hour),
		}
		require.NoError(t, s.Invitations().CreateInvitation(ctx, inv))

		again := inv
		again.ID = idx.New().String()
		again.TokenHash = "hash-2"
		require.ErrorIs(t, s.Invitations().CreateInvitation(ctx, again), store.ErrAlreadyExists)

		require.NoError(t, s.Invitations().MarkInvitationAccepted(ctx, inv.ID, admin.ID, time.Now()))
		require.ErrorIs(t, s.Invitations().MarkInvitationAccepted(ctx, inv.ID, admin.ID, time.Now()), store.ErrConflict)
	})

	t.Run("grant inside transaction", func(t *testing.T) {
		p := domain.DefaultPermission(admin.ID, tenant.ID)
		err := s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Permissions().GrantPermission(ctx, p); err != nil {
				return err
			}
			return tx.Permissions().GrantPermission(ctx, p)
		})
		require.NoError(t, err)

		perms, err := s.Permissions().ListPermissions(ctx, admin.ID, tenant.ID)
		require.NoError(t, err)
		require.Len(t, perms, 1)
	})
}
