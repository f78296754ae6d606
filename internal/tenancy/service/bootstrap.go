package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/audit"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

type BootstrapRequest struct {
	TenantName      string   `json:"tenantName" validate:"required,min=2,max=100"`
	TenantSubdomain string   `json:"tenantSubdomain" validate:"required,subdomain"`
	Plan            string   `json:"plan" validate:"omitempty,oneof=basic pro enterprise"`
	Features        []string `json:"features" validate:"max=32,dive,feature"`
	AdminEmail      string   `json:"adminEmail" validate:"required,email,max=254"`
	AdminName       string   `json:"adminName" validate:"required,min=2,max=100"`
	AdminPassword   string   `json:"adminPassword" validate:"required,min=8,max=128"`
}

// Data converts the request into the domain seed.
func (r BootstrapRequest) Data() domain.BootstrapData {
	return domain.BootstrapData{
		TenantName:      strings.TrimSpace(r.TenantName),
		TenantSubdomain: strings.ToLower(strings.TrimSpace(r.TenantSubdomain)),
		Plan:            domain.Plan(r.Plan),
		Features:        r.Features,
		AdminEmail:      domain.NormalizeEmail(r.AdminEmail),
		AdminName:       strings.TrimSpace(r.AdminName),
		AdminPassword:   r.AdminPassword,
	}
}

// BootstrapResult names what Bootstrap created.
type BootstrapResult struct {
	TenantID    string
	AdminUserID string
}

type BootstrapService struct {
	Store   store.Store
	Tenants *TenantService
	Hasher  cryptox.Hasher
	Audit   *audit.Logger
	Token   string // Pre-configured bootstrap token
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Tenants().IsEmpty(ctx)
	if err != nil {
		return false, unavailable(err)
	}
	return !empty, nil
}

// Authorized reports whether token matches the configured bootstrap token.
// An unset token never matches.
func (s *BootstrapService) Authorized(token string) bool {
	return s.Token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) == 1
}

// Bootstrap creates the first tenant and its admin. It only works once and
// only with the configured token.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, req BootstrapRequest) (BootstrapResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate the token before anything else.
	if !s.Authorized(token) {
		log.Warn("unauthorized bootstrap attempt")
		return BootstrapResult{}, ErrBootstrapUnauthorized
	}
	return s.bootstrap(ctx, req)
}

// BootstrapLocal is Bootstrap without the token, for operators running the
// CLI against the database directly.
func (s *BootstrapService) BootstrapLocal(ctx context.Context, req BootstrapRequest) (BootstrapResult, error) {
	return s.bootstrap(ctx, req)
}

func (s *BootstrapService) bootstrap(ctx context.Context, req BootstrapRequest) (BootstrapResult, error) {
	log := slogx.FromContext(ctx)

	// 2. Validate the request.
	if err := validateStruct(req); err != nil {
		return BootstrapResult{}, err
	}
	data := req.Data()

	// 3. Refuse when already bootstrapped.
	done, err := s.IsBootstrapped(ctx)
	if err != nil {
		log.Error("failed to check bootstrap state", slog.Any("error", err))
		return BootstrapResult{}, err
	}
	if done {
		log.Warn("attempted bootstrap on already-bootstrapped system")
		return BootstrapResult{}, ErrAlreadyBootstrapped
	}

	// 4. Hash the admin password.
	passHash, err := s.Hasher.Hash(data.AdminPassword)
	if err != nil {
		log.Error("failed to hash admin password", slog.Any("error", err))
		return BootstrapResult{}, unavailable(err)
	}

	// 5. Tenant, admin, owner link and default grant in one transaction.
	tenant := s.Tenants.newTenant(CreateTenantRequest{
		Name:      data.TenantName,
		Subdomain: data.TenantSubdomain,
		Plan:      data.Plan,
		Features:  data.Features,
	})
	admin := domain.User{
		ID:           idx.New().String(),
		Email:        data.AdminEmail,
		Name:         data.AdminName,
		TenantID:     tenant.ID,
		Role:         domain.RoleAdmin,
		Status:       domain.UserActive,
		PasswordHash: passHash,
		Provider:     domain.ProviderCredentials,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Tenants().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrAlreadyBootstrapped
		}
		if err := tx.Tenants().CreateTenant(ctx, tenant); err != nil {
			return err
		}
		if err := tx.Users().CreateUser(ctx, admin); err != nil {
			return err
		}
		if err := tx.Tenants().SetTenantOwner(ctx, tenant.ID, admin.ID); err != nil {
			return err
		}
		return tx.Permissions().GrantPermission(ctx, domain.DefaultPermission(admin.ID, tenant.ID))
	})
	if errors.Is(err, ErrAlreadyBootstrapped) || errors.Is(err, store.ErrAlreadyExists) {
		return BootstrapResult{}, ErrAlreadyBootstrapped
	}
	if err != nil {
		log.Error("failed to bootstrap", slog.Any("error", err))
		return BootstrapResult{}, unavailable(err)
	}

	s.Audit.LogAction(ctx, tenant.ID, admin.ID, audit.ActionBootstrap, "tenant", tenant.ID, audit.StatusSuccess, tenant.Subdomain)
	log.Info("successfully bootstrapped system",
		slog.String("tenant_id", tenant.ID),
		slog.String("subdomain", tenant.Subdomain),
		slog.String("admin_user_id", admin.ID),
	)
	return BootstrapResult{TenantID: tenant.ID, AdminUserID: admin.ID}, nil
}
