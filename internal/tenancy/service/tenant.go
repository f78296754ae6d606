package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/audit"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

type CreateTenantRequest struct {
	Name      string      `json:"name" validate:"required,min=2,max=100"`
	Subdomain string      `json:"subdomain" validate:"required,subdomain"`
	Plan      domain.Plan `json:"plan" validate:"omitempty,oneof=basic pro enterprise"`
	Features  []string    `json:"features" validate:"max=32,dive,feature"`
	TrialDays int         `json:"trialDays" validate:"min=0,max=365"`
}

type TenantService struct {
	Store store.Store
	Audit *audit.Logger

	// BaseURL is where the application is served, e.g. https://example.com.
	BaseURL string
	// Prod selects subdomain URLs; elsewhere tenants live under a path.
	Prod bool
	Now  func() time.Time
}

// Create registers a new tenant.
func (s *TenantService) Create(ctx context.Context, req CreateTenantRequest) (domain.Tenant, error) {
	log := slogx.FromContext(ctx)

	req.Subdomain = strings.ToLower(strings.TrimSpace(req.Subdomain))
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return domain.Tenant{}, err
	}

	tenant := s.newTenant(req)
	if err := s.Store.Tenants().CreateTenant(ctx, tenant); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("tenant subdomain taken", slog.String("subdomain", tenant.Subdomain))
			return domain.Tenant{}, ErrSubdomainTaken
		}
		log.Error("failed to create tenant", slog.Any("error", err))
		return domain.Tenant{}, unavailable(err)
	}

	s.Audit.LogAction(ctx, tenant.ID, "", audit.ActionTenantCreate, "tenant", tenant.ID, audit.StatusSuccess, tenant.Subdomain)
	log.Info("tenant created",
		slog.String("tenant_id", tenant.ID),
		slog.String("subdomain", tenant.Subdomain),
		slog.String("plan", string(tenant.Plan)),
	)
	return tenant, nil
}

func (s *TenantService) newTenant(req CreateTenantRequest) domain.Tenant {
	now := nowOr(s.Now)
	t := domain.Tenant{
		ID:        idx.NewAt(now).String(),
		Name:      req.Name,
		Subdomain: req.Subdomain,
		Plan:      req.Plan,
		Features:  domain.NormalizeFeatures(req.Features),
		Status:    domain.TenantActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if t.Plan == "" {
		t.Plan = domain.PlanBasic
	}
	if req.TrialDays > 0 {
		ends := now.Add(time.Duration(req.TrialDays) * 24 * time.Hour)
		t.Status = domain.TenantTrial
		t.TrialEndsAt = &ends
	}
	return t
}

// Lookup finds a tenant by subdomain, falling back to id.
func (s *TenantService) Lookup(ctx context.Context, ref string) (domain.Tenant, error) {
	t, err := lookupTenant(ctx, s.Store.Tenants(), ref)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Tenant{}, ErrTenantNotFound
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to look up tenant", slog.Any("error", err))
		return domain.Tenant{}, unavailable(err)
	}
	return t, nil
}

func (s *TenantService) FeatureEnabled(t domain.Tenant, feature string) bool {
	return t.HasFeature(feature)
}

// URL is the tenant's entry point: https://sub.example.com in prod,
// http://localhost:8080/sub elsewhere.
func (s *TenantService) URL(t domain.Tenant) string {
	base, err := url.Parse(s.BaseURL)
	if err != nil || base.Host == "" {
		return "/" + t.Subdomain
	}
	if s.Prod {
		base.Host = t.Subdomain + "." + base.Host
		base.Path = "/"
		return base.String()
	}
	base.Path = strings.TrimSuffix(base.Path, "/") + "/" + t.Subdomain
	return base.String()
}
