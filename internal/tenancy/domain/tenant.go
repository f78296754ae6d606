package domain

import (
	"regexp"
	"slices"
	"strings"
	"time"
)

type Plan string

const (
	PlanBasic      Plan = "basic"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

func (p Plan) Valid() bool {
	switch p {
	case PlanBasic, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

type TenantStatus string

const (
	TenantActive    TenantStatus = "active"
	TenantTrial     TenantStatus = "trial"
	TenantSuspended TenantStatus = "suspended"
)

func (s TenantStatus) Valid() bool {
	switch s {
	case TenantActive, TenantTrial, TenantSuspended:
		return true
	}
	return false
}

var subdomainPattern = regexp.MustCompile(`^[a-z0-9-]{3,20}$`)

// ValidSubdomain reports whether s can be used as a tenant key.
func ValidSubdomain(s string) bool {
	return subdomainPattern.MatchString(s)
}

type Tenant struct {
	ID           string
	Name         string
	Subdomain    string
	CustomDomain string
	Plan         Plan
	Features     []string
	Status       TenantStatus
	TrialEndsAt  *time.Time
	OwnerID      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Usable reports whether members of the tenant may sign in at now. Suspended
// tenants and trials past their end date are not usable.
func (t Tenant) Usable(now time.Time) bool {
	switch t.Status {
	case TenantActive:
		return true
	case TenantTrial:
		return t.TrialEndsAt == nil || now.Before(*t.TrialEndsAt)
	default:
		return false
	}
}

func (t Tenant) HasFeature(feature string) bool {
	return slices.Contains(t.Features, strings.TrimSpace(feature))
}

// NormalizeFeatures trims, drops empties and de-duplicates while keeping order.
func NormalizeFeatures(in []string) []string {
	out := make([]string, 0, len(in))
	for _, f := range in {
		f = strings.TrimSpace(f)
		if f == "" || slices.Contains(out, f) {
			continue
		}
		out = append(out, f)
	}
	return out
}
