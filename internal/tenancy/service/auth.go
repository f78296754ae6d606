package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/audit"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/identity"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/observability/metrics"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Tenant   string `json:"tenantId" validate:"required"`
}

type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	Tenant          string `json:"tenantId" validate:"required"`
}

type UpdateProfileRequest struct {
	Name      string `json:"name" validate:"omitempty,min=2,max=100"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url,max=2048"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128"`
}

// LoginResult is what a successful sign-in hands back to the caller.
type LoginResult struct {
	Session  SessionHandle
	User     domain.SanitizedUser
	Tenant   domain.Tenant
	Redirect string
}

// Profile is a user together with their tenant and grants.
type Profile struct {
	User        domain.SanitizedUser
	Tenant      domain.Tenant
	Permissions []domain.Permission
}

// AuthService is the entry point for sign-in and account management. It
// composes the credential verifier and session manager.
type AuthService struct {
	Store       store.Store
	Credentials *CredentialService
	Sessions    *SessionService
	Hasher      cryptox.Hasher
	Audit       *audit.Logger
	Now         func() time.Time
}

// Login verifies credentials for a tenant and opens a session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, meta ClientMeta) (LoginResult, error) {
	log := slogx.FromContext(ctx)

	if err := validateStruct(req); err != nil {
		return LoginResult{}, err
	}

	user, err := s.Credentials.Verify(ctx, req.Email, req.Password, req.Tenant)
	if err != nil {
		return LoginResult{}, err
	}
	if user == nil {
		metrics.ObserveLogin(string(domain.ProviderCredentials), "failure")
		s.Audit.LogAction(ctx, req.Tenant, "", audit.ActionLogin, "session", "", audit.StatusFailure, domain.NormalizeEmail(req.Email))
		return LoginResult{}, ErrInvalidCredentials
	}

	res, err := s.openSession(ctx, *user, meta)
	if err != nil {
		return LoginResult{}, err
	}

	metrics.ObserveLogin(string(domain.ProviderCredentials), "success")
	s.Audit.LogAction(ctx, user.TenantID, user.ID, audit.ActionLogin, "session", res.Session.SessionID, audit.StatusSuccess, string(domain.ProviderCredentials))
	log.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("tenant_id", user.TenantID),
	)
	return res, nil
}

// Logout revokes the session. It is idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.Sessions.Revoke(ctx, token); err != nil {
		return err
	}
	s.Audit.LogAction(ctx, "", "", audit.ActionLogout, "session", "", audit.StatusSuccess, "")
	return nil
}

// Register creates a password account with role user in an existing tenant
// and signs it in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest, meta ClientMeta) (LoginResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return LoginResult{}, err
	}
	if req.Password != req.ConfirmPassword {
		return LoginResult{}, invalid("confirmPassword", "passwords do not match")
	}
	email := domain.NormalizeEmail(req.Email)

	// 2. The tenant must exist and accept sign-ins.
	tenant, err := lookupTenant(ctx, s.Store.Tenants(), req.Tenant)
	if errors.Is(err, store.ErrNotFound) {
		return LoginResult{}, invalid("tenantId", "tenant does not exist")
	}
	if err != nil {
		log.Error("failed to load tenant", slog.Any("error", err))
		return LoginResult{}, unavailable(err)
	}
	if !tenant.Usable(nowOr(s.Now)) {
		return LoginResult{}, invalid("tenantId", "tenant is not accepting new members")
	}

	// 3. Hash and create the user with the default grant.
	hash, err := s.Hasher.Hash(req.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return LoginResult{}, unavailable(err)
	}

	now := nowOr(s.Now)
	user := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        email,
		Name:         req.Name,
		TenantID:     tenant.ID,
		Role:         domain.RoleUser,
		Status:       domain.UserActive,
		PasswordHash: hash,
		Provider:     domain.ProviderCredentials,
		CreatedAt:    now,
	}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		return tx.Permissions().GrantPermission(ctx, domain.DefaultPermission(user.ID, tenant.ID))
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		log.Warn("registration with existing email", slog.String("email", email))
		return LoginResult{}, ErrEmailTaken
	}
	if err != nil {
		log.Error("failed to create user", slog.Any("error", err))
		return LoginResult{}, unavailable(err)
	}

	s.Audit.LogAction(ctx, tenant.ID, user.ID, audit.ActionRegister, "user", user.ID, audit.StatusSuccess, "")
	log.Info("user registered", slog.String("user_id", user.ID), slog.String("tenant_id", tenant.ID))

	// 4. Sign the new account in.
	res, err := s.openSession(ctx, user.Sanitize(), meta)
	if err != nil {
		return LoginResult{}, err
	}
	return res, nil
}

// SignInWithIdentity opens a session for an identity proven by an external
// provider. The identity must match an active user of the tenant; anything
// else is reported as invalid credentials.
func (s *AuthService) SignInWithIdentity(ctx context.Context, id identity.Identity, tenantRef string, meta ClientMeta) (LoginResult, error) {
	log := slogx.FromContext(ctx)
	provider := string(id.Kind.Provider())

	fail := func(reason string) (LoginResult, error) {
		log.Warn("external sign-in refused",
			slog.String("reason", reason),
			slog.String("provider", provider),
			slog.String("email", id.Email),
			slog.String("tenant", tenantRef),
		)
		metrics.ObserveLogin(provider, "failure")
		metrics.ObserveCredentialFailure(reason)
		return LoginResult{}, ErrInvalidCredentials
	}

	tenant, err := lookupTenant(ctx, s.Store.Tenants(), tenantRef)
	if errors.Is(err, store.ErrNotFound) {
		return fail(reasonUnknownTenant)
	}
	if err != nil {
		log.Error("failed to load tenant", slog.Any("error", err))
		return LoginResult{}, unavailable(err)
	}
	if !tenant.Usable(nowOr(s.Now)) {
		return fail(reasonTenantUnusable)
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, id.Email)
	if errors.Is(err, store.ErrNotFound) {
		return fail(reasonUnknownUser)
	}
	if err != nil {
		log.Error("failed to load user", slog.Any("error", err))
		return LoginResult{}, unavailable(err)
	}
	switch {
	case user.TenantID != tenant.ID:
		return fail(reasonTenantMismatch)
	case user.Status != domain.UserActive:
		return fail(reasonInactiveUser)
	case id.Kind == identity.KindOIDC && user.ExternalID != "" && user.ExternalID != id.ExternalID:
		return fail("external_id_mismatch")
	}

	res, err := s.openSession(ctx, user.Sanitize(), meta)
	if err != nil {
		return LoginResult{}, err
	}

	metrics.ObserveLogin(provider, "success")
	s.Audit.LogAction(ctx, tenant.ID, user.ID, audit.ActionLogin, "session", res.Session.SessionID, audit.StatusSuccess, provider)
	log.Info("user logged in", slog.String("user_id", user.ID), slog.String("provider", provider))
	return res, nil
}

func (s *AuthService) openSession(ctx context.Context, user domain.SanitizedUser, meta ClientMeta) (LoginResult, error) {
	tenant, err := s.Store.Tenants().GetTenantByID(ctx, user.TenantID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load user tenant", slog.Any("error", err))
		return LoginResult{}, unavailable(err)
	}

	handle, err := s.Sessions.Create(ctx, user.ID, user.TenantID, meta)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		Session:  handle,
		User:     user,
		Tenant:   tenant,
		Redirect: "/" + tenant.Subdomain + "/dashboard",
	}, nil
}

// ChangeRole sets another user's role. The actor must be an admin of the
// target's tenant and cannot change their own role.
func (s *AuthService) ChangeRole(ctx context.Context, actorID, userID string, role domain.Role) (domain.SanitizedUser, error) {
	log := slogx.FromContext(ctx)

	if !role.Valid() {
		return domain.SanitizedUser{}, invalid("role", "must be one of: admin manager user")
	}

	target, err := s.loadUser(ctx, userID)
	if err != nil {
		return domain.SanitizedUser{}, err
	}
	if _, err := requireActor(ctx, s.Store.Users(), s.Audit, actorID, target.TenantID, "user", domain.RoleAdmin); err != nil {
		return domain.SanitizedUser{}, err
	}
	if actorID == userID {
		log.Warn("admin attempted to change own role", slog.String("user_id", userID))
		return domain.SanitizedUser{}, ErrForbidden
	}

	if err := s.Store.Users().UpdateRole(ctx, userID, role); err != nil {
		log.Error("failed to update role", slog.Any("error", err))
		return domain.SanitizedUser{}, unavailable(err)
	}

	s.Audit.LogAction(ctx, target.TenantID, actorID, audit.ActionRoleChange, "user", userID, audit.StatusSuccess,
		string(target.Role)+"->"+string(role))
	log.Info("user role changed",
		slog.String("user_id", userID),
		slog.String("from", string(target.Role)),
		slog.String("to", string(role)),
	)

	target.Role = role
	return target.Sanitize(), nil
}

// SetStatus activates or suspends another user. Suspension ends all of the
// user's sessions.
func (s *AuthService) SetStatus(ctx context.Context, actorID, userID string, status domain.UserStatus) (domain.SanitizedUser, error) {
	log := slogx.FromContext(ctx)

	if status != domain.UserActive && status != domain.UserSuspended {
		return domain.SanitizedUser{}, invalid("status", "must be one of: active suspended")
	}

	target, err := s.loadUser(ctx, userID)
	if err != nil {
		return domain.SanitizedUser{}, err
	}
	if _, err := requireActor(ctx, s.Store.Users(), s.Audit, actorID, target.TenantID, "user", domain.RoleAdmin); err != nil {
		return domain.SanitizedUser{}, err
	}
	if actorID == userID {
		log.Warn("admin attempted to change own status", slog.String("user_id", userID))
		return domain.SanitizedUser{}, ErrForbidden
	}

	if err := s.Store.Users().UpdateStatus(ctx, userID, status); err != nil {
		log.Error("failed to update status", slog.Any("error", err))
		return domain.SanitizedUser{}, unavailable(err)
	}
	if status == domain.UserSuspended {
		if err := s.Sessions.RevokeAllForUser(ctx, userID); err != nil {
			return domain.SanitizedUser{}, err
		}
	}

	s.Audit.LogAction(ctx, target.TenantID, actorID, audit.ActionStatusChange, "user", userID, audit.StatusSuccess, string(status))
	log.Info("user status changed", slog.String("user_id", userID), slog.String("status", string(status)))

	target.Status = status
	return target.Sanitize(), nil
}

// ChangePassword replaces a user's password after checking the current one.
// Every session of the user is revoked, including the caller's.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	log := slogx.FromContext(ctx)

	if err := validateStruct(req); err != nil {
		return err
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordHash == "" || !s.Hasher.Verify(req.CurrentPassword, user.PasswordHash) {
		log.Warn("password change with wrong current password", slog.String("user_id", userID))
		s.Audit.LogAction(ctx, user.TenantID, userID, audit.ActionPasswordChange, "user", userID, audit.StatusFailure, "")
		return ErrInvalidCredentials
	}

	hash, err := s.Hasher.Hash(req.NewPassword)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return unavailable(err)
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		log.Error("failed to store password", slog.Any("error", err))
		return unavailable(err)
	}
	if err := s.Sessions.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}

	s.Audit.LogAction(ctx, user.TenantID, userID, audit.ActionPasswordChange, "user", userID, audit.StatusSuccess, "")
	return nil
}

// UpdateProfile changes display fields. Empty fields are left as they are.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (domain.SanitizedUser, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return domain.SanitizedUser{}, err
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return domain.SanitizedUser{}, err
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}

	if err := s.Store.Users().UpdateProfile(ctx, user.ID, user.Name, user.AvatarURL); err != nil {
		slogx.FromContext(ctx).Error("failed to update profile", slog.Any("error", err))
		return domain.SanitizedUser{}, unavailable(err)
	}
	return user.Sanitize(), nil
}

// Profile returns the user with tenant and permissions.
func (s *AuthService) Profile(ctx context.Context, userID string) (Profile, error) {
	log := slogx.FromContext(ctx)

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	tenant, err := s.Store.Tenants().GetTenantByID(ctx, user.TenantID)
	if err != nil {
		log.Error("failed to load tenant", slog.Any("error", err))
		return Profile{}, unavailable(err)
	}
	perms, err := s.Store.Permissions().ListPermissions(ctx, user.ID, user.TenantID)
	if err != nil {
		log.Error("failed to load permissions", slog.Any("error", err))
		return Profile{}, unavailable(err)
	}

	return Profile{User: user.Sanitize(), Tenant: tenant, Permissions: perms}, nil
}

func (s *AuthService) loadUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load user", slog.Any("error", err))
		return domain.User{}, unavailable(err)
	}
	return user, nil
}
