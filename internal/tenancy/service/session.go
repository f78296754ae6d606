package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/observability/metrics"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
	"github.com/aussiebroadwan/tenancy/pkg/idx"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

// SessionCache is an optional read-through cache of session rows keyed by
// token fingerprint. Implementations must tolerate being unavailable; the
// store remains the source of truth.
type SessionCache interface {
	Get(ctx context.Context, tokenHash string) (domain.Session, bool, error)
	Put(ctx context.Context, s domain.Session, ttl time.Duration) error
	Delete(ctx context.Context, tokenHashes ...string) error
}

// SessionHandle is returned once at creation; Token is never stored.
type SessionHandle struct {
	SessionID string
	Token     string
	ExpiresAt time.Time
}

// Validation is the outcome of checking a session token. A zero value means
// not valid.
type Validation struct {
	Valid     bool
	SessionID string
	UserID    string
	TenantID  string
	ExpiresAt time.Time
	User      domain.SanitizedUser
}

// Principal returns the authorization identity, or nil when not valid.
func (v Validation) Principal() *domain.Principal {
	if !v.Valid {
		return nil
	}
	return &domain.Principal{
		UserID:    v.UserID,
		TenantID:  v.TenantID,
		Email:     v.User.Email,
		Name:      v.User.Name,
		Role:      v.User.Role,
		SessionID: v.SessionID,
	}
}

type SessionService struct {
	Store store.Store
	Cache SessionCache // optional

	// TTL is the fixed lifetime of a session. Sessions are never extended.
	TTL      time.Duration
	CacheTTL time.Duration
	Now      func() time.Time
	NewToken TokenFunc
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultSessionTTL
	}
	return s.TTL
}

// Create issues a session for a user in a tenant and records the login time.
func (s *SessionService) Create(ctx context.Context, userID, tenantID string, meta ClientMeta) (SessionHandle, error) {
	log := slogx.FromContext(ctx)

	// 1. Generate the token; a broken random source fails the operation.
	token, err := tokenOr(s.NewToken)()
	if err != nil {
		log.Error("failed to generate session token", slog.Any("error", err))
		return SessionHandle{}, unavailable(err)
	}

	// 2. Persist the fingerprint and bump last login together.
	now := nowOr(s.Now)
	sess := domain.Session{
		ID:           idx.NewAt(now).String(),
		UserID:       userID,
		TenantID:     tenantID,
		TokenHash:    cryptox.FingerprintToken(token),
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl()),
		LastActiveAt: now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().CreateSession(ctx, sess); err != nil {
			return err
		}
		return tx.Users().TouchLastLogin(ctx, userID, now)
	})
	if err != nil {
		log.Error("failed to create session",
			slog.String("user_id", userID),
			slog.String("tenant_id", tenantID),
			slog.Any("error", err),
		)
		return SessionHandle{}, unavailable(err)
	}

	metrics.ObserveSessionCreated()
	log.Debug("session created",
		slog.String("session_id", sess.ID),
		slog.String("user_id", userID),
		slog.String("tenant_id", tenantID),
		slog.Time("expires_at", sess.ExpiresAt),
	)

	return SessionHandle{SessionID: sess.ID, Token: token, ExpiresAt: sess.ExpiresAt}, nil
}

// Validate reports whether token names a live session of an active user who
// still belongs to the session's tenant. The error is non-nil only when
// storage is unavailable.
func (s *SessionService) Validate(ctx context.Context, token string) (Validation, error) {
	log := slogx.FromContext(ctx)
	if token == "" {
		return Validation{}, nil
	}

	now := nowOr(s.Now)
	hash := cryptox.FingerprintToken(token)

	// 1. Find the session, cache first.
	sess, found, err := s.lookup(ctx, hash)
	if err != nil {
		metrics.ObserveSessionValidation("error")
		log.Error("failed to load session", slog.Any("error", err))
		return Validation{}, unavailable(err)
	}
	if !found {
		metrics.ObserveSessionValidation("invalid")
		return Validation{}, nil
	}

	// 2. Expiry is checked lazily on every read.
	if sess.Expired(now) {
		s.evict(ctx, hash)
		metrics.ObserveSessionValidation("invalid")
		log.Debug("session expired", slog.String("session_id", sess.ID))
		return Validation{}, nil
	}

	// 3. The user must still exist, be active and belong to the tenant.
	user, err := s.Store.Users().GetUserByID(ctx, sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		metrics.ObserveSessionValidation("invalid")
		return Validation{}, nil
	}
	if err != nil {
		metrics.ObserveSessionValidation("error")
		log.Error("failed to load session user", slog.Any("error", err))
		return Validation{}, unavailable(err)
	}
	if user.Status != domain.UserActive || user.TenantID != sess.TenantID {
		metrics.ObserveSessionValidation("invalid")
		log.Info("session rejected for user state",
			slog.String("session_id", sess.ID),
			slog.String("user_id", user.ID),
			slog.String("status", string(user.Status)),
		)
		return Validation{}, nil
	}

	// 4. Record activity. Expiry stays where it was.
	if err := s.Store.Sessions().TouchSession(ctx, sess.ID, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.evict(ctx, hash)
			metrics.ObserveSessionValidation("invalid")
			return Validation{}, nil
		}
		metrics.ObserveSessionValidation("error")
		log.Error("failed to touch session", slog.Any("error", err))
		return Validation{}, unavailable(err)
	}

	metrics.ObserveSessionValidation("valid")
	return Validation{
		Valid:     true,
		SessionID: sess.ID,
		UserID:    user.ID,
		TenantID:  sess.TenantID,
		ExpiresAt: sess.ExpiresAt,
		User:      user.Sanitize(),
	}, nil
}

// Revoke deletes the session for token. Unknown tokens are not an error.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	hash := cryptox.FingerprintToken(token)

	if err := s.Store.Sessions().DeleteSessionByTokenHash(ctx, hash); err != nil {
		slogx.FromContext(ctx).Error("failed to revoke session", slog.Any("error", err))
		return unavailable(err)
	}
	s.evict(ctx, hash)
	return nil
}

// RevokeAllForUser ends every session of a user.
func (s *SessionService) RevokeAllForUser(ctx context.Context, userID string) error {
	log := slogx.FromContext(ctx)

	hashes, err := s.Store.Sessions().DeleteSessionsByUser(ctx, userID)
	if err != nil {
		log.Error("failed to revoke user sessions", slog.String("user_id", userID), slog.Any("error", err))
		return unavailable(err)
	}
	s.evict(ctx, hashes...)

	log.Info("revoked user sessions", slog.String("user_id", userID), slog.Int("count", len(hashes)))
	return nil
}

func (s *SessionService) lookup(ctx context.Context, hash string) (domain.Session, bool, error) {
	log := slogx.FromContext(ctx)

	if s.Cache != nil {
		sess, ok, err := s.Cache.Get(ctx, hash)
		switch {
		case err != nil:
			metrics.ObserveSessionCache("error")
			log.Warn("session cache read failed, using store", slog.Any("error", err))
		case ok:
			metrics.ObserveSessionCache("hit")
			return sess, true, nil
		default:
			metrics.ObserveSessionCache("miss")
		}
	}

	sess, err := s.Store.Sessions().GetSessionByTokenHash(ctx, hash)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, err
	}

	if s.Cache != nil {
		ttl := sess.ExpiresAt.Sub(nowOr(s.Now))
		if s.CacheTTL > 0 && s.CacheTTL < ttl {
			ttl = s.CacheTTL
		}
		if ttl > 0 {
			if err := s.Cache.Put(ctx, sess, ttl); err != nil {
				log.Warn("session cache write failed", slog.Any("error", err))
			}
		}
	}
	return sess, true, nil
}

func (s *SessionService) evict(ctx context.Context, hashes ...string) {
	if s.Cache == nil || len(hashes) == 0 {
		return
	}
	if err := s.Cache.Delete(ctx, hashes...); err != nil {
		slogx.FromContext(ctx).Warn("session cache eviction failed", slog.Any("error", err))
	}
}
