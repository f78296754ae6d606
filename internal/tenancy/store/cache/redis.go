// Package cache provides a Redis backed session cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "tenancy:session:"

// NewClient connects to url (redis://...) and checks the connection.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// SessionCache stores session rows as JSON keyed by token fingerprint.
type SessionCache struct {
	client redis.UniversalClient
}

func NewSessionCache(client redis.UniversalClient) *SessionCache {
	return &SessionCache{client: client}
}

type sessionEntry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	TenantID     string    `json:"tenant_id"`
	TokenHash    string    `json:"token_hash"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

func (c *SessionCache) Get(ctx context.Context, tokenHash string) (domain.Session, bool, error) {
	data, err := c.client.Get(ctx, sessionKeyPrefix+tokenHash).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, false, nil
	}
	if err != nil {
		return domain.Session{}, false, err
	}

	var e sessionEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return domain.Session{}, false, fmt.Errorf("decode cached session: %w", err)
	}
	return domain.Session{
		ID:           e.ID,
		UserID:       e.UserID,
		TenantID:     e.TenantID,
		TokenHash:    e.TokenHash,
		CreatedAt:    e.CreatedAt,
		ExpiresAt:    e.ExpiresAt,
		LastActiveAt: e.LastActiveAt,
	}, true, nil
}

func (c *SessionCache) Put(ctx context.Context, s domain.Session, ttl time.Duration) error {
	data, err := json.Marshal(sessionEntry{
		ID:           s.ID,
		UserID:       s.UserID,
		TenantID:     s.TenantID,
		TokenHash:    s.TokenHash,
		CreatedAt:    s.CreatedAt,
		ExpiresAt:    s.ExpiresAt,
		LastActiveAt: s.LastActiveAt,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKeyPrefix+s.TokenHash, data, ttl).Err()
}

func (c *SessionCache) Delete(ctx context.Context, tokenHashes ...string) error {
	if len(tokenHashes) == 0 {
		return nil
	}
	keys := make([]string, len(tokenHashes))
	for i, h := range tokenHashes {
		keys[i] = sessionKeyPrefix + h
	}
	return c.client.Del(ctx, keys...).Err()
}
