package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/patrickmn/go-cache"
)

// TokenBlacklist records revoked token ids until the token would expire anyway
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const blacklistKeyPrefix = "sunserve:revoked:"

var blacklistInstance TokenBlacklist

// InitTokenBlacklist picks Redis when redisURL is set, otherwise an in-memory cache
func InitTokenBlacklist(redisURL string) (TokenBlacklist, error) {
	if redisURL == "" {
		blacklistInstance = NewMemoryTokenBlacklist()
		return blacklistInstance, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	blacklistInstance = NewRedisTokenBlacklist(redis.NewClient(opts))
	return blacklistInstance, nil
}

// GetTokenBlacklist returns the process-wide revocation list
func GetTokenBlacklist() TokenBlacklist {
	return blacklistInstance
}

// SetTokenBlacklist replaces the process-wide revocation list (primarily for testing)
func SetTokenBlacklist(blacklist TokenBlacklist) {
	blacklistInstance = blacklist
}

// RedisTokenBlacklist keeps revoked ids as expiring Redis keys
type RedisTokenBlacklist struct {
	client *redis.Client
}

// NewRedisTokenBlacklist wraps an existing client
func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

// Ping checks the Redis connection
func (r *RedisTokenBlacklist) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Revoke stores tokenID until expiresAt; already expired tokens are skipped
func (r *RedisTokenBlacklist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, blacklistKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked
func (r *RedisTokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, blacklistKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// MemoryTokenBlacklist keeps revoked ids in a process-local TTL cache
type MemoryTokenBlacklist struct {
	cache *cache.Cache
}

// NewMemoryTokenBlacklist creates an empty in-memory revocation list
func NewMemoryTokenBlacklist() *MemoryTokenBlacklist {
	return &MemoryTokenBlacklist{cache: cache.New(cache.NoExpiration, 10*time.Minute)}
}

// Revoke stores tokenID until expiresAt
func (m *MemoryTokenBlacklist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	m.cache.Set(tokenID, struct{}{}, ttl)
	return nil
}

// IsRevoked reports whether tokenID has been revoked
func (m *MemoryTokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, found := m.cache.Get(tokenID)
	return found, nil
}
