// Package revocation fronts the Postgres token blacklist with an optional Redis cache.
package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/diary-service/internal/repository"
)

const keyPrefix = "revoked:"

// Cache is the subset of the redis client used by the store.
type Cache interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedStore answers revocation lookups from Redis and falls back to Postgres.
// Postgres stays the source of truth; Redis failures only cost a round trip.
type CachedStore struct {
	repo   repository.RevocationRepository
	cache  Cache
	logger *zap.Logger
	now    func() time.Time
}

// NewCachedStore wraps repo. A nil cache yields a pass-through store.
func NewCachedStore(repo repository.RevocationRepository, cache Cache, logger *zap.Logger) *CachedStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedStore{repo: repo, cache: cache, logger: logger, now: time.Now}
}

// Contains reports whether token was revoked.
func (s *CachedStore) Contains(ctx context.Context, token string) (bool, error) {
	if s.cache != nil {
		n, err := s.cache.Exists(ctx, cacheKey(token)).Result()
		if err == nil && n > 0 {
			return true, nil
		}
		if err != nil {
			s.logger.Warn("revocation cache lookup failed", zap.Error(err))
		}
	}

	revoked, err := s.repo.Contains(ctx, token)
	if err != nil {
		return false, err
	}
	if revoked {
		// Backfill without the original expiry; bounded so stale keys age out.
		s.remember(ctx, token, s.now().Add(time.Hour))
	}
	return revoked, nil
}

// Revoke persists the entry and then caches it until the token would have expired anyway.
func (s *CachedStore) Revoke(ctx context.Context, token, userID string, expiredAt time.Time) (bool, error) {
	created, err := s.repo.Revoke(ctx, token, userID, expiredAt)
	if err != nil {
		return false, err
	}
	s.remember(ctx, token, expiredAt)
	return created, nil
}

// PurgeExpired drops entries past their expiry. Cached keys expire on their own.
func (s *CachedStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.repo.PurgeExpired(ctx, now)
}

func (s *CachedStore) remember(ctx context.Context, token string, until time.Time) {
	if s.cache == nil {
		return
	}
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(token), 1, ttl).Err(); err != nil {
		s.logger.Warn("revocation cache write failed", zap.Error(err))
	}
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}
