package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oas-switchboard/broadcaster/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

// cacheClient is the subset of *redis.Client the cache uses.
type cacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedStore reads through Redis in front of another Store. Cache errors
// are logged and the inner store is used instead.
type CachedStore struct {
	inner Store
	cache cacheClient
	ttl   time.Duration
}

func NewCachedStore(inner Store, cache cacheClient, ttl time.Duration) *CachedStore {
	return &CachedStore{inner: inner, cache: cache, ttl: ttl}
}

func cacheKey(journal, group, name string) string {
	return fmt.Sprintf("settings:%s:%s:%s", journal, group, name)
}

// uncached lists secrets that are always read from the inner store.
var uncached = map[string]bool{KeyPassword: true}

func (s *CachedStore) Get(ctx context.Context, journal, group, name string) (string, error) {
	if uncached[name] {
		return s.inner.Get(ctx, journal, group, name)
	}
	key := cacheKey(journal, group, name)
	value, err := s.cache.Get(ctx, key).Result()
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, redis.Nil) {
		logger.Log.WithError(err).WithField("key", key).Warn("settings cache read failed")
	}

	value, err = s.inner.Get(ctx, journal, group, name)
	if err != nil {
		return "", err
	}
	if err := s.cache.Set(ctx, key, value, s.ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("settings cache write failed")
	}
	return value, nil
}

func (s *CachedStore) Set(ctx context.Context, journal, group, name, value string) error {
	if err := s.inner.Set(ctx, journal, group, name, value); err != nil {
		return err
	}
	key := cacheKey(journal, group, name)
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("settings cache invalidation failed")
	}
	return nil
}
