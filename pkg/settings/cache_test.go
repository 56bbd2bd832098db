package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedStoreReadsThrough(t *testing.T) {
	ctx := context.Background()
	inner := newMemoryStore()
	require.NoError(t, inner.Set(ctx, "oas", Group, KeyEmail, "editor@example.org"))
	cache := newFakeRedis()
	store := NewCachedStore(inner, cache, time.Minute)

	value, err := store.Get(ctx, "oas", Group, KeyEmail)
	require.NoError(t, err)
	assert.Equal(t, "editor@example.org", value)

	value, err = store.Get(ctx, "oas", Group, KeyEmail)
	require.NoError(t, err)
	assert.Equal(t, "editor@example.org", value)

	assert.Equal(t, 1, inner.gets)
	assert.Equal(t, time.Minute, cache.ttls["settings:oas:plugin:oaswitchboard_plugin:oas_email"])
}

func TestCachedStoreSetInvalidates(t *testing.T) {
	ctx := context.Background()
	store := NewCachedStore(newMemoryStore(), newFakeRedis(), time.Minute)

	require.NoError(t, store.Set(ctx, "oas", Group, KeyURL, "https://one.example.org/"))
	value, err := store.Get(ctx, "oas", Group, KeyURL)
	require.NoError(t, err)
	assert.Equal(t, "https://one.example.org/", value)

	require.NoError(t, store.Set(ctx, "oas", Group, KeyURL, "https://two.example.org/"))
	value, err = store.Get(ctx, "oas", Group, KeyURL)
	require.NoError(t, err)
	assert.Equal(t, "https://two.example.org/", value)
}

func TestCachedStoreFallsBackWhenCacheFails(t *testing.T) {
	ctx := context.Background()
	inner := newMemoryStore()
	require.NoError(t, inner.Set(ctx, "oas", Group, KeyEmail, "editor@example.org"))
	cache := newFakeRedis()
	cache.readErr = errors.New("connection refused")

	value, err := NewCachedStore(inner, cache, time.Minute).Get(ctx, "oas", Group, KeyEmail)
	require.NoError(t, err)
	assert.Equal(t, "editor@example.org", value)
}

func TestCachedStoreDoesNotCacheMissingKeys(t *testing.T) {
	ctx := context.Background()
	cache := newFakeRedis()

	_, err := NewCachedStore(newMemoryStore(), cache, time.Minute).Get(ctx, "oas", Group, KeyEmail)
	assert.ErrorIs(t, err, ErrSettingNotFound)
	assert.Empty(t, cache.values)
}

func TestCachedStoreNeverCachesPassword(t *testing.T) {
	ctx := context.Background()
	inner := newMemoryStore()
	require.NoError(t, inner.Set(ctx, "oas", Group, KeyPassword, "secret"))
	cache := newFakeRedis()
	store := NewCachedStore(inner, cache, time.Minute)

	for i := 0; i < 2; i++ {
		value, err := store.Get(ctx, "oas", Group, KeyPassword)
		require.NoError(t, err)
		assert.Equal(t, "secret", value)
	}

	assert.Equal(t, 2, inner.gets)
	assert.Empty(t, cache.values)
}
