package settings

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type memoryStore struct {
	mu     sync.Mutex
	values map[string]string
	gets   int
	failOn string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (m *memoryStore) key(journal, group, name string) string {
	return journal + "|" + group + "|" + name
}

func (m *memoryStore) Get(ctx context.Context, journal, group, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if name == m.failOn {
		return "", errors.New("store unavailable")
	}
	value, ok := m.values[m.key(journal, group, name)]
	if !ok {
		return "", ErrSettingNotFound
	}
	return value, nil
}

func (m *memoryStore) Set(ctx context.Context, journal, group, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[m.key(journal, group, name)] = value
	return nil
}

type fakeRedis struct {
	values  map[string]string
	ttls    map[string]time.Duration
	readErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.readErr != nil {
		return redis.NewStringResult("", f.readErr)
	}
	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.values[key] = value.(string)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}
