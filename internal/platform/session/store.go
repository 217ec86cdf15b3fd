// Package session provides the page-lifetime key/value state that backs user
// preferences and the cached location fix. Keys within a session form a
// stable contract with the portal front end (user_lat, user_lng,
// user_location_ts, the preference dimensions, and the button-reload marker).
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrMiss is returned when a session key is absent or expired.
var ErrMiss = errors.New("session: key miss")

// DefaultTTL bounds how long an idle session survives.
const DefaultTTL = 24 * time.Hour

// Store is the session key/value abstraction. All values are strings; callers
// encode richer state (JSON, epoch millis) themselves.
type Store interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Set(ctx context.Context, sessionID, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string, keys ...string) error
	Clear(ctx context.Context, sessionID string) error
}

type redisStore struct {
	c *redis.Client
}

// NewRedisStore returns a Store backed by Redis. Session keys are namespaced
// as sess:{id}:{key} so Clear can scan a single session without touching
// anything else.
func NewRedisStore(c *redis.Client) Store {
	return &redisStore{c: c}
}

func (s *redisStore) key(sessionID, key string) string {
	return "sess:" + sessionID + ":" + key
}

func (s *redisStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	val, err := s.c.Get(ctx, s.key(sessionID, key)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrMiss
		}
		return "", err
	}
	return val, nil
}

func (s *redisStore) Set(ctx context.Context, sessionID, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return s.c.Set(ctx, s.key(sessionID, key), value, ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(sessionID, k)
	}
	return s.c.Del(ctx, full...).Err()
}

func (s *redisStore) Clear(ctx context.Context, sessionID string) error {
	var cursor uint64
	pattern := s.key(sessionID, "*")
	for {
		keys, next, err := s.c.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.c.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is an in-process Store used by tests and by single-node
// development setups without Redis.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[string]memoryEntry
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]memoryEntry),
		now:  time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[sessionID]
	if !ok {
		return "", ErrMiss
	}
	entry, ok := sess[key]
	if !ok {
		return "", ErrMiss
	}
	if s.now().After(entry.expiresAt) {
		delete(sess, key)
		return "", ErrMiss
	}
	return entry.value, nil
}

func (s *MemoryStore) Set(_ context.Context, sessionID, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[sessionID]
	if !ok {
		sess = make(map[string]memoryEntry)
		s.data[sessionID] = sess
	}
	sess[key] = memoryEntry{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[sessionID]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(sess, k)
	}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}
