package shared

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore persists serialized session payloads keyed by session ID.
// Implementations must expire entries after the given TTL.
type SessionStore interface {
	Get(ctx context.Context, id string) ([]byte, error)
	Set(ctx context.Context, id string, payload []byte, ttl time.Duration) error
	Del(ctx context.Context, id string) error
}

// RedisSessionStore keeps sessions in Redis, sharing them across processes.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore wraps the Redis client as a session store.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// Get returns the payload for id or ErrSessionNotFound.
func (s *RedisSessionStore) Get(ctx context.Context, id string) ([]byte, error) {
	payload, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Set stores the payload under id for ttl.
func (s *RedisSessionStore) Set(ctx context.Context, id string, payload []byte, ttl time.Duration) error {
	return s.client.Set(ctx, sessionKey(id), payload, ttl).Err()
}

// Del removes the session. Deleting a missing session is not an error.
func (s *RedisSessionStore) Del(ctx context.Context, id string) error {
	err := s.client.Del(ctx, sessionKey(id)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func sessionKey(id string) string {
	return "session:" + id
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemorySessionStore keeps sessions in process memory. It backs the
// workbench when no Redis address is configured; sessions then live only as
// long as the process. Expired entries are dropped lazily on access.
type MemorySessionStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemorySessionStore returns an empty in-memory store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{entries: make(map[string]memoryEntry)}
}

// Get returns the payload for id or ErrSessionNotFound.
func (s *MemorySessionStore) Get(ctx context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	payload := make([]byte, len(entry.payload))
	copy(payload, entry.payload)
	return payload, nil
}

// Set stores the payload under id for ttl. A non-positive ttl keeps the
// entry until the process exits.
func (s *MemorySessionStore) Set(ctx context.Context, id string, payload []byte, ttl time.Duration) error {
	copied := make([]byte, len(payload))
	copy(copied, payload)
	entry := memoryEntry{payload: copied}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[id] = entry
	s.mu.Unlock()
	return nil
}

// Del removes the session if present.
func (s *MemorySessionStore) Del(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}
