package runs

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"wanderplan/models"
)

const runSnapshotPrefix = "plan:run:"

// ErrNotFound is returned for unknown or expired runs.
var ErrNotFound = errors.New("run not found")

// Store keeps the latest snapshot of each run.
type Store interface {
	Save(ctx context.Context, snap *models.RunSnapshot) error
	Get(ctx context.Context, runID string) (*models.RunSnapshot, error)
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, runID string) (*models.RunSnapshot, error) {
	data, err := s.client.Get(ctx, runSnapshotPrefix+runID).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var snap models.RunSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *RedisStore) Save(ctx context.Context, snap *models.RunSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, runSnapshotPrefix+snap.RunID, b, s.ttl).Err()
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryStore is the single-process Store used when Redis is disabled. Snapshots are
// stored encoded so callers never share state with the store.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, snap *models.RunSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()
	entry := memoryEntry{data: b}
	if s.ttl > 0 {
		entry.expires = s.now().Add(s.ttl)
	}
	s.entries[snap.RunID] = entry
	return nil
}

func (s *MemoryStore) Get(_ context.Context, runID string) (*models.RunSnapshot, error) {
	s.mu.Lock()
	entry, ok := s.entries[runID]
	if ok && s.expired(entry) {
		delete(s.entries, runID)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	var snap models.RunSnapshot
	if err := json.Unmarshal(entry.data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *MemoryStore) expired(e memoryEntry) bool {
	return !e.expires.IsZero() && s.now().After(e.expires)
}

// evictExpired must be called with mu held.
func (s *MemoryStore) evictExpired() {
	for id, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, id)
		}
	}
}
