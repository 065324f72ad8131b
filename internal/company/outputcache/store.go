// Package outputcache stores whole GET responses and replays them until they
// expire or their tag is evicted.
package outputcache

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

// ErrMiss is returned by a Store when no live entry exists for a key.
var ErrMiss = errors.New("output cache miss")

// Entry is a cached response.
type Entry struct {
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	StoredAt time.Time   `json:"storedAt"`
}

type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry *Entry, ttl time.Duration, tags []string) error
	EvictTag(ctx context.Context, tag string) error
}

const (
	// DefaultMaxEntries bounds a MemoryStore created with a non-positive size.
	DefaultMaxEntries = 10000
	sweepInterval     = time.Minute
)

type memoryItem struct {
	entry   *Entry
	expires time.Time
	tags    []string
}

// MemoryStore is an in-process Store holding at most maxEntries entries.
// Expired entries are swept at most once per sweepInterval; when the store
// is still full an arbitrary entry makes room.
type MemoryStore struct {
	mu         sync.RWMutex
	items      map[string]memoryItem
	tags       map[string]map[string]struct{}
	maxEntries int
	nextSweep  time.Time
	now        func() time.Time
}

func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		items:      make(map[string]memoryItem),
		tags:       make(map[string]map[string]struct{}),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, error) {
	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	if !s.now().Before(item.expires) {
		s.mu.Lock()
		// A concurrent Set may have replaced the entry meanwhile.
		if cur, ok := s.items[key]; ok && !s.now().Before(cur.expires) {
			s.removeLocked(key)
		}
		s.mu.Unlock()
		return nil, ErrMiss
	}
	return item.entry, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, entry *Entry, ttl time.Duration, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.removeLocked(key)
	if !now.Before(s.nextSweep) {
		s.sweepLocked(now)
		s.nextSweep = now.Add(sweepInterval)
	}
	for len(s.items) >= s.maxEntries {
		s.evictOneLocked()
	}

	s.items[key] = memoryItem{entry: entry, expires: now.Add(ttl), tags: tags}
	for _, tag := range tags {
		keys, ok := s.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			s.tags[tag] = keys
		}
		keys[key] = struct{}{}
	}
	return nil
}

func (s *MemoryStore) EvictTag(_ context.Context, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.tags[tag] {
		s.removeLocked(key)
	}
	delete(s.tags, tag)
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	for key, item := range s.items {
		if !now.Before(item.expires) {
			s.removeLocked(key)
		}
	}
}

func (s *MemoryStore) evictOneLocked() {
	for key := range s.items {
		s.removeLocked(key)
		return
	}
}

func (s *MemoryStore) removeLocked(key string) {
	item, ok := s.items[key]
	if !ok {
		return
	}
	delete(s.items, key)
	for _, tag := range item.tags {
		if keys, ok := s.tags[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(s.tags, tag)
			}
		}
	}
}
