// Poloboard - Water Polo Ranking Matrix and History API
// Copyright 2026 Poloboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poloboard/poloboard

// Package cache provides the bounded, time-expiring response store that sits
// in front of every read endpoint.
//
// The store memoizes fully-computed response payloads keyed by a digest of
// the request parameters (see DeriveKey). Entries expire after a fixed TTL
// and are removed lazily on the read that observes them expired; when the
// store is full, inserting a new key evicts the oldest-inserted entry first.
//
// All operations are guarded by a single mutex. Lookups and inserts are
// map operations, so one coarse lock is cheaper than per-key locking and
// keeps the capacity invariant trivially correct under concurrent inserts.
package cache

import (
	"sync"
	"time"

	"github.com/poloboard/poloboard/internal/metrics"
)

// Entry is a cached response payload with its insertion timestamp.
// StoredAt drives both TTL expiry and oldest-first eviction; reads never
// touch it, so eviction order is insertion order, not access order.
type Entry struct {
	Value    interface{}
	StoredAt time.Time
}

// Store is a thread-safe in-memory response cache with TTL expiry and a
// hard capacity bound. Construct with New and share by reference across
// request handlers; Store has no global instance.
type Store struct {
	mu       sync.Mutex
	entries  map[string]Entry
	capacity int
	ttl      time.Duration

	// now is swappable for deterministic expiry tests.
	now func() time.Time
}

// DefaultTTL matches the daily-ish cadence of the upstream ranking data.
const DefaultTTL = time.Hour

// DefaultCapacity bounds memory against the unbounded space of distinct
// query parameter combinations (team permutations x date ranges x rank pairs).
const DefaultCapacity = 100

// New creates a Store with the given capacity and TTL.
// Non-positive values fall back to DefaultCapacity / DefaultTTL.
func New(capacity int, ttl time.Duration) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		entries:  make(map[string]Entry, capacity),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the value stored under key iff it is present and fresher than
// the TTL. A lookup that finds an expired entry deletes it (lazy expiry).
// A true miss has no side effects.
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		metrics.CacheMisses.WithLabelValues("response").Inc()
		return nil, false
	}

	// An entry is never served once its age reaches the TTL.
	if s.now().Sub(entry.StoredAt) >= s.ttl {
		delete(s.entries, key)
		metrics.CacheMisses.WithLabelValues("response").Inc()
		metrics.CacheEvictions.WithLabelValues("response").Inc()
		metrics.CacheSize.WithLabelValues("response").Set(float64(len(s.entries)))
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("response").Inc()
	return entry.Value, true
}

// Put stores value under key with StoredAt set to now, overwriting any prior
// entry for the same key. If the store is full and key is not already
// present, the entry with the smallest StoredAt is evicted first, so the
// capacity bound holds after every insert.
func (s *Store) Put(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.capacity {
		s.evictOldestLocked()
	}

	s.entries[key] = Entry{
		Value:    value,
		StoredAt: s.now(),
	}
	metrics.CacheSize.WithLabelValues("response").Set(float64(len(s.entries)))
}

// evictOldestLocked removes the entry with the minimum StoredAt.
// Caller must hold s.mu.
func (s *Store) evictOldestLocked() {
	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for key, entry := range s.entries {
		if !found || entry.StoredAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.StoredAt
			found = true
		}
	}
	if found {
		delete(s.entries, oldestKey)
		metrics.CacheEvictions.WithLabelValues("response").Inc()
	}
}

// Len returns the current number of entries, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Clear removes all entries and returns how many were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior := len(s.entries)
	s.entries = make(map[string]Entry, s.capacity)
	metrics.CacheEvictions.WithLabelValues("response").Add(float64(prior))
	metrics.CacheSize.WithLabelValues("response").Set(0)
	return prior
}

// Keys returns a snapshot of the current cache keys in unspecified order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	return keys
}

// Sweep removes every expired entry and returns the number removed.
// Lazy expiry in Get stays correct without Sweep ever running; the sweeper
// service only reclaims memory between reads.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, entry := range s.entries {
		if now.Sub(entry.StoredAt) >= s.ttl {
			delete(s.entries, key)
			removed++
		}
	}
	if removed > 0 {
		metrics.CacheEvictions.WithLabelValues("response").Add(float64(removed))
		metrics.CacheSize.WithLabelValues("response").Set(float64(len(s.entries)))
	}
	return removed
}

// TTL returns the configured entry time-to-live.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Capacity returns the configured maximum entry count.
func (s *Store) Capacity() int {
	return s.capacity
}
