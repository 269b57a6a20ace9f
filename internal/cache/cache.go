// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/biographer/internal/metrics"
)

// entry is immutable once stored; replacing a key stores a new entry.
type entry struct {
	value     []byte
	expiresAt int64 // unix nanoseconds
}

// Memory is a process-local Cacher. Entries live in a sync.Map; expired
// entries are dropped lazily on Get and in bulk by Sweep.
type Memory struct {
	entries sync.Map // string -> *entry
	size    atomic.Int64
	now     func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Entries   int64
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

// WithClock replaces time.Now, for tests.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

// Backend implements Cacher.
func (m *Memory) Backend() string {
	return BackendMemory
}

// Get implements Cacher. An expired entry is removed and reported as a miss.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.entries.Load(key)
	if !ok {
		m.misses.Add(1)
		return nil, false, nil
	}

	e := v.(*entry)
	if m.now().UnixNano() >= e.expiresAt {
		if m.entries.CompareAndDelete(key, e) {
			m.size.Add(-1)
			m.evictions.Add(1)
		}
		m.misses.Add(1)
		return nil, false, nil
	}

	m.hits.Add(1)
	return e.value, true, nil
}

// Set implements Cacher. A non-positive ttl stores nothing.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	e := &entry{
		value:     append([]byte(nil), value...),
		expiresAt: m.now().Add(ttl).UnixNano(),
	}
	if _, loaded := m.entries.Swap(key, e); !loaded {
		m.size.Add(1)
	}
	m.publishSize()
	return nil
}

// Delete implements Cacher.
func (m *Memory) Delete(_ context.Context, key string) error {
	if _, loaded := m.entries.LoadAndDelete(key); loaded {
		m.size.Add(-1)
		m.publishSize()
	}
	return nil
}

// InvalidatePrefix implements Cacher.
func (m *Memory) InvalidatePrefix(_ context.Context, prefix string) (int, error) {
	removed := 0
	m.entries.Range(func(k, _ any) bool {
		if strings.HasPrefix(k.(string), prefix) {
			if _, loaded := m.entries.LoadAndDelete(k); loaded {
				m.size.Add(-1)
				removed++
			}
		}
		return true
	})

	metrics.CacheInvalidations.WithLabelValues(BackendMemory).Add(float64(removed))
	m.publishSize()
	return removed, nil
}

// Sweep removes every expired entry and returns how many it removed.
func (m *Memory) Sweep() int {
	now := m.now().UnixNano()
	removed := 0
	m.entries.Range(func(k, v any) bool {
		if now >= v.(*entry).expiresAt && m.entries.CompareAndDelete(k, v) {
			m.size.Add(-1)
			removed++
		}
		return true
	})

	m.evictions.Add(int64(removed))
	m.publishSize()
	return removed
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	return int(m.size.Load())
}

// Stats returns a snapshot of the cache counters.
func (m *Memory) Stats() Stats {
	return Stats{
		Hits:      m.hits.Load(),
		Misses:    m.misses.Load(),
		Evictions: m.evictions.Load(),
		Entries:   m.size.Load(),
	}
}

// HitRate returns hits as a percentage of lookups.
func (m *Memory) HitRate() float64 {
	hits := m.hits.Load()
	total := hits + m.misses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

func (m *Memory) publishSize() {
	metrics.CacheEntries.WithLabelValues(BackendMemory).Set(float64(m.size.Load()))
}
