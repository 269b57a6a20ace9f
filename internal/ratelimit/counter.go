// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package ratelimit

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/httprate"
)

var _ httprate.LimitCounter = (*Counter)(nil)

// bucket counts one key's requests in one window. A bucket is never reused
// for another window.
type bucket struct {
	window int64 // unix nanos of the window start
	count  atomic.Int64
}

// swept marks an entry that Sweep has removed from the map. Writers that
// find it start over with a fresh entry.
var swept = &bucket{}

type entry struct {
	current atomic.Pointer[bucket]
}

// Counter is a fixed-window httprate.LimitCounter. Counts live in a sync.Map
// of per-key entries updated with atomics, so distinct clients never share a
// lock. Get never reports a previous window: once a window elapses the next
// one starts from zero.
type Counter struct {
	entries sync.Map // key -> *entry
	window  atomic.Int64
	now     func() time.Time
}

// NewCounter creates an empty counter. httprate calls Config with the
// window length when the limiter is built.
func NewCounter() *Counter {
	return &Counter{now: time.Now}
}

// Config implements httprate.LimitCounter.
func (c *Counter) Config(_ int, windowLength time.Duration) {
	c.window.Store(int64(windowLength))
}

// Increment implements httprate.LimitCounter.
func (c *Counter) Increment(key string, currentWindow time.Time) error {
	return c.IncrementBy(key, currentWindow, 1)
}

// IncrementBy implements httprate.LimitCounter.
func (c *Counter) IncrementBy(key string, currentWindow time.Time, amount int) error {
	c.add(key, currentWindow.UnixNano(), int64(amount))
	return nil
}

func (c *Counter) add(key string, window, amount int64) int64 {
	for {
		v, ok := c.entries.Load(key)
		if !ok {
			v, _ = c.entries.LoadOrStore(key, &entry{})
		}
		e := v.(*entry)

		b := e.current.Load()
		switch {
		case b == swept:
			c.entries.CompareAndDelete(key, e)
			continue
		case b == nil || b.window != window:
			fresh := &bucket{window: window}
			if !e.current.CompareAndSwap(b, fresh) {
				continue
			}
			b = fresh
		}
		return b.count.Add(amount)
	}
}

// Get implements httprate.LimitCounter. The previous window count is
// always zero.
func (c *Counter) Get(key string, currentWindow, _ time.Time) (int, int, error) {
	v, ok := c.entries.Load(key)
	if !ok {
		return 0, 0, nil
	}
	b := v.(*entry).current.Load()
	if b == nil || b == swept || b.window != currentWindow.UnixNano() {
		return 0, 0, nil
	}
	return int(b.count.Load()), 0, nil
}

// Sweep drops keys whose window has elapsed and returns how many it
// removed. An entry is retired with a compare-and-swap against the bucket
// that was found stale, so a concurrent write that has already opened a new
// window keeps its entry and its count.
func (c *Counter) Sweep() int {
	now := c.now().UnixNano()
	span := c.window.Load()

	removed := 0
	c.entries.Range(func(key, v any) bool {
		e := v.(*entry)
		b := e.current.Load()
		if b == nil || b == swept || now-b.window < span {
			return true
		}
		if e.current.CompareAndSwap(b, swept) {
			c.entries.CompareAndDelete(key, e)
			removed++
		}
		return true
	})
	return removed
}

// Len returns the number of tracked keys.
func (c *Counter) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
