// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package cache

import (
	"context"
	"time"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Cacher stores serialized response envelopes by key.
//
// Implementations never return an entry past its expiry. Errors are
// infrastructure failures; a missing key is (nil, false, nil).
type Cacher interface {
	// Get retrieves a value from the cache.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value that expires after ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// InvalidatePrefix removes every key starting with prefix and returns
	// how many it removed.
	InvalidatePrefix(ctx context.Context, prefix string) (int, error)

	// Backend names the implementation for metrics labels.
	Backend() string
}

// Verify interface implementations at compile time
var (
	_ Cacher = (*Memory)(nil)
	_ Cacher = (*Redis)(nil)
)
