// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedis(client, "cache:"), mr
}

func TestRedis_GetSetExpiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	if _, ok, err := c.Get(ctx, "/a"); ok || err != nil {
		t.Fatalf("Get on empty = %v, %v", ok, err)
	}

	if err := c.Set(ctx, "/a", []byte(`{"status":"success"}`), time.Minute); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("cache:/a") {
		t.Error("key not namespaced by prefix")
	}

	got, ok, err := c.Get(ctx, "/a")
	if err != nil || !ok || string(got) != `{"status":"success"}` {
		t.Fatalf("Get = %q, %v, %v", got, ok, err)
	}

	mr.FastForward(time.Minute)
	if _, ok, _ := c.Get(ctx, "/a"); ok {
		t.Error("entry served past expiry")
	}
}

func TestRedis_InvalidatePrefix(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	keys := []string{
		"/api/v1/faqs",
		"/api/v1/faqs?page=2",
		"/api/v1/faqs/category/billing",
		"/api/v1/pricing",
	}
	for _, k := range keys {
		if err := c.Set(ctx, k, []byte("x"), time.Minute); err != nil {
			t.Fatal(err)
		}
	}
	mr.Set("other:/api/v1/faqs", "foreign")

	n, err := c.InvalidatePrefix(ctx, "/api/v1/faqs")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("InvalidatePrefix removed %d, want 3", n)
	}
	if _, ok, _ := c.Get(ctx, "/api/v1/pricing"); !ok {
		t.Error("unrelated key invalidated")
	}
	if !mr.Exists("other:/api/v1/faqs") {
		t.Error("key outside the namespace invalidated")
	}
}

func TestRedis_InvalidatePrefixEscapesGlob(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestRedis(t)

	_ = c.Set(ctx, "/a?page=1", []byte("x"), time.Minute)
	_ = c.Set(ctx, "/ab", []byte("x"), time.Minute)

	n, err := c.InvalidatePrefix(ctx, "/a?")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("InvalidatePrefix(/a?) removed %d, want 1", n)
	}
	if _, ok, _ := c.Get(ctx, "/ab"); !ok {
		t.Error("glob metacharacter matched /ab")
	}
}

func TestRedis_Delete(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestRedis(t)

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("deleted key still served")
	}
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := OpenRedis(context.Background(), "redis://"+mr.Addr()+"/0", "p:")
	if err != nil {
		t.Fatalf("OpenRedis() error = %v", err)
	}
	defer c.Close()

	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}

	if _, err := OpenRedis(context.Background(), "not-a-url", "p:"); err == nil {
		t.Error("OpenRedis with invalid URL should fail")
	}
}

func TestEscapeGlob(t *testing.T) {
	if got, want := escapeGlob(`a*b?c[d]e\\f`), `a\*b\?c\[d\]e\\\\f`; got != want {
		t.Errorf("escapeGlob() = %s, want %s", got, want)
	}
}
