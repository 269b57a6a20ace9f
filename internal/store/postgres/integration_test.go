// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

//go:build integration

package postgres

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tomtom215/biographer/internal/query"
	"github.com/tomtom215/biographer/internal/store"
	"github.com/tomtom215/biographer/internal/testinfra"
)

func TestPostgresStore_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pg, err := testinfra.NewPostgresContainer(ctx)
	require.NoError(t, err)
	testinfra.Terminate(t, pg)

	st, err := Open(ctx, Options{DSN: pg.DSN, Migrate: true},
		store.Spec{Name: "biographies", Unique: []string{"slug"}})
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Ping(ctx))

	c := st.Collection("biographies")
	for _, b := range []store.Document{
		{"title": "Ada Lovelace", "slug": "ada-lovelace", "views": 40, "published": true},
		{"title": "Alan Turing", "slug": "alan-turing", "views": 12, "published": true},
		{"title": "Draft", "slug": "draft", "views": 0, "published": false},
	} {
		_, err := c.Insert(ctx, b)
		require.NoError(t, err)
	}

	_, err = c.Insert(ctx, store.Document{"title": "Again", "slug": "ada-lovelace"})
	require.ErrorIs(t, err, store.ErrDuplicate)

	params, _ := url.ParseQuery("published=true&sort=-views&search=A")
	d, err := query.Parse(bioSchema, params)
	require.NoError(t, err)

	docs, err := c.Find(ctx, d)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "Ada Lovelace", docs[0].String("title"))

	total, err := c.Count(ctx, d.Count())
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	bumped, err := c.Increment(ctx, docs[1].ID(), "views", 1)
	require.NoError(t, err)
	require.Equal(t, float64(13), bumped.Float("views"))

	updated, err := c.Update(ctx, docs[0].ID(), store.Document{"published": nil})
	require.NoError(t, err)
	_, has := updated["published"]
	require.False(t, has)

	require.NoError(t, c.Delete(ctx, docs[0].ID()))
	_, err = c.Get(ctx, docs[0].ID())
	require.ErrorIs(t, err, store.ErrNotFound)
}
