// Biographer - Biography Publishing Content API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biographer

package postgres

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/biographer/internal/query"
	"github.com/tomtom215/biographer/internal/store"
)

func newStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewWithPool(mock), mock
}

var bioSchema = query.NewSchema("biographies",
	query.Field{Name: "title", Kind: query.String, Caps: query.All},
	query.Field{Name: "views", Kind: query.Number, Caps: query.Filter | query.Sort | query.Project},
	query.Field{Name: "published", Kind: query.Bool, Caps: query.Filter | query.Project},
)

func TestInsert_OK(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3)`)).
		WithArgs("biographies", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	doc, err := s.Collection("biographies").Insert(context.Background(), store.Document{"title": "Ada", "views": 0})
	require.NoError(t, err)
	require.NotEmpty(t, doc.ID())
	require.Equal(t, "Ada", doc.String("title"))
	require.Equal(t, doc.String(query.FieldCreatedAt), doc.String(query.FieldUpdatedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_Duplicate(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO documents`).
		WithArgs("users", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := s.Collection("users").Insert(context.Background(), store.Document{"email": "a@b.c"})
	require.ErrorIs(t, err, store.ErrDuplicate)
}

func TestGet_NotFound(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT doc FROM documents WHERE collection = $1 AND id = $2`)).
		WithArgs("biographies", "missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.Collection("biographies").Get(context.Background(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestFind_CompilesDescriptor(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	params, _ := url.ParseQuery("published=true&views[gte]=10&sort=-views&page=2&limit=5&fields=title")
	d, err := query.Parse(bioSchema, params)
	require.NoError(t, err)

	sql := `SELECT doc FROM documents WHERE collection = $1 AND (doc->>'published')::boolean = $2 AND (doc->>'views')::numeric >= $3` +
		` ORDER BY (doc->>'views')::numeric DESC NULLS LAST, doc->>'id' COLLATE "C" DESC NULLS LAST LIMIT 5 OFFSET 5`
	mock.ExpectQuery(regexp.QuoteMeta(sql)).
		WithArgs("biographies", true, float64(10)).
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).
			AddRow([]byte(`{"id":"b1","title":"Ada","views":40,"published":true}`)).
			AddRow([]byte(`{"id":"b2","title":"Alan","views":12,"published":true}`)))

	docs, err := s.Collection("biographies").Find(context.Background(), d)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, store.Document{"id": "b1", "title": "Ada"}, docs[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCount_UsesSameCriteria(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	params, _ := url.ParseQuery("search=ada&page=3")
	d, err := query.Parse(bioSchema, params)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM documents WHERE collection = $1 AND (doc->>'title' ILIKE $2)`)).
		WithArgs("biographies", "%ada%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))

	n, err := s.Collection("biographies").Count(context.Background(), d.Count())
	require.NoError(t, err)
	require.Equal(t, int64(7), n)
}

func TestUpdate_MergesAndRemoves(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE documents SET doc = (doc || $3::jsonb) - $4::text[] WHERE collection = $1 AND id = $2 RETURNING doc`)).
		WithArgs("biographies", "b1", pgxmock.AnyArg(), []string{"featured"}).
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow([]byte(`{"id":"b1","title":"New"}`)))

	doc, err := s.Collection("biographies").Update(context.Background(), "b1", store.Document{"title": "New", "featured": nil, "id": "x"})
	require.NoError(t, err)
	require.Equal(t, "New", doc.String("title"))
}

func TestUpdate_NotFound(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	mock.ExpectQuery(`UPDATE documents SET doc`).
		WithArgs("biographies", "nope", pgxmock.AnyArg(), []string{}).
		WillReturnError(pgx.ErrNoRows)

	_, err := s.Collection("biographies").Update(context.Background(), "nope", store.Document{"title": "x"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestIncrement(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	mock.ExpectQuery(`UPDATE documents SET doc = jsonb_set`).
		WithArgs("biographies", "b1", "views", float64(1), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow([]byte(`{"id":"b1","views":5}`)))

	doc, err := s.Collection("biographies").Increment(context.Background(), "b1", "views", 1)
	require.NoError(t, err)
	require.Equal(t, float64(5), doc.Float("views"))
}

func TestDelete(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM documents WHERE collection = $1 AND id = $2`)).
		WithArgs("biographies", "b1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM documents`).
		WithArgs("biographies", "b1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	c := s.Collection("biographies")
	require.NoError(t, c.Delete(context.Background(), "b1"))
	require.ErrorIs(t, c.Delete(context.Background(), "b1"), store.ErrNotFound)
}

func TestEnsureIndexes(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta(
		`CREATE UNIQUE INDEX IF NOT EXISTS "documents_users_email_key" ON documents ((doc->>'email')) WHERE collection = 'users' AND doc->>'email' <> ''`)).
		WillReturnResult(pgxmock.NewResult("CREATE INDEX", 0))

	err := s.EnsureIndexes(context.Background(), store.Spec{Name: "users", Unique: []string{"email"}})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPing(t *testing.T) {
	s, mock := newStore(t)
	defer mock.Close()

	mock.ExpectPing().WillReturnError(errors.New("down"))
	require.Error(t, s.Ping(context.Background()))
}
