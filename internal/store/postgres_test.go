package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"student-enrollment/internal/common/database"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newTestPostgresStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	return NewPostgresStore(database.NewPostgresFromDB(db), "documents"), mock
}

// ==========================
// Get
// ==========================

func TestPostgresStore_Get(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	mock.ExpectQuery(`SELECT data FROM "documents" WHERE collection = \$1 AND id = \$2`).
		WithArgs("km-blr", "1001").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"candidateName":"Asha"}`)))

	doc, err := s.Get(context.Background(), "km-blr", "1001")
	require.NoError(t, err)
	assert.Equal(t, "1001", doc.ID)
	assert.JSONEq(t, `{"candidateName":"Asha"}`, string(doc.Data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get_NotFound(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	mock.ExpectQuery(`SELECT data FROM "documents"`).
		WithArgs("km-blr", "404").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Get(context.Background(), "km-blr", "404")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get_Error(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	mock.ExpectQuery(`SELECT data FROM "documents"`).
		WithArgs("km-blr", "1").
		WillReturnError(errors.New("connection reset"))

	_, err := s.Get(context.Background(), "km-blr", "1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "connection reset")
}

// ==========================
// Set
// ==========================

func TestPostgresStore_Set_Upserts(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	mock.ExpectExec(`INSERT INTO "documents" .* ON CONFLICT \(collection, id\)\s+DO UPDATE SET data = EXCLUDED.data`).
		WithArgs("km-blr", "1001", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Set(context.Background(), "km-blr", "1001", Document{ID: "1001", Data: []byte(`{}`)})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Set_Error(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	mock.ExpectExec(`INSERT INTO "documents"`).
		WillReturnError(errors.New("disk full"))

	err := s.Set(context.Background(), "km-blr", "1001", Document{Data: []byte(`{}`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres set km-blr/1001")
}

// ==========================
// List / ServerTime / Schema
// ==========================

func TestPostgresStore_List(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	mock.ExpectQuery(`SELECT id, data FROM "documents" WHERE collection = \$1 ORDER BY id`).
		WithArgs("blr-college").
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).
			AddRow("c1", []byte(`{"name":"City College","courses":["BCom"]}`)).
			AddRow("c2", []byte(`{"name":"Hill College"}`)))

	docs, err := s.List(context.Background(), "blr-college")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "c1", docs[0].ID)
	assert.Equal(t, "c2", docs[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ServerTime(t *testing.T) {
	s, mock := newTestPostgresStore(t)
	now := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT NOW\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"now"}).AddRow(now))

	got, err := s.ServerTime(context.Background())
	require.NoError(t, err)
	assert.True(t, now.Equal(got))
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	s, mock := newTestPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "documents"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
