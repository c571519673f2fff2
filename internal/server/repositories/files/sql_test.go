package files

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/uploadwidget/internal/common"
	"github.com/dmitrijs2005/uploadwidget/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "original_name", "storage_key", "content_type", "size", "digest", "created_at"}

func newRepoWithMock(t *testing.T, driver string) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(db, driver), mock
}

func sampleFile() *models.File {
	return &models.File{
		ID:           "id-1",
		OriginalName: "a.jpg",
		StorageKey:   "uploads/2026/1/2/k.jpg",
		ContentType:  "image/jpeg",
		Size:         42,
		Digest:       "abcd",
		CreatedAt:    time.Unix(0, 1700000000123456789),
	}
}

func TestInsert_SQLitePlaceholders(t *testing.T) {
	repo, mock := newRepoWithMock(t, "sqlite")
	f := sampleFile()

	mock.ExpectExec(`(?s)^INSERT INTO files \(id, original_name, storage_key, content_type, size, digest, created_at\)\s+VALUES \(\?, \?, \?, \?, \?, \?, \?\)$`).
		WithArgs("id-1", "a.jpg", f.StorageKey, "image/jpeg", int64(42), "abcd", int64(1700000000123456789)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Insert(context.Background(), f))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_PostgresPlaceholders(t *testing.T) {
	repo, mock := newRepoWithMock(t, "pgx")

	mock.ExpectExec(`(?s)VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7\)$`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Insert(context.Background(), sampleFile()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t, "sqlite")
	dbErr := errors.New("db down")

	mock.ExpectExec(`INSERT INTO files`).WillReturnError(dbErr)

	err := repo.Insert(context.Background(), sampleFile())
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "db error")
}

func TestList_ReturnsRowsInOrder(t *testing.T) {
	repo, mock := newRepoWithMock(t, "sqlite")

	rows := sqlmock.NewRows(columns).
		AddRow("1", "a.jpg", "k1", "image/jpeg", int64(10), "d1", int64(100)).
		AddRow("2", "b.pdf", "k2", "application/pdf", int64(20), "d2", int64(200))
	mock.ExpectQuery(`(?s)SELECT id, original_name, storage_key, content_type, size, digest, created_at\s+FROM files ORDER BY created_at, id`).
		WillReturnRows(rows)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a.jpg", got[0].OriginalName)
	assert.Equal(t, "b.pdf", got[1].OriginalName)
	assert.Equal(t, time.Unix(0, 200).UTC(), got[1].CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo, mock := newRepoWithMock(t, "sqlite")
	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_Errors(t *testing.T) {
	t.Run("query", func(t *testing.T) {
		repo, mock := newRepoWithMock(t, "sqlite")
		mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("boom"))

		_, err := repo.List(context.Background())
		assert.ErrorContains(t, err, "db error")
	})

	t.Run("scan", func(t *testing.T) {
		repo, mock := newRepoWithMock(t, "sqlite")
		rows := sqlmock.NewRows(columns).AddRow("1", "a", "k", "t", "not-a-number", "d", int64(1))
		mock.ExpectQuery(`SELECT`).WillReturnRows(rows)

		_, err := repo.List(context.Background())
		assert.ErrorContains(t, err, "scan error")
	})

	t.Run("rows", func(t *testing.T) {
		repo, mock := newRepoWithMock(t, "sqlite")
		rows := sqlmock.NewRows(columns).
			AddRow("1", "a", "k", "t", int64(1), "d", int64(1)).
			RowError(0, errors.New("row broke"))
		mock.ExpectQuery(`SELECT`).WillReturnRows(rows)

		_, err := repo.List(context.Background())
		assert.ErrorContains(t, err, "rows error")
	})
}

func TestGetByKey(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t, "pgx")
		rows := sqlmock.NewRows(columns).AddRow("1", "a.jpg", "k1", "image/jpeg", int64(10), "d1", int64(5))
		mock.ExpectQuery(`WHERE storage_key = \$1$`).WithArgs("k1").WillReturnRows(rows)

		got, err := repo.GetByKey(context.Background(), "k1")
		require.NoError(t, err)
		assert.Equal(t, "1", got.ID)
		assert.Equal(t, "image/jpeg", got.ContentType)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t, "sqlite")
		mock.ExpectQuery(`WHERE storage_key = \?$`).WithArgs("nope").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByKey(context.Background(), "nope")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t, "sqlite")
		mock.ExpectQuery(`WHERE storage_key`).WillReturnError(errors.New("boom"))

		_, err := repo.GetByKey(context.Background(), "k")
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrNotFound)
	})
}
