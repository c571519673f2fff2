// Package files stores upload metadata over database/sql. The same queries
// serve SQLite and PostgreSQL; placeholders are rebound per driver.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/uploadwidget/internal/common"
	"github.com/dmitrijs2005/uploadwidget/internal/dbx"
	"github.com/dmitrijs2005/uploadwidget/internal/server/models"
)

// SQLRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type SQLRepository struct {
	db dbx.DBTX
	ph dbx.Placeholders
}

// NewSQLRepository constructs a repository bound to db. driver is the
// database/sql driver name and selects the placeholder style.
func NewSQLRepository(db dbx.DBTX, driver string) *SQLRepository {
	return &SQLRepository{db: db, ph: dbx.PlaceholdersFor(driver)}
}

// Insert stores a new file row. CreatedAt is persisted with nanosecond
// precision and defines the listing order.
func (r *SQLRepository) Insert(ctx context.Context, file *models.File) error {
	query := r.ph.Rebind(`INSERT INTO files (id, original_name, storage_key, content_type, size, digest, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		file.ID, file.OriginalName, file.StorageKey, file.ContentType, file.Size, file.Digest, file.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// List returns every file in upload order.
func (r *SQLRepository) List(ctx context.Context) ([]*models.File, error) {
	query := `SELECT id, original_name, storage_key, content_type, size, digest, created_at
		FROM files ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.File, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

// GetByKey returns the file stored under storageKey, or common.ErrNotFound.
func (r *SQLRepository) GetByKey(ctx context.Context, storageKey string) (*models.File, error) {
	query := r.ph.Rebind(`SELECT id, original_name, storage_key, content_type, size, digest, created_at
		FROM files WHERE storage_key = ?`)

	f, err := scanFile(r.db.QueryRowContext(ctx, query, storageKey))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(s scanner) (*models.File, error) {
	var (
		f         models.File
		createdAt int64
	)
	err := s.Scan(&f.ID, &f.OriginalName, &f.StorageKey, &f.ContentType, &f.Size, &f.Digest, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan error: %w", err)
	}
	f.CreatedAt = time.Unix(0, createdAt).UTC()
	return &f, nil
}
