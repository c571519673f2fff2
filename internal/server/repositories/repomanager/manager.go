// Package repomanager vends repository implementations for the configured
// SQL driver and runs the embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/uploadwidget/internal/dbx"
	"github.com/dmitrijs2005/uploadwidget/internal/server/migrations"
	"github.com/dmitrijs2005/uploadwidget/internal/server/repositories/files"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Files(db dbx.DBTX) files.Repository
}

// SQLRepositoryManager serves both the "sqlite" and the "pgx" drivers.
type SQLRepositoryManager struct {
	driver string
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// NewRepositoryManager returns a manager for the given database/sql driver.
func NewRepositoryManager(driver string) (RepositoryManager, error) {
	if _, err := gooseDialect(driver); err != nil {
		return nil, err
	}
	return &SQLRepositoryManager{driver: driver}, nil
}

// Files returns a files.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Files(db dbx.DBTX) files.Repository {
	return files.NewSQLRepository(db, m.driver)
}

// RunMigrations applies the embedded migrations with the dialect matching
// the driver.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	dialect, err := gooseDialect(m.driver)
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// Open opens and pings a database handle for driver.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if driver == "sqlite" {
		// SQLite allows one writer at a time.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

func gooseDialect(driver string) (string, error) {
	switch driver {
	case "sqlite":
		return "sqlite3", nil
	case "pgx":
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}
