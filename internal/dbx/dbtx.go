// Package dbx holds the database/sql glue shared by the metadata
// repositories: the handle interface, placeholder rebinding and a
// transaction helper.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Placeholders is the bind-variable style a driver understands.
type Placeholders int

const (
	Question Placeholders = iota // ?, used by sqlite
	Dollar                       // $1..$N, used by pgx
)

// PlaceholdersFor maps a database/sql driver name to its style.
func PlaceholdersFor(driver string) Placeholders {
	if driver == "pgx" {
		return Dollar
	}
	return Question
}

// Rebind rewrites the '?' placeholders of query into style p.
// Queries must not carry '?' inside string literals.
func (p Placeholders) Rebind(query string) string {
	if p != Dollar || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, ch := range query {
		if ch != '?' {
			b.WriteRune(ch)
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// WithTx runs fn against a transaction and commits it when fn returns nil.
// An error or a panic from fn rolls the transaction back; the panic keeps
// unwinding.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    if err := repo(tx).Insert(ctx, file); err != nil {
//	        return err
//	    }
//	    return storage.Put(ctx, file.StorageKey, body, file.Size, file.ContentType)
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	done := false
	defer func() {
		if !done {
			_ = tx.Rollback()
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	done = true
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
