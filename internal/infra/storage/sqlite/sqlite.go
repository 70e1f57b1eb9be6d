// Package sqlite provides a single-node SQLite backend for the directory
// using the pure Go modernc.org/sqlite driver. Writers are serialized by
// BEGIN IMMEDIATE, so a unit of work that reads an office already holds the
// database write lock.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Open opens (creating if needed) the SQLite database at path with foreign
// keys enforced, WAL journaling, and immediate write transactions.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = "office-hub.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func isUniqueViolation(err error) bool {
	return constraintCode(err, sqlite3.SQLITE_CONSTRAINT_UNIQUE, "UNIQUE")
}

func isCheckViolation(err error) bool {
	return constraintCode(err, sqlite3.SQLITE_CONSTRAINT_CHECK, "CHECK")
}

func isForeignKeyViolation(err error) bool {
	return constraintCode(err, sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, "FOREIGN KEY")
}

// constraintCode matches the extended result code, falling back to the
// primary code plus message when extended codes are disabled.
func constraintCode(err error, extended int, marker string) bool {
	var sqlErr *msqlite.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	code := sqlErr.Code()
	if code == extended {
		return true
	}
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqlErr.Error(), marker)
}
