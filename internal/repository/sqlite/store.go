// Package sqlite opens a single file SQLite database for the SQL stores
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/iamasit07/gravity-four/backend/internal/repository/sqlstore"
)

//go:embed schema.sql
var schema string

// Open opens the database at path and applies the embedded schema
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer at a time, sqlite serializes writes anyway
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	log.Printf("[DB] SQLite opened at %s", path)
	return db, nil
}

func NewStore(ctx context.Context, path string) (*sqlstore.Store, *sql.DB, error) {
	db, err := Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return sqlstore.New(db, sqlstore.Question), db, nil
}
