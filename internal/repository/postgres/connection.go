// Package postgres opens the postgres handle behind the SQL stores
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"github.com/iamasit07/gravity-four/backend/internal/repository/sqlstore"
)

type PoolConfig struct {
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
}

// Open connects, applies the schema and sizes the pool
func Open(ctx context.Context, connStr string, pool PoolConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeMin) * time.Minute)

	log.Println("[DB] Postgres connected successfully")
	return db, nil
}

// NewStore opens the database and returns the stores over it
func NewStore(ctx context.Context, connStr string, pool PoolConfig) (*sqlstore.Store, *sql.DB, error) {
	db, err := Open(ctx, connStr, pool)
	if err != nil {
		return nil, nil, err
	}
	return sqlstore.New(db, sqlstore.Dollar), db, nil
}
