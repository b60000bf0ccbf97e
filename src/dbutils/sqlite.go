package dbutils

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

// Schema is the minimum layout of a protocol database. Existing tables are left untouched.
const Schema = `
CREATE TABLE IF NOT EXISTS protocols (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	"begin" REAL NOT NULL,
	"end" REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS protocols_data (
	protocol_id INTEGER NOT NULL,
	record_id INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS data (
	record_id INTEGER NOT NULL,
	datetime REAL NOT NULL,
	value REAL,
	d_value REAL
);

CREATE INDEX IF NOT EXISTS idx_data_datetime ON data(datetime);
CREATE INDEX IF NOT EXISTS idx_protocols_data_protocol ON protocols_data(protocol_id);
`

type SqliteConfig struct {
	Path string

	// BusyTimeoutMs is how long a connection waits on a locked database.
	BusyTimeoutMs int

	// CreateSchema creates missing tables on open.
	CreateSchema bool
}

func DefaultSqliteConfig(path string) SqliteConfig {
	return SqliteConfig{
		Path:          path,
		BusyTimeoutMs: 5000,
		CreateSchema:  true,
	}
}

// Dsn builds a modernc.org/sqlite data source name. Write transactions are
// started with BEGIN IMMEDIATE so conflict checks and inserts hold one lock.
func (c SqliteConfig) Dsn() string {
	params := url.Values{}
	params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", c.BusyTimeoutMs))
	params.Add("_pragma", "foreign_keys(1)")
	params.Set("_txlock", "immediate")

	return fmt.Sprintf("file:%s?%s", c.Path, params.Encode())
}

func InitSqlite(ctx context.Context, config SqliteConfig) (*sql.DB, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("InitSqlite: database path is required")
	}

	if config.BusyTimeoutMs <= 0 {
		config.BusyTimeoutMs = 5000
	}

	db, err := sql.Open("sqlite", config.Dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", config.Path, err)
	}

	if config.CreateSchema {
		if _, err := db.ExecContext(ctx, Schema); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return db, nil
}
