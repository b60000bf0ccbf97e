package dbutils

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := InitSqlite(context.Background(), DefaultSqliteConfig(filepath.Join(t.TempDir(), "protocols.db")))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func countProtocols(t *testing.T, db DBTX) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), `SELECT count(*) FROM protocols`).Scan(&n))
	return n
}

func TestInitSqlite(t *testing.T) {
	t.Run("creates the schema", func(t *testing.T) {
		db := openTestDB(t)

		for _, table := range []string{"protocols", "protocols_data", "data"} {
			var name string
			err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
			require.NoError(t, err, table)
		}
	})

	t.Run("requires a path", func(t *testing.T) {
		_, err := InitSqlite(context.Background(), SqliteConfig{})
		assert.Error(t, err)
	})
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		db := openTestDB(t)

		err := WithTx(ctx, db, func(tx DBTX) error {
			_, err := tx.ExecContext(ctx, `INSERT INTO protocols(name, "begin", "end") VALUES (?, ?, ?)`, "A", 1000.0, 2000.0)
			return err
		})
		require.NoError(t, err)

		assert.Equal(t, 1, countProtocols(t, db))
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db := openTestDB(t)
		failure := errors.New("boom")

		err := WithTx(ctx, db, func(tx DBTX) error {
			if _, err := tx.ExecContext(ctx, `INSERT INTO protocols(name, "begin", "end") VALUES (?, ?, ?)`, "A", 1000.0, 2000.0); err != nil {
				return err
			}
			return failure
		})
		assert.ErrorIs(t, err, failure)

		assert.Equal(t, 0, countProtocols(t, db))
	})
}

type recordingTracer struct {
	statements []string
	errs       []error
}

func (r *recordingTracer) Trace(_ context.Context, _ time.Time, sql string, _ int64, err error) {
	r.statements = append(r.statements, sql)
	r.errs = append(r.errs, err)
}

func TestTraced(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	tracer := &recordingTracer{}
	traced := Traced(db, tracer)

	_, err := traced.ExecContext(ctx, `INSERT INTO protocols(name, "begin", "end") VALUES (?, ?, ?)`, "A", 1000.0, 2000.0)
	require.NoError(t, err)
	assert.Equal(t, 1, countProtocols(t, traced))

	_, err = traced.QueryContext(ctx, `SELECT * FROM missing_table`)
	assert.Error(t, err)

	require.Len(t, tracer.statements, 3)
	assert.NoError(t, tracer.errs[0])
	assert.Error(t, tracer.errs[2])

	assert.Same(t, db, Traced(db, nil))
}
