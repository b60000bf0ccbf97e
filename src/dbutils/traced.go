package dbutils

import (
	"context"
	"database/sql"
	"time"
)

// Tracer receives every statement executed through a TracedDB.
type Tracer interface {
	Trace(ctx context.Context, begin time.Time, sql string, rows int64, err error)
}

// TracedDB reports statements run against the wrapped DBTX to a Tracer.
type TracedDB struct {
	db     DBTX
	tracer Tracer
}

// Traced wraps db. A nil tracer returns db unchanged.
func Traced(db DBTX, tracer Tracer) DBTX {
	if tracer == nil {
		return db
	}

	return &TracedDB{db: db, tracer: tracer}
}

func (t *TracedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	begin := time.Now()
	res, err := t.db.ExecContext(ctx, query, args...)

	var rows int64
	if err == nil {
		rows, _ = res.RowsAffected()
	}

	t.tracer.Trace(ctx, begin, query, rows, err)
	return res, err
}

func (t *TracedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	begin := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.tracer.Trace(ctx, begin, query, -1, err)
	return rows, err
}

func (t *TracedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	begin := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.tracer.Trace(ctx, begin, query, -1, row.Err())
	return row
}
