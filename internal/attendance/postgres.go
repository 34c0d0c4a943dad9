package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/darmiel/checkin/internal/attendance/migrations"
	"github.com/darmiel/checkin/internal/core"
)

var (
	_ core.AttendanceRecorder = (*PostgresRecorder)(nil)
	_ Lister                  = (*PostgresRecorder)(nil)
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// PostgresRecorder writes records to the attendance table.
type PostgresRecorder struct {
	db     DBTX
	closer func() error
}

// NewPostgresRecorder constructs a recorder bound to the given DBTX.
func NewPostgresRecorder(db DBTX) *PostgresRecorder {
	return &PostgresRecorder{db: db, closer: func() error { return nil }}
}

// OpenPostgres opens a pgx-backed connection pool for dsn, verifies it and
// optionally applies the embedded migrations.
func OpenPostgres(ctx context.Context, dsn string, migrate bool) (*PostgresRecorder, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if migrate {
		if err := RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}
	return &PostgresRecorder{db: db, closer: db.Close}, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func (r *PostgresRecorder) RecordAttendance(ctx context.Context, identity string, at time.Time) error {
	rec := newRecord(identity, at)
	query := `
		INSERT INTO attendance (id, identity, recorded_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, rec.ID, rec.Identity, rec.RecordedAt); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

func (r *PostgresRecorder) ListAttendance(ctx context.Context, identity string, limit int) ([]Record, error) {
	query := `
		SELECT id, identity, recorded_at
		FROM attendance
		WHERE ($1 = '' OR identity = $1)
		ORDER BY recorded_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, identity, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Identity, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return records, nil
}

func (r *PostgresRecorder) Close() error {
	return r.closer()
}
