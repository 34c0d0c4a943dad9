package attendance

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
)

func newRecorderWithMock(t *testing.T) (*PostgresRecorder, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRecorder(db), mock, db
}

const insertQuery = `(?s)^\s*INSERT\s+INTO\s+attendance\s*\(id,\s*identity,\s*recorded_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`

func TestRecordAttendance_Success(t *testing.T) {
	rec, mock, db := newRecorderWithMock(t)
	defer db.Close()

	at := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	mock.ExpectExec(insertQuery).
		WithArgs(sqlmock.AnyArg(), "user123", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := rec.RecordAttendance(context.Background(), "user123", at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordAttendance_DBError(t *testing.T) {
	rec, mock, db := newRecorderWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQuery).
		WithArgs(sqlmock.AnyArg(), "user123", sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	err := rec.RecordAttendance(context.Background(), "user123", time.Now())
	if err == nil || !regexp.MustCompile(`error performing sql request: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestListAttendance(t *testing.T) {
	rec, mock, db := newRecorderWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+id,\s*identity,\s*recorded_at\s+FROM\s+attendance\s+WHERE\s+\(\$1\s*=\s*''\s+OR\s+identity\s*=\s*\$1\).*LIMIT\s+\$2\s*$`

	id := uuid.New()
	at := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "identity", "recorded_at"}).
		AddRow(id.String(), "user123", at)

	mock.ExpectQuery(q).
		WithArgs("user123", 10).
		WillReturnRows(rows)

	got, err := rec.ListAttendance(context.Background(), "user123", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != id || got[0].Identity != "user123" || !got[0].RecordedAt.Equal(at) {
		t.Fatalf("unexpected records: %+v", got)
	}
}

func TestListAttendance_DBError(t *testing.T) {
	rec, mock, db := newRecorderWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("db err"))

	_, err := rec.ListAttendance(context.Background(), "user123", 10)
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestRunMigrations_UsesEmbeddedFS(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var gotDir string
	gooseUpContext = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if err := RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	if gotDir != "." {
		t.Errorf("migrations dir = %q, want \".\"", gotDir)
	}
}
