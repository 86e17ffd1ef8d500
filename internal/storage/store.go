// Package storage provides the single process-wide database handle and the
// typed repositories built on top of it. Reads return empty slices (never an
// error) for zero matching rows; every write is its own atomic statement,
// committed on success and rolled back on failure.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"shopledger/internal/config"
)

// ErrNotFound is returned when a record looked up by id does not exist.
var ErrNotFound = errors.New("record not found")

// QueryError wraps any statement failure. Callers surface the message and
// abandon the in-progress operation; no retry is attempted.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Store owns the database connection for the process lifetime.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the configured database, verifies connectivity and runs
// migrations. A failure here is fatal: the caller is expected to terminate.
func Open(cfg *config.Config) (*Store, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err = sql.Open("postgres", cfg.PostgresDSN())
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." && dir != "" {
			if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
				return nil, fmt.Errorf("create db directory: %w", mkErr)
			}
		}
		db, err = sql.Open("sqlite", cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", cfg.DBDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := RunMigrations(db, cfg.DBDriver); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("Database ready", "driver", cfg.DBDriver)

	return &Store{db: db, driver: cfg.DBDriver}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Exec runs a single mutating statement in its own transaction: committed on
// success, rolled back and wrapped into a QueryError on failure.
func (s *Store) Exec(ctx context.Context, op, query string, args ...any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &QueryError{Op: op, Err: err}
	}
	if _, err := tx.ExecContext(ctx, s.rebind(query), args...); err != nil {
		tx.Rollback()
		return &QueryError{Op: op, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &QueryError{Op: op, Err: err}
	}
	return nil
}

// execAffecting is Exec for statements targeting a single row by id; it
// yields ErrNotFound when nothing was updated or deleted.
func (s *Store) execAffecting(ctx context.Context, op, query string, args ...any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &QueryError{Op: op, Err: err}
	}
	res, err := tx.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		tx.Rollback()
		return &QueryError{Op: op, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return &QueryError{Op: op, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &QueryError{Op: op, Err: err}
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// insertID runs an INSERT and returns the generated id. lib/pq has no
// LastInsertId, so the postgres path appends RETURNING id.
func (s *Store) insertID(ctx context.Context, op, query string, args ...any) (int64, error) {
	if s.driver == config.DriverPostgres {
		var id int64
		err := s.db.QueryRowContext(ctx, s.rebind(query+" RETURNING id"), args...).Scan(&id)
		if err != nil {
			return 0, &QueryError{Op: op, Err: err}
		}
		return id, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &QueryError{Op: op, Err: err}
	}
	res, err := tx.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		tx.Rollback()
		return 0, &QueryError{Op: op, Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, &QueryError{Op: op, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return 0, &QueryError{Op: op, Err: err}
	}
	return id, nil
}

// rebind rewrites ? placeholders to $N for the postgres driver. Statements
// in this package are written with ? so both dialects share one SQL text.
func (s *Store) rebind(query string) string {
	if s.driver != config.DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Date/time columns are written as strings in fixed layouts so the two
// dialects compare and return them consistently.
const (
	timestampLayout = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"
)

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// parseTime handles the layouts the drivers hand back: our own formats from
// sqlite and RFC 3339 variants from lib/pq's time.Time conversion.
func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{
		timestampLayout,
		dateLayout,
		time.RFC3339Nano,
		time.RFC3339,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time value %q", s)
}
