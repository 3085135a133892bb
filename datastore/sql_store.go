package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	dbPingTimeout     = 5 * time.Second
	dbMaxOpenConns    = 25
	dbMaxIdleConns    = 25
	dbConnMaxLifetime = 5 * time.Minute
)

// SQLStore persists entities through database/sql. Queries are written with '?'
// placeholders and rebound for drivers that use numbered parameters.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// OpenSQLStore opens a connection pool for driver, verifies it and applies the schema.
func OpenSQLStore(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if driver == DriverSQLite {
		// One connection keeps ":memory:" databases shared and serializes writers.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(dbMaxOpenConns)
		db.SetMaxIdleConns(dbMaxIdleConns)
		db.SetConnMaxLifetime(dbConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLStore{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.Printf("INFO (SQLStore): Database connection successful (driver: %s)", driver)
	return s, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) migrate(ctx context.Context) error {
	ts := "TIMESTAMP"
	if s.driver == DriverPostgres {
		ts = "TIMESTAMPTZ"
	}
	queries := []string{
		`CREATE TABLE IF NOT EXISTS books (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			genre TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			keywords TEXT NOT NULL DEFAULT '[]',
			content TEXT NOT NULL DEFAULT '[]',
			cover_url TEXT NOT NULL DEFAULT '',
			images TEXT NOT NULL DEFAULT '[]',
			source_file TEXT NOT NULL DEFAULT '',
			target_length TEXT NOT NULL DEFAULT '',
			writing_style TEXT NOT NULL DEFAULT '',
			progress INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'draft',
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS chapters (
			id TEXT PRIMARY KEY,
			book_id TEXT NOT NULL REFERENCES books(id),
			title TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			chapter_order INTEGER NOT NULL DEFAULT 0,
			word_count INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'draft',
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chapters_book_id ON chapters(book_id)`,
		`CREATE TABLE IF NOT EXISTS covers (
			id TEXT PRIMARY KEY,
			book_id TEXT NOT NULL REFERENCES books(id),
			image_url TEXT NOT NULL,
			style TEXT NOT NULL DEFAULT '',
			color_scheme TEXT NOT NULL DEFAULT '',
			is_selected BOOLEAN NOT NULL DEFAULT FALSE,
			created_at ` + ts + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_covers_book_id ON covers(book_id)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			api_key TEXT NOT NULL DEFAULT '',
			created_at ` + ts + ` NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username))`,
	}
	for _, q := range queries {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// rebind rewrites '?' placeholders to $1..$n for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
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

const pqUniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique or primary key constraint
// failure from either supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// insertError wraps a failed INSERT, reporting constraint collisions as ErrConflict.
func insertError(kind, id string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrConflict)
	}
	return fmt.Errorf("failed to insert %s: %w", kind, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func encodeJSONColumn(v any) (string, error) {
	if v == nil {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode column: %w", err)
	}
	if string(b) == "null" {
		return "[]", nil
	}
	return string(b), nil
}

func decodeJSONColumn[T any](raw string, dest *[]T) error {
	if raw == "" || raw == "[]" || raw == "null" {
		*dest = nil
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("failed to decode column: %w", err)
	}
	return nil
}
