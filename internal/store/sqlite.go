package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/rcliao/studynotes/internal/apperr"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create db dir: %v", apperr.ErrStorage, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: open db: %v", apperr.ErrStorage, err)
	}

	s := &SQLiteStore{
		db:   db,
		path: dbPath,
		now:  func() time.Time { return time.Now().UTC() },
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: migrate: %v", apperr.ErrStorage, err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) newID() string {
	return ulid.Make().String()
}

func (s *SQLiteStore) timestamp() string {
	return s.now().Format(timeLayout)
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS courses (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL CHECK (length(trim(name)) > 0),
		code        TEXT,
		color       TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_courses_created ON courses(created_at DESC);

	CREATE TABLE IF NOT EXISTS notes (
		id            TEXT PRIMARY KEY,
		course_id     TEXT REFERENCES courses(id) ON DELETE SET NULL,
		title         TEXT NOT NULL CHECK (length(trim(title)) > 0),
		content       TEXT,
		content_type  TEXT NOT NULL DEFAULT 'text'
		              CHECK (content_type IN ('text', 'pdf', 'image', 'document')),
		file_uri      TEXT,
		ai_summary    TEXT,
		ai_concepts   TEXT,
		topics        TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		CHECK ((ai_summary IS NULL) = (ai_concepts IS NULL)
		   AND (ai_concepts IS NULL) = (topics IS NULL))
	);
	CREATE INDEX IF NOT EXISTS idx_notes_course ON notes(course_id);
	CREATE INDEX IF NOT EXISTS idx_notes_updated ON notes(updated_at DESC);

	CREATE TABLE IF NOT EXISTS chats (
		id          TEXT PRIMARY KEY,
		note_id     TEXT NOT NULL UNIQUE REFERENCES notes(id) ON DELETE CASCADE,
		messages    TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS quizzes (
		id            TEXT PRIMARY KEY,
		note_id       TEXT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
		topic         TEXT,
		questions     TEXT NOT NULL,
		score         INTEGER CHECK (score BETWEEN 0 AND 100),
		completed_at  TEXT,
		created_at    TEXT NOT NULL,
		CHECK ((score IS NULL) = (completed_at IS NULL))
	);
	CREATE INDEX IF NOT EXISTS idx_quizzes_note ON quizzes(note_id);
	CREATE INDEX IF NOT EXISTS idx_quizzes_created ON quizzes(created_at DESC);

	CREATE TABLE IF NOT EXISTS settings (
		key         TEXT PRIMARY KEY,
		value       TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// classify maps driver errors onto the apperr kinds. relation names the
// relationship a constraint failure refers to, e.g. "note course reference".
func classify(err error, relation string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, relation)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %s does not exist", apperr.ErrConflict, relation)
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %s already exists", apperr.ErrConflict, relation)
		case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL, sqlite3.SQLITE_CONSTRAINT:
			return fmt.Errorf("%w: %s: %v", apperr.ErrConflict, relation, err)
		}
	}
	return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
}

// affected turns a zero-row UPDATE/DELETE into ErrNotFound.
func affected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, what)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}

// limitOrDefault maps 0 to the default page size and a negative limit to
// no limit.
func limitOrDefault(limit int) int {
	switch {
	case limit == 0:
		return 50
	case limit < 0:
		return -1
	}
	return limit
}
