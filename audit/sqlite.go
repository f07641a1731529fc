package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS invocations (
	invocation_id TEXT PRIMARY KEY,
	skill TEXT NOT NULL,
	tool TEXT NOT NULL,
	success INTEGER NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	duration_ms INTEGER NOT NULL,
	recorded_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_invocations_recorded_at
	ON invocations (recorded_at DESC);`

const (
	defaultSQLiteDir = ".petalskill"
	defaultSQLiteDB  = "petalskill.db"
)

// SQLiteStore persists invocation records in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// DefaultSQLitePath returns the default audit database path,
// ~/.petalskill/petalskill.db.
func DefaultSQLitePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("audit: resolve user home: %w", err)
	}
	return filepath.Join(home, defaultSQLiteDir, defaultSQLiteDB), nil
}

// NewDefaultSQLiteStore opens the audit store at its default path,
// creating the directory when needed.
func NewDefaultSQLiteStore() (*SQLiteStore, error) {
	path, err := DefaultSQLitePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("audit: create store dir: %w", err)
	}
	return NewSQLiteStore(path)
}

// NewSQLiteStore opens (or creates) an audit store at the given path.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("audit: sqlite store dsn is required")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("audit: sqlite open: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit: sqlite set WAL mode: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("audit: sqlite create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Append implements Store.
func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return errors.New("audit: sqlite store is nil")
	}

	recordedAt := rec.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO invocations
	(invocation_id, skill, tool, success, error_message, duration_ms, recorded_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.InvocationID,
		rec.Skill,
		rec.Tool,
		boolToInt(rec.Success),
		rec.ErrorMessage,
		rec.DurationMS,
		recordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("audit: sqlite append record: %w", err)
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, errors.New("audit: sqlite store is nil")
	}

	query := `
SELECT invocation_id, skill, tool, success, error_message, duration_ms, recorded_at
FROM invocations
ORDER BY recorded_at DESC, invocation_id DESC`
	args := []any{}
	if limit > 0 {
		query += "\nLIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit: sqlite list records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec        Record
			success    int
			recordedAt string
		)
		if err := rows.Scan(
			&rec.InvocationID,
			&rec.Skill,
			&rec.Tool,
			&success,
			&rec.ErrorMessage,
			&rec.DurationMS,
			&recordedAt,
		); err != nil {
			return nil, fmt.Errorf("audit: sqlite scan record: %w", err)
		}
		rec.Success = success != 0
		ts, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("audit: sqlite parse timestamp: %w", err)
		}
		rec.RecordedAt = ts
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: sqlite record rows: %w", err)
	}
	return records, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
