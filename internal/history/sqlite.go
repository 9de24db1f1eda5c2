// Package history provides a SQLite-backed log of executed searches for the
// operational stats surface.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Entry is one logged search execution.
type Entry struct {
	ID                 string    `json:"id"`
	Query              string    `json:"query"`
	Index              string    `json:"index"`
	VariantCount       int       `json:"variant_count"`
	FailedVariants     int       `json:"failed_variants"`
	UniqueHits         int       `json:"unique_hits"`
	DeduplicationCount int       `json:"deduplication_count"`
	Algorithm          string    `json:"algorithm"`
	QueryTimeMs        int64     `json:"query_time_ms"`
	CreatedAt          time.Time `json:"created_at"`
}

// Store persists search history in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS query_log (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		idx TEXT NOT NULL,
		variant_count INTEGER NOT NULL,
		failed_variants INTEGER NOT NULL,
		unique_hits INTEGER NOT NULL,
		deduplication_count INTEGER NOT NULL,
		algorithm TEXT NOT NULL,
		query_time_ms INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_query_log_created_at ON query_log(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Record inserts one entry. A zero ID or CreatedAt is filled in.
func (s *Store) Record(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO query_log (id, query, idx, variant_count, failed_variants, unique_hits, deduplication_count, algorithm, query_time_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Query, entry.Index, entry.VariantCount, entry.FailedVariants,
		entry.UniqueHits, entry.DeduplicationCount, entry.Algorithm, entry.QueryTimeMs, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record query: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]*Entry, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, idx, variant_count, failed_variants, unique_hits, deduplication_count, algorithm, query_time_ms, created_at
		 FROM query_log ORDER BY created_at DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.ID, &e.Query, &e.Index, &e.VariantCount, &e.FailedVariants,
			&e.UniqueHits, &e.DeduplicationCount, &e.Algorithm, &e.QueryTimeMs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the total number of logged queries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM query_log`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}
