// Package store handles SQLite persistence of request history.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/azielinski/nbpstat/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const dateLayout = "2006-01-02"

// Store wraps SQLite access for the request history. Only request
// summaries are recorded; fetched rates are never persisted.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS requests (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			kind TEXT NOT NULL,
			subject TEXT NOT NULL,
			period TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			points INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_requests_created_at ON requests(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertEntry stores a completed request summary.
func (s *Store) InsertEntry(ctx context.Context, entry model.HistoryEntry) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO requests (created_at, kind, subject, period, start_date, end_date, points)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
		entry.Kind,
		entry.Subject,
		entry.Period,
		entry.StartDate.Format(dateLayout),
		entry.EndDate.Format(dateLayout),
		entry.Points,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRecent returns the most recent request summaries, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, kind, subject, period, start_date, end_date, points
		 FROM requests
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []model.HistoryEntry
	for rows.Next() {
		var entry model.HistoryEntry
		var createdAt, startDate, endDate string
		if err := rows.Scan(&entry.ID, &createdAt, &entry.Kind, &entry.Subject, &entry.Period, &startDate, &endDate, &entry.Points); err != nil {
			return nil, err
		}
		if entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, err
		}
		if entry.StartDate, err = time.ParseInLocation(dateLayout, startDate, time.UTC); err != nil {
			return nil, err
		}
		if entry.EndDate, err = time.ParseInLocation(dateLayout, endDate, time.UTC); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
