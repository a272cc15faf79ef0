package snapshot

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

// SectionRecord is one synced library section.
type SectionRecord struct {
	Key      int64
	Title    string
	Type     string
	SyncedAt time.Time
}

// ItemRecord is one synced library item.
type ItemRecord struct {
	RatingKey  int64
	SectionKey int64
	Key        string
	Type       string
	Title      string
	Year       int
	AddedAt    time.Time
	ViewCount  int
}

// Store manages snapshot persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Open initializes or connects to the snapshot database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure snapshot directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ReplaceSection replaces the stored listing of one section atomically.
func (s *Store) ReplaceSection(ctx context.Context, section SectionRecord, items []ItemRecord) error {
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin snapshot tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		syncedAt := section.SyncedAt
		if syncedAt.IsZero() {
			syncedAt = time.Now().UTC()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sections (key, title, type, synced_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET title=excluded.title, type=excluded.type, synced_at=excluded.synced_at`,
			section.Key, section.Title, section.Type, syncedAt.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("upsert section: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE section_key = ?", section.Key); err != nil {
			return fmt.Errorf("clear section items: %w", err)
		}

		for _, item := range items {
			added := ""
			if !item.AddedAt.IsZero() {
				added = item.AddedAt.UTC().Format(time.RFC3339)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO items (rating_key, section_key, key, type, title, year, added_at, view_count)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				item.RatingKey, section.Key, item.Key, item.Type, item.Title, item.Year, added, item.ViewCount); err != nil {
				return fmt.Errorf("insert item %d: %w", item.RatingKey, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit snapshot: %w", err)
		}
		return nil
	})
}

// Sections lists the synced sections ordered by key.
func (s *Store) Sections(ctx context.Context) ([]SectionRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, title, type, synced_at FROM sections ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	defer rows.Close()

	var sections []SectionRecord
	for rows.Next() {
		var rec SectionRecord
		var syncedAt string
		if err := rows.Scan(&rec.Key, &rec.Title, &rec.Type, &syncedAt); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		rec.SyncedAt, _ = time.Parse(time.RFC3339, syncedAt)
		sections = append(sections, rec)
	}
	return sections, rows.Err()
}

// Items lists the synced items of one section ordered by title.
func (s *Store) Items(ctx context.Context, sectionKey int64) ([]ItemRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rating_key, section_key, key, type, title, year, added_at, view_count
		 FROM items WHERE section_key = ? ORDER BY title`, sectionKey)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// Search returns the synced items whose title contains the query,
// case-insensitively, across all sections.
func (s *Store) Search(ctx context.Context, query string) ([]ItemRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rating_key, section_key, key, type, title, year, added_at, view_count
		 FROM items WHERE title LIKE ? COLLATE NOCASE ORDER BY title`, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]ItemRecord, error) {
	var items []ItemRecord
	for rows.Next() {
		var rec ItemRecord
		var added string
		if err := rows.Scan(&rec.RatingKey, &rec.SectionKey, &rec.Key, &rec.Type, &rec.Title, &rec.Year, &added, &rec.ViewCount); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if added != "" {
			rec.AddedAt, _ = time.Parse(time.RFC3339, added)
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}
