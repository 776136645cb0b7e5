package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"advisor/internal/core"
)

// sqliteStore implements core.Store on SQLite
type sqliteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS search_history (
	id              TEXT PRIMARY KEY,
	query           TEXT NOT NULL,
	created_at      TIMESTAMP NOT NULL,
	recommendations TEXT
);
CREATE INDEX IF NOT EXISTS idx_search_history_created_at ON search_history(created_at DESC);

CREATE TABLE IF NOT EXISTS favorites (
	product_id TEXT PRIMARY KEY,
	added_at   TIMESTAMP NOT NULL
);
`

// NewSQLite creates a SQLite-backed store.
// It enables WAL mode for better concurrent read/write performance.
func NewSQLite(cfg SQLiteConfig) (core.Store, error) {
	if cfg.Path == "" {
		cfg.Path = "data/advisor.db"
	}

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// WAL mode allows concurrent reads while writing
	dsn := fmt.Sprintf("%s?_journal=WAL&_busy_timeout=5000&_synchronous=NORMAL", cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite only allows one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) SaveSearch(ctx context.Context, rec core.SearchRecord) error {
	recs, err := json.Marshal(rec.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO search_history (id, query, created_at, recommendations) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Query, rec.Timestamp.UTC(), string(recs)); err != nil {
		return fmt.Errorf("failed to insert search record: %w", err)
	}

	// Keep only the newest entries
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM search_history WHERE id NOT IN (
			SELECT id FROM search_history ORDER BY created_at DESC LIMIT ?
		)`, HistoryLimit); err != nil {
		return fmt.Errorf("failed to trim search history: %w", err)
	}

	return nil
}

func (s *sqliteStore) SearchHistory(ctx context.Context) ([]core.SearchRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, created_at, recommendations FROM search_history ORDER BY created_at DESC LIMIT ?`,
		HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	var records []core.SearchRecord
	for rows.Next() {
		var rec core.SearchRecord
		var createdAt time.Time
		var recs sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Query, &createdAt, &recs); err != nil {
			return nil, fmt.Errorf("failed to scan search record: %w", err)
		}
		rec.Timestamp = createdAt
		if recs.Valid && recs.String != "" {
			if err := json.Unmarshal([]byte(recs.String), &rec.Recommendations); err != nil {
				return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *sqliteStore) ClearSearchHistory(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM search_history`); err != nil {
		return fmt.Errorf("failed to clear search history: %w", err)
	}
	return nil
}

func (s *sqliteStore) AddFavorite(ctx context.Context, productID string) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO favorites (product_id, added_at) VALUES (?, ?)`,
		productID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (s *sqliteStore) RemoveFavorite(ctx context.Context, productID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE product_id = ?`, productID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (s *sqliteStore) Favorites(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id FROM favorites ORDER BY added_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *sqliteStore) IsFavorite(ctx context.Context, productID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE product_id = ?`, productID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return n > 0, nil
}

func (s *sqliteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
