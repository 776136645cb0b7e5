package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"advisor/internal/core"
)

// postgresStore implements core.Store on PostgreSQL
type postgresStore struct {
	pool *pgxpool.Pool
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS search_history (
	id              TEXT PRIMARY KEY,
	query           TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL,
	recommendations JSONB
);
CREATE INDEX IF NOT EXISTS idx_search_history_created_at ON search_history(created_at DESC);

CREATE TABLE IF NOT EXISTS favorites (
	product_id TEXT PRIMARY KEY,
	added_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// NewPostgreSQL creates a PostgreSQL-backed store.
// It creates a connection pool for efficient connection reuse.
func NewPostgreSQL(ctx context.Context, cfg PostgreSQLConfig) (core.Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("PostgreSQL URL is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL URL: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	} else {
		poolCfg.MaxConns = 10
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &postgresStore{pool: pool}, nil
}

func (s *postgresStore) SaveSearch(ctx context.Context, rec core.SearchRecord) error {
	recs, err := json.Marshal(rec.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	if _, err := s.pool.Exec(ctx,
		`INSERT INTO search_history (id, query, created_at, recommendations) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET query = $2, created_at = $3, recommendations = $4`,
		rec.ID, rec.Query, rec.Timestamp.UTC(), recs); err != nil {
		return fmt.Errorf("failed to insert search record: %w", err)
	}

	if _, err := s.pool.Exec(ctx,
		`DELETE FROM search_history WHERE id NOT IN (
			SELECT id FROM search_history ORDER BY created_at DESC LIMIT $1
		)`, HistoryLimit); err != nil {
		return fmt.Errorf("failed to trim search history: %w", err)
	}

	return nil
}

func (s *postgresStore) SearchHistory(ctx context.Context) ([]core.SearchRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, query, created_at, recommendations FROM search_history ORDER BY created_at DESC LIMIT $1`,
		HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	var records []core.SearchRecord
	for rows.Next() {
		var rec core.SearchRecord
		var recs []byte
		if err := rows.Scan(&rec.ID, &rec.Query, &rec.Timestamp, &recs); err != nil {
			return nil, fmt.Errorf("failed to scan search record: %w", err)
		}
		if len(recs) > 0 {
			if err := json.Unmarshal(recs, &rec.Recommendations); err != nil {
				return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *postgresStore) ClearSearchHistory(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM search_history`); err != nil {
		return fmt.Errorf("failed to clear search history: %w", err)
	}
	return nil
}

func (s *postgresStore) AddFavorite(ctx context.Context, productID string) error {
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO favorites (product_id) VALUES ($1) ON CONFLICT (product_id) DO NOTHING`,
		productID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (s *postgresStore) RemoveFavorite(ctx context.Context, productID string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM favorites WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (s *postgresStore) Favorites(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
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

func (s *postgresStore) IsFavorite(ctx context.Context, productID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM favorites WHERE product_id = $1)`, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}

func (s *postgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
