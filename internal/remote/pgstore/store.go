// Package pgstore keeps progress records in Postgres, the same table layout a
// hosted PostgREST backend exposes.
package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/idilsaglam/grimoire/internal/model"
)

// Schema creates the progress table. The primary key is the upsert target.
const Schema = `CREATE TABLE IF NOT EXISTS progress (
	user_id      TEXT NOT NULL,
	item_id      TEXT NOT NULL,
	completed    BOOLEAN NOT NULL DEFAULT FALSE,
	completed_at TIMESTAMPTZ,
	PRIMARY KEY (user_id, item_id)
)`

// Store provides Postgres-backed persistence for progress records.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps an existing pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens a pool for url and ensures the schema.
func Connect(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := NewStore(pool)
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema runs the idempotent DDL.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() { s.pool.Close() }

// FetchProgress lists every record of userID.
func (s *Store) FetchProgress(ctx context.Context, userID string) ([]model.ProgressRecord, error) {
	const query = `SELECT user_id, item_id, completed, completed_at FROM progress WHERE user_id=$1 ORDER BY item_id`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ProgressRecord
	for rows.Next() {
		var (
			rec model.ProgressRecord
			at  *time.Time
		)
		if err := rows.Scan(&rec.UserID, &rec.ItemID, &rec.Completed, &at); err != nil {
			return nil, err
		}
		if at != nil {
			utc := at.UTC()
			rec.CompletedAt = &utc
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpsertProgress inserts or overwrites on (user_id, item_id).
func (s *Store) UpsertProgress(ctx context.Context, rec model.ProgressRecord) error {
	const stmt = `INSERT INTO progress (user_id, item_id, completed, completed_at)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (user_id, item_id) DO UPDATE SET completed = EXCLUDED.completed, completed_at = EXCLUDED.completed_at`

	_, err := s.pool.Exec(ctx, stmt, rec.UserID, rec.ItemID, rec.Completed, rec.CompletedAt)
	return err
}

// DeleteAllProgress removes every record of userID.
func (s *Store) DeleteAllProgress(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM progress WHERE user_id=$1`, userID)
	return err
}
