// Package sqlitestore keeps progress records in a local SQLite file. It is the
// default backend when no hosted endpoint is configured.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/idilsaglam/grimoire/internal/model"
)

// Store implements progress.Remote on database/sql.
type Store struct {
	db *sql.DB
}

// Open creates the file and schema if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL allows one writer with readers; busy_timeout absorbs short lock waits
	// from concurrent toggles.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS progress (
			user_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			completed INTEGER NOT NULL,
			completed_at_unixms INTEGER,
			PRIMARY KEY(user_id, item_id)
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// FetchProgress lists every record of userID.
func (s *Store) FetchProgress(ctx context.Context, userID string) ([]model.ProgressRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, item_id, completed, completed_at_unixms FROM progress WHERE user_id = ? ORDER BY item_id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ProgressRecord
	for rows.Next() {
		var (
			rec  model.ProgressRecord
			done int
			at   sql.NullInt64
		)
		if err := rows.Scan(&rec.UserID, &rec.ItemID, &done, &at); err != nil {
			return nil, err
		}
		rec.Completed = done != 0
		if at.Valid {
			t := time.UnixMilli(at.Int64).UTC()
			rec.CompletedAt = &t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpsertProgress inserts or overwrites on (user_id, item_id).
func (s *Store) UpsertProgress(ctx context.Context, rec model.ProgressRecord) error {
	var at any
	if rec.CompletedAt != nil {
		at = rec.CompletedAt.UnixMilli()
	}
	done := 0
	if rec.Completed {
		done = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress (user_id, item_id, completed, completed_at_unixms)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, item_id) DO UPDATE SET
			completed = excluded.completed,
			completed_at_unixms = excluded.completed_at_unixms`,
		rec.UserID, rec.ItemID, done, at)
	return err
}

// DeleteAllProgress removes every record of userID.
func (s *Store) DeleteAllProgress(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM progress WHERE user_id = ?`, userID)
	return err
}
