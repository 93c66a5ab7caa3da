package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/dbx"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// WithClock replaces the time source used for expiry checks.
func (r *SQLiteRepository) WithClock(now func() time.Time) *SQLiteRepository {
	r.now = now
	return r
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT value FROM metadata
		WHERE key = ? AND (expires_at IS NULL OR expires_at > ?)
	`, key, r.now().Unix()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	return r.upsert(ctx, key, value, sql.NullInt64{})
}

func (r *SQLiteRepository) SetWithExpiry(ctx context.Context, key string, value []byte, expiresAt time.Time) error {
	return r.upsert(ctx, key, value, sql.NullInt64{Int64: expiresAt.Unix(), Valid: true})
}

func (r *SQLiteRepository) upsert(ctx context.Context, key string, value []byte, expiresAt sql.NullInt64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, key, value, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) ExpiresAt(ctx context.Context, key string) (time.Time, bool, error) {
	var expiresAt sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT expires_at FROM metadata
		WHERE key = ? AND (expires_at IS NULL OR expires_at > ?)
	`, key, r.now().Unix()).Scan(&expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get metadata[%s] expiry: %w", key, err)
	}
	if !expiresAt.Valid {
		return time.Time{}, false, nil
	}
	return time.Unix(expiresAt.Int64, 0), true, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	_, err := r.db.ExecContext(ctx, `DELETE FROM metadata WHERE key IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("failed to delete metadata%v: %w", keys, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM metadata`); err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, prefix string) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT key, value FROM metadata
		WHERE substr(key, 1, ?) = ? AND (expires_at IS NULL OR expires_at > ?)
	`, len(prefix), prefix, r.now().Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate metadata rows: %w", err)
	}

	return result, nil
}
