package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openKV(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)`)
	require.NoError(t, err)
	return db
}

func keys(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n))
	return n
}

func put(ctx context.Context, tx DBTX, k string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO kv (k, v) VALUES (?, 'x')`, k)
	return err
}

func TestWithTx(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name     string
		fn       func(ctx context.Context, tx DBTX) error
		wantErr  error
		wantRows int
	}{
		{
			name: "commit",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := put(ctx, tx, "token"); err != nil {
					return err
				}
				return put(ctx, tx, "role")
			},
			wantRows: 2,
		},
		{
			name: "rollback on error",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := put(ctx, tx, "token"); err != nil {
					return err
				}
				return boom
			},
			wantErr:  boom,
			wantRows: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openKV(t)
			err := WithTx(context.Background(), db, nil, tt.fn)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantRows, keys(t, db))
		})
	}
}

func TestWithTx_PanicRollsBackAndRethrows(t *testing.T) {
	db := openKV(t)

	require.PanicsWithValue(t, "kaput", func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			require.NoError(t, put(ctx, tx, "token"))
			panic("kaput")
		})
	})
	assert.Equal(t, 0, keys(t, db))
}

func TestWithTx_ClosedDatabase(t *testing.T) {
	db := openKV(t)
	require.NoError(t, db.Close())

	called := false
	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
}
