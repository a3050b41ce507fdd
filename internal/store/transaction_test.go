package store_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/phrazzld/scry-srs/internal/domain"
	"github.com/phrazzld/scry-srs/internal/platform/sqlite"
	"github.com/phrazzld/scry-srs/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE items (name TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func countItems(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n))
	return n
}

func insert(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO items (name) VALUES ('a')`)
	return err
}

func TestRunInTransaction_Success(t *testing.T) {
	db := openTestDB(t)

	err := store.RunInTransaction(context.Background(), db, insert)

	require.NoError(t, err)
	assert.Equal(t, 1, countItems(t, db))
}

func TestRunInTransaction_FunctionError(t *testing.T) {
	db := openTestDB(t)
	expectedErr := errors.New("function failed")

	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		if err := insert(ctx, tx); err != nil {
			return err
		}
		return expectedErr
	})

	assert.Equal(t, expectedErr, err)
	assert.Equal(t, 0, countItems(t, db), "write must be rolled back")
}

func TestRunInTransaction_Panic(t *testing.T) {
	db := openTestDB(t)

	assert.PanicsWithValue(t, "boom", func() {
		_ = store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			if err := insert(ctx, tx); err != nil {
				return err
			}
			panic("boom")
		})
	})
	assert.Equal(t, 0, countItems(t, db), "write must be rolled back")
}

func TestRunInTransaction_BeginError(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Close())

	called := false
	err := store.RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
	assert.False(t, called)
}

func TestStoresRunInTx(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "stores.db"), 1, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db, nil))
	stores := sqlite.NewStores(db, nil)

	coll, err := domain.NewCollection("deck")
	require.NoError(t, err)
	card, err := domain.NewCard(&coll.ID, "front", "")
	require.NoError(t, err)

	rollback := errors.New("abort")
	err = stores.RunInTx(ctx, func(ctx context.Context, tx store.Stores) error {
		require.NoError(t, tx.Collections.Create(ctx, coll))
		require.NoError(t, tx.Cards.Create(ctx, card))
		return rollback
	})
	assert.ErrorIs(t, err, rollback)

	_, err = stores.Collections.GetByID(ctx, coll.ID)
	assert.ErrorIs(t, err, store.ErrCollectionNotFound)
	_, err = stores.Cards.GetByID(ctx, card.ID)
	assert.ErrorIs(t, err, store.ErrCardNotFound)

	err = stores.RunInTx(ctx, func(ctx context.Context, tx store.Stores) error {
		if err := tx.Collections.Create(ctx, coll); err != nil {
			return err
		}
		return tx.Cards.Create(ctx, card)
	})
	require.NoError(t, err)
	got, err := stores.Cards.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "front", got.Front)
}
