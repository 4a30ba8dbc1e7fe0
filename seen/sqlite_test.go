package seen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pevans/newswatch"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "seen.db"), "")
	require.NoError(t, err)
	return store
}

// TestSQLiteStore_LoadEmpty verifies a new database is an empty set
func TestSQLiteStore_LoadEmpty(t *testing.T) {
	store := newTestSQLiteStore(t)

	set, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

// TestSQLiteStore_RoundTrip verifies saved links load back
func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	want := newswatch.NewSet(itemOne, itemTwo, itemThree)
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

// TestSQLiteStore_SaveReplaces verifies Save writes exactly the given set
func TestSQLiteStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	require.NoError(t, store.Save(ctx, newswatch.NewSet(itemOne, itemTwo)))
	require.NoError(t, store.Save(ctx, newswatch.NewSet(itemTwo, itemThree)))
	require.NoError(t, store.Save(ctx, newswatch.NewSet(itemTwo, itemThree)))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{itemThree, itemTwo}, got.Sorted())
}

// TestSQLiteStore_CustomTable verifies a configured table name
func TestSQLiteStore_CustomTable(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "seen.db"), "pgrp_links")
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, newswatch.NewSet(itemOne)))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, got.Has(itemOne))
}

// TestSQLiteStore_InvalidTable verifies unsafe table names are rejected
func TestSQLiteStore_InvalidTable(t *testing.T) {
	_, err := NewSQLiteStore("seen.db", "links; DROP TABLE x")
	assert.Error(t, err)
}

// TestSQLiteStore_CorruptFile verifies a non-database file is an error
func TestSQLiteStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.db")
	require.NoError(t, os.WriteFile(path, []byte("this is not a sqlite database, just some text that is long enough"), 0o600))

	store, err := NewSQLiteStore(path, "")
	require.NoError(t, err)

	_, err = store.Load(context.Background())
	assert.Error(t, err)
}
