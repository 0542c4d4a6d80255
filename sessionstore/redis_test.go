package sessionstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedis("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	rec := Record{BackendID: "local", Address: "GABC"}
	require.NoError(t, store.Save(ctx, rec))

	loaded, found, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, rec, loaded)
}

func TestLoadAbsentKey(t *testing.T) {
	store, _ := newTestStore(t)

	_, found, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClearRemovesRecord(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Record{BackendID: "remote", Address: "GDEF"}))
	require.NoError(t, store.Clear(ctx))

	_, found, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	assert.False(t, mr.Exists(sessionKey))
}

func TestSaveOverwrites(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Record{BackendID: "local", Address: "GOLD"}))
	require.NoError(t, store.Save(ctx, Record{BackendID: "remote", Address: "GNEW"}))

	loaded, found, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "remote", loaded.BackendID)
	assert.Equal(t, "GNEW", loaded.Address)
}

func TestInvalidURL(t *testing.T) {
	_, err := NewRedis("not a url")
	assert.Error(t, err)
}
