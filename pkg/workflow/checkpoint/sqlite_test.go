package checkpoint

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_SaveLoad(t *testing.T) {
	store := newSQLiteTestStore(t)

	require.NoError(t, store.Save("exec-1", []byte("payload")))

	got, err := store.Load("exec-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

func TestSQLiteStore_SaveOverwrites(t *testing.T) {
	store := newSQLiteTestStore(t)

	require.NoError(t, store.Save("exec-1", []byte("first")))
	require.NoError(t, store.Save("exec-1", []byte("second")))

	got, err := store.Load("exec-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)

	infos, err := store.List()
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestSQLiteStore_LoadMissing(t *testing.T) {
	store := newSQLiteTestStore(t)

	_, err := store.Load("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_Delete(t *testing.T) {
	store := newSQLiteTestStore(t)

	require.NoError(t, store.Save("exec-1", []byte("x")))
	require.NoError(t, store.Delete("exec-1"))

	_, err := store.Load("exec-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.Delete("exec-1"))
}

func TestSQLiteStore_List(t *testing.T) {
	store := newSQLiteTestStore(t)

	require.NoError(t, store.Save("exec-b", []byte("bb")))
	require.NoError(t, store.Save("exec-a", []byte("a")))

	infos, err := store.List()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "exec-a", infos[0].ExecutionID)
	assert.Equal(t, int64(1), infos[0].Size)
	assert.Equal(t, "exec-b", infos[1].ExecutionID)
	assert.False(t, infos[1].Timestamp.IsZero())
}

// TestSQLiteStore_PersistsAcrossReopen verifies durability with a real
// database file.
func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoints.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Save("exec-1", []byte("survives")))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Load("exec-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("survives"), got)
}

func TestSQLiteStore_Closed(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.Save("exec-1", []byte("x")), ErrStoreClosed)
	_, err = store.Load("exec-1")
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, store.Delete("exec-1"), ErrStoreClosed)
	_, err = store.List()
	assert.ErrorIs(t, err, ErrStoreClosed)

	// Double close is a no-op.
	assert.NoError(t, store.Close())
}
