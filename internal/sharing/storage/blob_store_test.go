package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharingDomain "github.com/allisson/securevault/internal/sharing/domain"
)

func openMemStore(t *testing.T) *BlobStore {
	t.Helper()
	store, err := OpenBlobStore(context.Background(), "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBlobStore_PutGet(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RoundTrip", func(t *testing.T) {
		store := openMemStore(t)

		require.NoError(t, store.Put(ctx, "files/a/b", []byte("ciphertext")))

		data, err := store.Get(ctx, "files/a/b")
		require.NoError(t, err)
		assert.Equal(t, []byte("ciphertext"), data)
	})

	t.Run("Success_Overwrite", func(t *testing.T) {
		store := openMemStore(t)

		require.NoError(t, store.Put(ctx, "k", []byte("first")))
		require.NoError(t, store.Put(ctx, "k", []byte("second")))

		data, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), data)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		store := openMemStore(t)

		data, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, sharingDomain.ErrContentNotFound)
		assert.Nil(t, data)
	})
}

func TestBlobStore_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store := openMemStore(t)
		require.NoError(t, store.Put(ctx, "k", []byte("data")))

		require.NoError(t, store.Delete(ctx, "k"))

		_, err := store.Get(ctx, "k")
		assert.ErrorIs(t, err, sharingDomain.ErrContentNotFound)
	})

	t.Run("Success_MissingKey", func(t *testing.T) {
		store := openMemStore(t)
		assert.NoError(t, store.Delete(ctx, "missing"))
	})
}

func TestOpenBlobStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_FileBucket", func(t *testing.T) {
		dir := t.TempDir()
		store, err := OpenBlobStore(ctx, "file://"+filepath.ToSlash(dir))
		require.NoError(t, err)
		defer func() { assert.NoError(t, store.Close()) }()

		require.NoError(t, store.Ping(ctx))
		require.NoError(t, store.Put(ctx, "files/owner/id", []byte("ciphertext")))

		entries, err := os.ReadDir(filepath.Join(dir, "files", "owner"))
		require.NoError(t, err)
		assert.NotEmpty(t, entries)
	})

	t.Run("Error_UnknownScheme", func(t *testing.T) {
		store, err := OpenBlobStore(ctx, "unknown://bucket")
		assert.Error(t, err)
		assert.Nil(t, store)
		assert.Contains(t, err.Error(), "failed to open blob bucket")
	})
}
