package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jotbox/pkg/adapters/fs"
	"github.com/aretw0/jotbox/pkg/core"
)

// setupStore creates an initialized store rooted in a fresh temp directory.
func setupStore(t *testing.T, opts ...func(*fs.Config)) (*fs.Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data")
	cfg := fs.Config{Path: path}
	for _, opt := range opts {
		opt(&cfg)
	}

	store := fs.NewStore(cfg)
	require.NoError(t, store.Initialize(context.Background()))
	return store, path
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Directory if Missing", func(t *testing.T) {
		_, path := setupStore(t)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		store := fs.NewStore(fs.Config{Path: filepath.Join(t.TempDir(), "nope"), MustExist: true})
		assert.Error(t, store.Initialize(context.Background()))
	})

	t.Run("Fails if Path Is a File", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0644))

		store := fs.NewStore(fs.Config{Path: file, MustExist: true})
		assert.Error(t, store.Initialize(context.Background()))
	})
}

func TestGetSet(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing Key", func(t *testing.T) {
		store, _ := setupStore(t)

		_, found, err := store.Get(ctx, core.NotesKey)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Round Trip", func(t *testing.T) {
		store, path := setupStore(t)

		require.NoError(t, store.Set(ctx, core.NotesKey, `[{"id":"1"}]`))

		got, found, err := store.Get(ctx, core.NotesKey)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `[{"id":"1"}]`, got)

		_, err = os.Stat(filepath.Join(path, "@notes_v1.json"))
		assert.NoError(t, err, "expected one file per key")
	})

	t.Run("Keys Cannot Escape Directory", func(t *testing.T) {
		store, path := setupStore(t)

		require.NoError(t, store.Set(ctx, "../outside", "[]"))

		_, err := os.Stat(filepath.Join(filepath.Dir(path), "outside.json"))
		assert.True(t, os.IsNotExist(err))

		got, found, err := store.Get(ctx, "../outside")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "[]", got)
	})

	t.Run("Read Only Rejects Writes", func(t *testing.T) {
		_, path := setupStore(t)
		ro := fs.NewStore(fs.Config{Path: path, ReadOnly: true})
		require.NoError(t, ro.Initialize(ctx))

		assert.ErrorIs(t, ro.Set(ctx, core.NotesKey, "[]"), core.ErrReadOnly)
	})

	t.Run("State Counts Writes", func(t *testing.T) {
		store, _ := setupStore(t)
		require.NoError(t, store.Set(ctx, core.NotesKey, "[]"))
		require.NoError(t, store.Set(ctx, core.PasswordsKey, "[]"))

		state := store.State().(fs.StoreState)
		assert.Equal(t, 2, state.Writes)
		assert.NotNil(t, state.LastWrite)
	})
}

func TestWatch(t *testing.T) {
	store, path := setupStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := store.Watch(ctx)
	require.NoError(t, err)

	// A second handle on the same directory plays the external writer.
	other := fs.NewStore(fs.Config{Path: path})
	require.NoError(t, other.Set(context.Background(), core.PasswordsKey, "[]"))

	select {
	case e := <-events:
		assert.Equal(t, core.PasswordsKey, e.Key)
		assert.Equal(t, core.EventModify, e.Type)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for watch event")
	}

	cancel()
	for range events {
		// drain until closed
	}
}
