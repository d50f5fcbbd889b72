package jotbox_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jotbox"
	"github.com/aretw0/jotbox/pkg/adapters/memory"
	"github.com/aretw0/jotbox/pkg/adapters/share"
	"github.com/aretw0/jotbox/pkg/core"
	"github.com/aretw0/jotbox/pkg/export"
)

func openApp(t *testing.T, opts ...jotbox.Option) *jotbox.App {
	t.Helper()
	app, err := jotbox.Open(context.Background(), append([]jotbox.Option{jotbox.WithAdapter("memory")}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func TestNotesLifecycle(t *testing.T) {
	ctx := context.Background()
	app := openApp(t)

	note, res := app.CreateNote(ctx, "  Shopping  ", "bread", "")
	require.True(t, res.Success, res.Message())
	assert.Equal(t, "Shopping", note.Title)
	assert.Equal(t, core.DefaultColor, note.Color)

	note.Content = "bread and cheese"
	res = app.UpdateNote(ctx, note)
	require.True(t, res.Success, res.Message())
	assert.Equal(t, "Note updated", res.Message())

	got, res := app.GetNote(ctx, note.ID)
	require.True(t, res.Success)
	assert.Equal(t, "bread and cheese", got.Content)

	found, res := app.Search(ctx, "CHEESE")
	require.True(t, res.Success)
	assert.Len(t, found, 1)

	require.True(t, app.DeleteNote(ctx, note.ID).Success)
	require.True(t, app.DeleteNote(ctx, note.ID).Success, "deleting twice is a no-op")

	list, res := app.LoadNotes(ctx)
	require.True(t, res.Success)
	assert.Empty(t, list)
}

func TestValidation(t *testing.T) {
	ctx := context.Background()
	app := openApp(t)

	_, res := app.CreateNote(ctx, "   ", "body", "")
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, core.ErrInvalidNote)
	assert.Contains(t, res.Message(), "Failed to save note")

	_, res = app.CreateTodo(ctx, "Empty", []string{" ", ""}, "")
	assert.ErrorIs(t, res.Err, core.ErrInvalidNote)

	_, res = app.CreateNote(ctx, "Colored", "", "#000000")
	assert.ErrorIs(t, res.Err, core.ErrInvalidNote)

	res = app.UpdateNote(ctx, core.Note{ID: "missing", Title: "Ghost"})
	assert.ErrorIs(t, res.Err, core.ErrNotFound)
	assert.Equal(t, "Failed to update note", res.Message())
}

func TestTasks(t *testing.T) {
	ctx := context.Background()
	app := openApp(t)

	todo, res := app.CreateTodo(ctx, "Groceries", []string{"Milk"}, "#baffc9")
	require.True(t, res.Success, res.Message())
	require.Len(t, todo.Tasks, 1)

	todo, res = app.AddTask(ctx, todo.ID, "Eggs")
	require.True(t, res.Success, res.Message())
	require.Len(t, todo.Tasks, 2)

	todo, res = app.EditTask(ctx, todo.ID, todo.Tasks[1].ID, "Free-range eggs")
	require.True(t, res.Success)
	assert.Equal(t, "Free-range eggs", todo.Tasks[1].Text)

	todo, res = app.ToggleTask(ctx, todo.ID, todo.Tasks[0].ID)
	require.True(t, res.Success)
	assert.Equal(t, 1, core.CompletedCount(todo.Tasks))

	todo, res = app.RemoveTask(ctx, todo.ID, todo.Tasks[0].ID)
	require.True(t, res.Success)
	require.Len(t, todo.Tasks, 1)

	// The last task cannot be removed.
	_, res = app.RemoveTask(ctx, todo.ID, todo.Tasks[0].ID)
	assert.ErrorIs(t, res.Err, core.ErrInvalidNote)

	note, _ := app.CreateNote(ctx, "Plain", "text", "")
	_, res = app.AddTask(ctx, note.ID, "nope")
	assert.ErrorIs(t, res.Err, core.ErrInvalidNote)
}

func TestUnchangedTasksSkipWrite(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore(nil)
	app := openApp(t, jotbox.WithStore(kv))

	todo, res := app.CreateTodo(ctx, "Groceries", []string{"Milk"}, "")
	require.True(t, res.Success, res.Message())
	before := kv.SetCalls(core.NotesKey)

	got, res := app.AddTask(ctx, todo.ID, "   ")
	require.True(t, res.Success, res.Message())
	assert.Equal(t, todo.Tasks, got.Tasks)
	assert.Equal(t, todo.LastModified, got.LastModified)
	assert.Equal(t, before, kv.SetCalls(core.NotesKey), "nothing should be written")
}

func TestStateVersion(t *testing.T) {
	app := openApp(t)
	state, isAppState := app.State().(jotbox.AppState)
	require.True(t, isAppState)
	assert.NotContains(t, state.Version, "\n")
	assert.Equal(t, strings.TrimSpace(jotbox.Version), state.Version)
}

func TestCorruptCollection(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewStore(map[string]string{core.NotesKey: "not json"})
	app := openApp(t, jotbox.WithStore(kv))

	list, res := app.LoadNotes(ctx)
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, core.ErrDecode)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, res = app.CreateNote(ctx, "New", "", "")
	assert.ErrorIs(t, res.Err, core.ErrDecode)
	assert.Equal(t, "not json", kv.Snapshot()[core.NotesKey])
}

func TestExportAndBackup(t *testing.T) {
	ctx := context.Background()
	shareDir := t.TempDir()
	app := openApp(t,
		jotbox.WithShareDir(shareDir),
		jotbox.WithExportDir(t.TempDir()),
		jotbox.WithBackupDir(t.TempDir()),
	)

	_, res := app.CreateNote(ctx, "Shopping", "bread", "")
	require.True(t, res.Success)
	_, res = app.CreateTodo(ctx, "Groceries", []string{"Milk"}, "")
	require.True(t, res.Success)
	require.NoError(t, app.Storage().Set(ctx, core.PasswordsKey, `[{"site":"mail"}]`))

	all, _ := app.LoadNotes(ctx)
	path, res := app.ExportSelectedNotes(ctx, all, export.FormatText)
	require.True(t, res.Success, res.Message())
	assert.FileExists(t, filepath.Join(shareDir, filepath.Base(path)))

	_, res = app.ExportSelectedNotes(ctx, nil, export.FormatText)
	assert.ErrorIs(t, res.Err, core.ErrExport)

	backupPath, res := app.CreateBackup(ctx)
	require.True(t, res.Success, res.Message())
	assert.Equal(t, "Backup created", res.Message())

	// Restore into a fresh app through the picker.
	restored := openApp(t, jotbox.WithPicker(share.PathPicker{Path: backupPath}))
	res = restored.RestoreFromBackup(ctx)
	require.True(t, res.Success, res.Message())
	assert.Equal(t, "Backup restored successfully", res.Message())

	got, _ := restored.LoadNotes(ctx)
	assert.Equal(t, all, got)
	value, _, err := restored.Storage().Get(ctx, core.PasswordsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"site":"mail"}]`, value)
}

func TestBackupWithoutSharing(t *testing.T) {
	ctx := context.Background()
	app := openApp(t, jotbox.WithBackupDir(t.TempDir()))

	path, res := app.CreateBackup(ctx)
	assert.False(t, res.Success)
	assert.Equal(t, "Sharing is not available on this device", res.Message())
	assert.FileExists(t, path)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("Cancelled", func(t *testing.T) {
		app := openApp(t)
		res := app.RestoreFromBackup(ctx)
		assert.False(t, res.Success)
		assert.True(t, res.Cancelled())
		assert.Equal(t, "Cancelled", res.Message())
	})

	t.Run("Invalid File", func(t *testing.T) {
		kv := memory.NewStore(map[string]string{core.NotesKey: "[]"})
		app := openApp(t, jotbox.WithStore(kv))
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"notes":[],"passwords":[]}`), 0600))

		res := app.RestoreBackupFile(ctx, path)
		assert.ErrorIs(t, res.Err, core.ErrInvalidBackupFormat)
		assert.Equal(t, "Failed to restore backup", res.Message())
		assert.Zero(t, kv.SetCalls(core.NotesKey))
	})
}

func TestOpenFilesystem(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "store")

	app, err := jotbox.Open(ctx, jotbox.WithPath(dir))
	require.NoError(t, err)
	_, res := app.CreateNote(ctx, "Persisted", "", "")
	require.True(t, res.Success)
	require.NoError(t, app.Close())
	assert.Equal(t, dir, app.Location())

	reopened, err := jotbox.Open(ctx, jotbox.WithPath(dir), jotbox.WithReadOnly(true))
	require.NoError(t, err)
	list, res := reopened.LoadNotes(ctx)
	require.True(t, res.Success)
	require.Len(t, list, 1)

	_, res = reopened.CreateNote(ctx, "Blocked", "", "")
	assert.ErrorIs(t, res.Err, core.ErrReadOnly)

	state, ok := reopened.State().(jotbox.AppState)
	require.True(t, ok)
	assert.Equal(t, dir, state.Location)
	assert.Equal(t, "jotbox-app", reopened.ComponentType())
}
