package jotbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"

	"github.com/aretw0/jotbox/internal/platform"
	jlifecycle "github.com/aretw0/jotbox/pkg/adapters/lifecycle"
	"github.com/aretw0/jotbox/pkg/backup"
	"github.com/aretw0/jotbox/pkg/core"
	"github.com/aretw0/jotbox/pkg/export"
	"github.com/aretw0/jotbox/pkg/notes"
)

const maxIDRetries = 3

// App wires the note store, the exporter and the backup engine over one
// storage adapter.
type App struct {
	kv       core.KVStore
	notes    *notes.Store
	exporter *export.Exporter
	backups  *backup.Engine
	ids      core.IDGenerator
	logger   *slog.Logger
	now      func() time.Time
	location string
}

// Open builds an App from the options. The storage is initialized before
// Open returns; call Close when done.
func Open(ctx context.Context, opts ...Option) (*App, error) {
	c, err := platform.Build(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &App{
		kv:       c.Store,
		notes:    notes.NewStore(c.Store, notes.WithLogger(c.Logger)),
		exporter: export.NewExporter(c.ExportDir, c.Sharer, export.WithLogger(c.Logger)),
		backups:  backup.NewEngine(c.Store, c.BackupDir, c.Sharer, c.Picker, backup.WithLogger(c.Logger)),
		ids:      c.IDs,
		logger:   c.Logger,
		now:      time.Now,
		location: c.Location,
	}, nil
}

// Close releases the storage, if it holds resources.
func (a *App) Close() error {
	if closer, ok := a.kv.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Notes exposes the underlying note store.
func (a *App) Notes() *notes.Store { return a.notes }

// Storage exposes the underlying key-value store.
func (a *App) Storage() core.KVStore { return a.kv }

// Location is the resolved storage path, empty for memory or injected stores.
func (a *App) Location() string { return a.location }

// --- Notes ---

// LoadNotes returns every stored note. A corrupt collection yields an empty
// list together with a failed Result.
func (a *App) LoadNotes(ctx context.Context) ([]core.Note, Result) {
	list, err := a.notes.Load(ctx)
	if err != nil {
		return list, a.fail(ActionLoad, err)
	}
	return list, succeeded(ActionLoad)
}

// GetNote returns the note with id.
func (a *App) GetNote(ctx context.Context, id string) (core.Note, Result) {
	n, err := a.notes.Get(ctx, id)
	if err != nil {
		return core.Note{}, a.fail(ActionLoad, err)
	}
	return n, succeeded(ActionLoad)
}

// Search returns the notes whose title, content or tasks contain query.
func (a *App) Search(ctx context.Context, query string) ([]core.Note, Result) {
	list, err := a.notes.Search(ctx, query)
	if err != nil {
		return list, a.fail(ActionLoad, err)
	}
	return list, succeeded(ActionLoad)
}

// CreateNote validates and stores a new plain note.
func (a *App) CreateNote(ctx context.Context, title, content, color string) (core.Note, Result) {
	n := core.NewNote(a.ids, a.now(), title, content, color)
	res := a.create(ctx, &n)
	return n, res
}

// CreateTodo validates and stores a new checklist built from task texts.
// Blank texts are skipped.
func (a *App) CreateTodo(ctx context.Context, title string, tasks []string, color string) (core.Note, Result) {
	items := []core.TodoItem{}
	for _, text := range tasks {
		items = core.AddTaskWith(a.ids, items, text)
	}
	n := core.NewTodo(a.ids, a.now(), title, items, color)
	res := a.create(ctx, &n)
	return n, res
}

// SaveNote appends a fully formed note as-is.
func (a *App) SaveNote(ctx context.Context, note core.Note) Result {
	if err := a.notes.Save(ctx, note); err != nil {
		return a.fail(ActionSave, err)
	}
	return succeeded(ActionSave)
}

// UpdateNote validates note and replaces the stored note with the same id.
func (a *App) UpdateNote(ctx context.Context, note core.Note) Result {
	if err := core.ValidateDraft(note); err != nil {
		return a.fail(ActionUpdate, err)
	}
	if err := a.notes.Update(ctx, note); err != nil {
		return a.fail(ActionUpdate, err)
	}
	return succeeded(ActionUpdate)
}

// DeleteNote removes the note with id. Unknown ids succeed.
func (a *App) DeleteNote(ctx context.Context, id string) Result {
	if err := a.notes.Delete(ctx, id); err != nil {
		return a.fail(ActionDelete, err)
	}
	return succeeded(ActionDelete)
}

// --- Tasks ---

// ToggleTask flips the completion state of one task of a stored todo.
func (a *App) ToggleTask(ctx context.Context, noteID, taskID string) (core.Note, Result) {
	n, err := a.notes.ToggleTask(ctx, noteID, taskID)
	if err != nil {
		return core.Note{}, a.fail(ActionUpdate, err)
	}
	return n, succeeded(ActionUpdate)
}

// AddTask appends a task to a stored todo.
func (a *App) AddTask(ctx context.Context, noteID, text string) (core.Note, Result) {
	return a.editTasks(ctx, noteID, func(tasks []core.TodoItem) []core.TodoItem {
		return core.AddTaskWith(a.ids, tasks, text)
	})
}

// EditTask changes the text of one task of a stored todo.
func (a *App) EditTask(ctx context.Context, noteID, taskID, text string) (core.Note, Result) {
	return a.editTasks(ctx, noteID, func(tasks []core.TodoItem) []core.TodoItem {
		return core.EditTask(tasks, taskID, text)
	})
}

// RemoveTask deletes one task of a stored todo. The last task cannot be removed.
func (a *App) RemoveTask(ctx context.Context, noteID, taskID string) (core.Note, Result) {
	return a.editTasks(ctx, noteID, func(tasks []core.TodoItem) []core.TodoItem {
		return core.RemoveTask(tasks, taskID)
	})
}

// --- Export & Backup ---

// ExportSelectedNotes writes the notes in format and offers the file for sharing.
func (a *App) ExportSelectedNotes(ctx context.Context, selected []core.Note, format export.Format) (string, Result) {
	path, err := a.exporter.Export(ctx, selected, format)
	if err != nil {
		return path, a.fail(ActionExport, err)
	}
	return path, succeeded(ActionExport)
}

// CreateBackup writes a backup of notes and passwords and offers it for sharing.
// Success is reported only when the share step completes.
func (a *App) CreateBackup(ctx context.Context) (string, Result) {
	path, err := a.backups.Create(ctx)
	if err != nil {
		return path, a.fail(ActionBackup, err)
	}
	return path, succeeded(ActionBackup)
}

// RestoreFromBackup lets the user pick a backup document and restores it.
func (a *App) RestoreFromBackup(ctx context.Context) Result {
	restored, err := a.backups.Restore(ctx)
	if err != nil {
		return a.fail(ActionRestore, err)
	}
	if !restored {
		return Result{Action: ActionRestore}
	}
	return succeeded(ActionRestore)
}

// RestoreBackupFile restores the backup at path without asking the picker.
func (a *App) RestoreBackupFile(ctx context.Context, path string) Result {
	if err := a.backups.RestoreFile(ctx, path); err != nil {
		return a.fail(ActionRestore, err)
	}
	return succeeded(ActionRestore)
}

// --- Watch ---

// Watch reports changes of the notes and passwords keys made by other
// processes. It fails when the adapter cannot observe changes.
func (a *App) Watch(ctx context.Context) (lifecycle.Source, error) {
	w, isWatchable := a.kv.(core.Watchable)
	if !isWatchable {
		return nil, errors.New("storage does not support watching")
	}
	events, err := w.Watch(ctx)
	if err != nil {
		return nil, err
	}
	return jlifecycle.NewSource(events, core.NotesKey, core.PasswordsKey), nil
}

// --- Introspection ---

// AppState is the introspection snapshot of an App.
type AppState struct {
	Version  string `json:"version"`
	Location string `json:"location,omitempty"`
	Notes    any    `json:"notes"`
	Storage  any    `json:"storage,omitempty"`
}

// State implements introspection.Introspectable.
func (a *App) State() any {
	s := AppState{
		Version:  strings.TrimSpace(Version),
		Location: a.location,
		Notes:    a.notes.State(),
	}
	if st, isStateful := a.kv.(introspection.Introspectable); isStateful {
		s.Storage = st.State()
	}
	return s
}

// ComponentType implements introspection.Component.
func (a *App) ComponentType() string {
	return "jotbox-app"
}

// create validates and saves n. An id already taken by another process
// (timestamp ids from two runs in the same millisecond) is replaced.
func (a *App) create(ctx context.Context, n *core.Note) Result {
	if err := core.ValidateDraft(*n); err != nil {
		return a.fail(ActionSave, err)
	}
	for range maxIDRetries {
		err := a.notes.Save(ctx, *n)
		if !errors.Is(err, core.ErrDuplicateID) {
			if err != nil {
				return a.fail(ActionSave, err)
			}
			return succeeded(ActionSave)
		}
		n.ID = a.ids.NewID()
	}
	return a.fail(ActionSave, fmt.Errorf("%w: %s", core.ErrDuplicateID, n.ID))
}

func (a *App) editTasks(ctx context.Context, noteID string, fn func([]core.TodoItem) []core.TodoItem) (core.Note, Result) {
	n, err := a.notes.Get(ctx, noteID)
	if err != nil {
		return core.Note{}, a.fail(ActionUpdate, err)
	}
	if !n.IsTodo() {
		return core.Note{}, a.fail(ActionUpdate, fmt.Errorf("%w: %s is not a to-do list", core.ErrInvalidNote, noteID))
	}

	tasks := fn(n.Tasks)
	if core.TasksEqual(n.Tasks, tasks) {
		return n, succeeded(ActionUpdate)
	}
	n.Tasks = tasks
	if res := a.UpdateNote(ctx, n); !res.Success {
		return core.Note{}, res
	}
	updated, err := a.notes.Get(ctx, noteID)
	if err != nil {
		return core.Note{}, a.fail(ActionUpdate, err)
	}
	return updated, succeeded(ActionUpdate)
}

func (a *App) fail(action Action, err error) Result {
	a.logger.Error("operation failed", "action", action, "error", err)
	return failed(action, err)
}

var _ introspection.Introspectable = (*App)(nil)
var _ introspection.Component = (*App)(nil)
