// Package notes owns the canonical collection of notes.
//
// The whole collection lives in one JSON array under core.NotesKey. Every
// operation is a read-modify-write of that array: there is no partial update,
// so a write costs O(total notes).
package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/jotbox/pkg/core"
	"github.com/aretw0/jotbox/pkg/typed"
)

// Store reads and writes the notes collection. It holds no cached copy:
// every call re-reads the key.
type Store struct {
	notes  *typed.Collection[core.Note]
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	loads     int
	writes    int
	lastError string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces time.Now, used when stamping LastModified.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a note store on top of kv.
func NewStore(kv core.KVStore, opts ...Option) *Store {
	s := &Store{
		notes:  typed.NewCollection[core.Note](kv, core.NotesKey),
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns every stored note. A store that was never written yields an
// empty slice. Corrupt data also yields an empty slice, together with an
// error wrapping core.ErrDecode so the caller can tell the two apart.
func (s *Store) Load(ctx context.Context) ([]core.Note, error) {
	s.count(&s.loads)

	notes, found, err := s.notes.Load(ctx)
	switch {
	case errors.Is(err, core.ErrDecode):
		s.logger.Warn("notes collection is corrupt, treating as empty", "key", core.NotesKey, "error", err)
		s.fail(err)
		return notes, err
	case err != nil:
		s.logger.Error("failed to load notes", "key", core.NotesKey, "error", err)
		s.fail(err)
		return []core.Note{}, err
	case !found:
		s.logger.Debug("no notes stored yet", "key", core.NotesKey)
	}
	return notes, nil
}

// Get returns the note with the given id.
func (s *Store) Get(ctx context.Context, id string) (core.Note, error) {
	notes, err := s.Load(ctx)
	if err != nil {
		return core.Note{}, err
	}
	i := indexOf(notes, id)
	if i < 0 {
		return core.Note{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return notes[i], nil
}

// Search returns the notes whose title, content or task text contains query,
// ignoring case. A blank query matches everything.
func (s *Store) Search(ctx context.Context, query string) ([]core.Note, error) {
	notes, err := s.Load(ctx)
	if err != nil {
		return notes, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return notes, nil
	}
	return slices.DeleteFunc(notes, func(n core.Note) bool { return !matches(n, q) }), nil
}

// Save appends a new note. The caller stamps ID, Date and LastModified.
// The store does not apply title or task-count rules; see core.ValidateDraft.
func (s *Store) Save(ctx context.Context, note core.Note) error {
	if note.ID == "" {
		return fmt.Errorf("%w: missing id", core.ErrInvalidNote)
	}

	notes, err := s.loadForWrite(ctx)
	if err != nil {
		return err
	}
	if indexOf(notes, note.ID) >= 0 {
		return fmt.Errorf("%w: %s", core.ErrDuplicateID, note.ID)
	}

	notes = append(notes, note.Clone())
	if err := s.write(ctx, notes); err != nil {
		return err
	}
	s.logger.Debug("note saved", "id", note.ID, "type", note.Kind(), "total", len(notes))
	return nil
}

// Update replaces the note carrying the same id and stamps LastModified.
// An unknown id fails with core.ErrNotFound and writes nothing.
func (s *Store) Update(ctx context.Context, note core.Note) error {
	_, err := s.update(ctx, note.ID, func(core.Note) core.Note { return note.Clone() })
	return err
}

// ToggleTask flips one checklist entry of a stored todo and returns the
// updated note.
func (s *Store) ToggleTask(ctx context.Context, noteID, taskID string) (core.Note, error) {
	return s.update(ctx, noteID, func(n core.Note) core.Note {
		n.Tasks = core.ToggleTask(n.Tasks, taskID)
		return n
	})
}

// Delete removes the note with the given id. Deleting an unknown id succeeds
// without writing.
func (s *Store) Delete(ctx context.Context, id string) error {
	notes, err := s.loadForWrite(ctx)
	if err != nil {
		return err
	}
	i := indexOf(notes, id)
	if i < 0 {
		s.logger.Debug("delete of unknown note ignored", "id", id)
		return nil
	}

	notes = slices.Delete(notes, i, i+1)
	if err := s.write(ctx, notes); err != nil {
		return err
	}
	s.logger.Debug("note deleted", "id", id, "total", len(notes))
	return nil
}

// ReplaceAll overwrites the collection with notes.
func (s *Store) ReplaceAll(ctx context.Context, notes []core.Note) error {
	seen := make(map[string]bool, len(notes))
	for _, n := range notes {
		if n.ID == "" {
			return fmt.Errorf("%w: missing id", core.ErrInvalidNote)
		}
		if seen[n.ID] {
			return fmt.Errorf("%w: %s", core.ErrDuplicateID, n.ID)
		}
		seen[n.ID] = true
	}
	return s.write(ctx, notes)
}

func (s *Store) update(ctx context.Context, id string, fn func(core.Note) core.Note) (core.Note, error) {
	notes, err := s.loadForWrite(ctx)
	if err != nil {
		return core.Note{}, err
	}
	i := indexOf(notes, id)
	if i < 0 {
		return core.Note{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}

	prev := notes[i]
	next := fn(prev.Clone())
	next.ID = prev.ID
	next.LastModified = s.stamp(prev.LastModified)
	notes[i] = next

	if err := s.write(ctx, notes); err != nil {
		return core.Note{}, err
	}
	s.logger.Debug("note updated", "id", id)
	return next, nil
}

// loadForWrite fails on corrupt data, so a corrupt collection is never overwritten.
func (s *Store) loadForWrite(ctx context.Context) ([]core.Note, error) {
	notes, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// write persists notes with every type tag made explicit, so a todo whose
// empty task list is omitted on disk still loads as a todo.
func (s *Store) write(ctx context.Context, notes []core.Note) error {
	s.count(&s.writes)
	tagged := make([]core.Note, len(notes))
	for i, n := range notes {
		n.Type = n.Kind()
		tagged[i] = n
	}
	if err := s.notes.Store(ctx, tagged); err != nil {
		s.logger.Error("failed to write notes", "key", core.NotesKey, "error", err)
		s.fail(err)
		return err
	}
	return nil
}

// stamp returns now, nudged past prev when the clock has not moved forward.
func (s *Store) stamp(prev time.Time) time.Time {
	now := core.Stamp(s.now())
	if !now.After(prev) {
		now = core.Stamp(prev).Add(time.Millisecond)
	}
	return now
}

func (s *Store) count(c *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*c++
}

func (s *Store) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err.Error()
}

func indexOf(notes []core.Note, id string) int {
	return slices.IndexFunc(notes, func(n core.Note) bool { return n.ID == id })
}

func matches(n core.Note, q string) bool {
	if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
		return true
	}
	return slices.ContainsFunc(n.Tasks, func(t core.TodoItem) bool {
		return strings.Contains(strings.ToLower(t.Text), q)
	})
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Key       string `json:"key"`
	Loads     int    `json:"loads"`
	Writes    int    `json:"writes"`
	LastError string `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StoreState{Key: s.notes.Key(), Loads: s.loads, Writes: s.writes, LastError: s.lastError}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "note-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
