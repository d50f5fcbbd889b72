// Package backup snapshots the notes and password collections into a single
// JSON document and restores them from one.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/jotbox/pkg/adapters/fs"
	"github.com/aretw0/jotbox/pkg/core"
	"github.com/aretw0/jotbox/pkg/typed"
)

const (
	// FileName is the name of the backup file written into the engine directory.
	FileName = "notes_app_backup.json"

	// Version is stamped into every backup document.
	Version = "1.0"

	mimeType   = "application/json"
	shareTitle = "Save your backup file"
)

// Document is the on-disk backup format. Notes and passwords are carried as
// opaque JSON records; their inner shape is never validated.
type Document struct {
	Notes     []json.RawMessage `json:"notes"`
	Passwords []json.RawMessage `json:"passwords"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version"`
}

// Engine creates and restores backups over a KVStore.
type Engine struct {
	kv        core.KVStore
	notes     *typed.Collection[json.RawMessage]
	passwords *typed.Collection[json.RawMessage]
	dir       string
	sharer    core.SharePlatform
	picker    core.FilePicker
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the clock used for backup timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a backup engine. dir receives the backup file.
func NewEngine(kv core.KVStore, dir string, sharer core.SharePlatform, picker core.FilePicker, opts ...Option) *Engine {
	e := &Engine{
		kv:        kv,
		notes:     typed.NewCollection[json.RawMessage](kv, core.NotesKey),
		passwords: typed.NewCollection[json.RawMessage](kv, core.PasswordsKey),
		dir:       dir,
		sharer:    sharer,
		picker:    picker,
		logger:    slog.New(slog.DiscardHandler),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Path returns where Create writes the backup file.
func (e *Engine) Path() string {
	return filepath.Join(e.dir, FileName)
}

// Create writes a backup of both collections and offers it through the share
// sheet. It returns the path of the file, which is kept even when sharing is
// unavailable (core.ErrSharingUnavailable) or fails. Stored data is never touched.
func (e *Engine) Create(ctx context.Context) (string, error) {
	var notes, passwords []json.RawMessage

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		notes, _, err = e.notes.Load(gctx)
		return err
	})
	g.Go(func() (err error) {
		passwords, _, err = e.passwords.Load(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		e.logger.Error("backup creation failed", "error", err)
		return "", err
	}

	doc := Document{
		Notes:     notes,
		Passwords: passwords,
		Timestamp: e.now().UTC().Format(core.TimestampLayout),
		Version:   Version,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}

	if err := os.MkdirAll(e.dir, 0700); err != nil {
		return "", fmt.Errorf("%w: failed to create backup directory: %w", core.ErrStorageWrite, err)
	}
	path := e.Path()
	if err := fs.WriteFileAtomic(path, data, 0600); err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrStorageWrite, err)
	}
	e.logger.Debug("backup written", "path", path, "notes", len(notes), "passwords", len(passwords))

	if e.sharer == nil || !e.sharer.Available(ctx) {
		e.logger.Warn("backup kept but not shared", "path", path)
		return path, core.ErrSharingUnavailable
	}
	if err := e.sharer.Share(ctx, core.ShareRequest{Path: path, MIMEType: mimeType, Title: shareTitle}); err != nil {
		e.logger.Error("backup share failed", "path", path, "error", err)
		return path, fmt.Errorf("share backup: %w", err)
	}

	e.logger.Info("backup created", "path", path)
	return path, nil
}

// Restore asks the picker for a backup document and replaces both collections
// with its contents. A dismissed picker reports (false, nil).
func (e *Engine) Restore(ctx context.Context) (bool, error) {
	if e.picker == nil {
		return false, errors.New("no document picker available")
	}
	path, err := e.picker.Pick(ctx, mimeType)
	if errors.Is(err, core.ErrPickCancelled) {
		e.logger.Debug("restore cancelled")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("pick backup file: %w", err)
	}

	if err := e.RestoreFile(ctx, path); err != nil {
		return false, err
	}
	return true, nil
}

// RestoreFile restores the backup stored at path. Nothing is written unless
// the document passes validation.
func (e *Engine) RestoreFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read backup %s: %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		e.logger.Error("restore failed", "path", path, "error", err)
		return err
	}

	if err := e.write(ctx, doc); err != nil {
		e.logger.Error("restore failed", "path", path, "error", err)
		return err
	}

	e.logger.Info("backup restored", "path", path, "version", doc.Version, "timestamp", doc.Timestamp,
		"notes", len(doc.Notes), "passwords", len(doc.Passwords))
	return nil
}

// Parse decodes and validates a backup document. version and timestamp must be
// non-empty strings and notes and passwords must both be arrays; anything else
// is core.ErrInvalidBackupFormat.
func Parse(data []byte) (Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Document{}, fmt.Errorf("%w: %w", core.ErrInvalidBackupFormat, err)
	}

	var doc Document
	var err error
	if doc.Version, err = requireString(fields, "version"); err != nil {
		return Document{}, err
	}
	if doc.Timestamp, err = requireString(fields, "timestamp"); err != nil {
		return Document{}, err
	}
	if doc.Notes, err = requireArray(fields, "notes"); err != nil {
		return Document{}, err
	}
	if doc.Passwords, err = requireArray(fields, "passwords"); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func requireString(fields map[string]json.RawMessage, name string) (string, error) {
	var s string
	if raw, ok := fields[name]; ok {
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("%w: %s must be a string", core.ErrInvalidBackupFormat, name)
		}
	}
	if s == "" {
		return "", fmt.Errorf("%w: missing %s", core.ErrInvalidBackupFormat, name)
	}
	return s, nil
}

func requireArray(fields map[string]json.RawMessage, name string) ([]json.RawMessage, error) {
	raw, ok := fields[name]
	if !ok || !isArray(raw) {
		return nil, fmt.Errorf("%w: %s must be an array", core.ErrInvalidBackupFormat, name)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrInvalidBackupFormat, name, err)
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, nil
}

// write replaces both collections with the document contents. Stores
// implementing core.BatchSetter commit them together; otherwise the writes run
// concurrently and a failure may leave the other key already replaced.
func (e *Engine) write(ctx context.Context, doc Document) error {
	if batch, ok := e.kv.(core.BatchSetter); ok {
		values := make(map[string]string, 2)
		for key, items := range map[string][]json.RawMessage{core.NotesKey: doc.Notes, core.PasswordsKey: doc.Passwords} {
			data, err := typed.Encode(items)
			if err != nil {
				return fmt.Errorf("%w: key %s: %w", core.ErrStorageWrite, key, err)
			}
			values[key] = data
		}
		if err := batch.SetMany(ctx, values); err != nil {
			return fmt.Errorf("%w: %w", core.ErrStorageWrite, err)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return e.notes.Store(gctx, doc.Notes) })
	g.Go(func() error { return e.passwords.Store(gctx, doc.Passwords) })
	return g.Wait()
}

func isArray(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
