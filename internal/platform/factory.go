package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/jotbox/pkg/adapters/fs"
	"github.com/aretw0/jotbox/pkg/adapters/memory"
	"github.com/aretw0/jotbox/pkg/adapters/share"
	"github.com/aretw0/jotbox/pkg/adapters/sqlite"
	"github.com/aretw0/jotbox/pkg/core"
)

// Components is the wiring produced by Build.
type Components struct {
	Logger    *slog.Logger
	Store     core.KVStore
	IDs       core.IDGenerator
	Sharer    core.SharePlatform
	Picker    core.FilePicker
	BackupDir string
	ExportDir string
	// Location is the resolved storage path ("" for memory or injected stores).
	Location string
}

// Build resolves the options into ready-to-use components. The store is
// initialized before it is returned.
func Build(ctx context.Context, opts ...Option) (*Components, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ids := o.ids
	if ids == nil {
		var err error
		if ids, err = NewIDs(o.idStrategy); err != nil {
			return nil, err
		}
	}

	c := &Components{
		Logger:    logger,
		IDs:       ids,
		Sharer:    o.sharer,
		Picker:    o.picker,
		BackupDir: o.backupDir,
		ExportDir: o.exportDir,
	}
	if c.Sharer == nil {
		if o.shareDir != "" {
			c.Sharer = share.NewDirSharer(o.shareDir, logger)
		} else {
			c.Sharer = share.Unavailable{}
		}
	}
	if c.Picker == nil {
		c.Picker = share.PathPicker{}
	}

	store, location, err := openStore(o, logger)
	if err != nil {
		return nil, err
	}
	if initializer, ok := store.(core.Initializer); ok {
		if err := initializer.Initialize(ctx); err != nil {
			if closer, ok := store.(io.Closer); ok {
				_ = closer.Close()
			}
			return nil, err
		}
	}
	c.Store = store
	c.Location = location
	return c, nil
}

// NewIDs returns the built-in generator for strategy.
func NewIDs(strategy string) (core.IDGenerator, error) {
	switch strategy {
	case "", "timestamp":
		return core.NewTimestampIDs(nil), nil
	case "uuid":
		return core.UUIDIDs{}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy: %s", strategy)
	}
}

func openStore(o *options, logger *slog.Logger) (core.KVStore, string, error) {
	if o.store != nil {
		return o.store, "", nil
	}

	readOnly := o.flag("read_only", false)
	mustExist := o.flag("must_exist", false)
	bypassSafety := readOnly || !o.flag("dev_safety", true)
	useTemp := o.flag("temp_dir", false) || (IsDevRun() && !bypassSafety)

	switch o.adapter {
	case "memory":
		store := memory.NewStore(nil)
		store.SetReadOnly(readOnly)
		return store, "", nil
	case "fs":
		path := ResolvePath(o.path, useTemp)
		logSafety(logger, o.path, path, useTemp, readOnly)
		return fs.NewStore(fs.Config{
			Path:      path,
			MustExist: mustExist,
			ReadOnly:  readOnly,
			Logger:    logger,
		}), path, nil
	case "sqlite":
		path := o.path
		if useTemp {
			path = filepath.Join(ResolvePath(filepath.Dir(o.path), true), filepath.Base(o.path))
		}
		logSafety(logger, o.path, path, useTemp, readOnly)
		if mustExist || readOnly {
			if err := requireExists(path); err != nil {
				return nil, "", err
			}
		} else if err := ensureDir(filepath.Dir(path)); err != nil {
			return nil, "", err
		}
		store, err := sqlite.Open(path, sqlite.WithReadOnly(readOnly), sqlite.WithLogger(logger))
		if err != nil {
			return nil, "", err
		}
		return store, path, nil
	default:
		return nil, "", fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

func logSafety(logger *slog.Logger, original, resolved string, useTemp, readOnly bool) {
	switch {
	case useTemp:
		logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", original, "resolved_path", resolved)
	case IsDevRun() && readOnly:
		logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
	case IsDevRun():
		logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
	}
}
