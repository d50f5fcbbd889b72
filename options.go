package jotbox

import (
	"log/slog"

	"github.com/aretw0/jotbox/internal/platform"
	"github.com/aretw0/jotbox/pkg/core"
)

// Option defines a functional option for configuring an App.
type Option = platform.Option

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithAdapter selects the storage adapter by name ("fs", "sqlite", "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithPath sets the storage location (a directory for "fs", a file for "sqlite").
func WithPath(path string) Option {
	return platform.WithPath(path)
}

// WithStore injects a custom storage implementation.
func WithStore(store core.KVStore) Option {
	return platform.WithStore(store)
}

// WithIDGenerator injects the generator for note and task ids.
func WithIDGenerator(gen core.IDGenerator) Option {
	return platform.WithIDGenerator(gen)
}

// WithIDStrategy selects a built-in id generator ("timestamp", "uuid").
func WithIDStrategy(strategy string) Option {
	return platform.WithIDStrategy(strategy)
}

// WithBackupDir sets where backup files are written.
func WithBackupDir(dir string) Option {
	return platform.WithBackupDir(dir)
}

// WithExportDir sets where export files are written.
func WithExportDir(dir string) Option {
	return platform.WithExportDir(dir)
}

// WithShareDir makes the share sheet copy files into dir.
func WithShareDir(dir string) Option {
	return platform.WithShareDir(dir)
}

// WithSharer injects the share sheet implementation.
func WithSharer(s core.SharePlatform) Option {
	return platform.WithSharer(s)
}

// WithPicker injects the document picker used by restore.
func WithPicker(p core.FilePicker) Option {
	return platform.WithPicker(p)
}

// WithReadOnly rejects every write with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithMustExist requires the storage location to exist already.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithForceTemp forces the storage into a temporary directory.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the `go run` sandbox. See platform.WithDevSafety.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// IsDevRun reports whether the process runs via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards from startDir for a jotbox.yaml file or .jotbox directory.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
