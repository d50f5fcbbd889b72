package platform

import (
	"log/slog"

	"github.com/aretw0/jotbox/pkg/core"
)

// options holds the internal configuration for a jotbox app.
type options struct {
	logger     *slog.Logger
	adapter    string
	path       string
	store      core.KVStore
	ids        core.IDGenerator
	idStrategy string
	backupDir  string
	exportDir  string
	shareDir   string
	sharer     core.SharePlatform
	picker     core.FilePicker
	config     map[string]any
}

// Option defines a functional option for configuring jotbox.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:    "fs",
		path:       ".jotbox",
		idStrategy: "timestamp",
		backupDir:  ".",
		exportDir:  ".",
		config:     make(map[string]any),
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAdapter selects the storage adapter by name ("fs", "sqlite", "memory").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithPath sets the adapter-specific location: a directory for "fs", a
// database file for "sqlite". Ignored by "memory".
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithStore injects a custom storage implementation (e.g. a fake).
// If provided, the adapter selection is skipped.
func WithStore(store core.KVStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithIDGenerator injects the generator for note and task ids.
func WithIDGenerator(gen core.IDGenerator) Option {
	return func(o *options) {
		o.ids = gen
	}
}

// WithIDStrategy selects a built-in id generator ("timestamp", "uuid").
// Ignored when WithIDGenerator is used.
func WithIDStrategy(strategy string) Option {
	return func(o *options) {
		o.idStrategy = strategy
	}
}

// WithBackupDir sets where backup files are written.
func WithBackupDir(dir string) Option {
	return func(o *options) {
		o.backupDir = dir
	}
}

// WithExportDir sets where export files are written.
func WithExportDir(dir string) Option {
	return func(o *options) {
		o.exportDir = dir
	}
}

// WithShareDir makes sharing copy files into dir. Without it (and without
// WithSharer) sharing is unavailable.
func WithShareDir(dir string) Option {
	return func(o *options) {
		o.shareDir = dir
	}
}

// WithSharer injects the share sheet implementation.
func WithSharer(s core.SharePlatform) Option {
	return func(o *options) {
		o.sharer = s
	}
}

// WithPicker injects the document picker used by restore.
func WithPicker(p core.FilePicker) Option {
	return func(o *options) {
		o.picker = p
	}
}

// WithMustExist requires the storage location to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Every write returns core.ErrReadOnly.
// 2. Initialization (Mkdir) is skipped and the location must exist.
// 3. Dev Safety Lock (go run temp dir) is BYPASSED (uses real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithForceTemp forces the storage into a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithDevSafety controls the "Sandbox" safety mechanism when running via `go run`.
// By default (true), storage is redirected to a temporary directory to prevent
// accidental data loss. Setting this to false operates on the real path.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

func (o *options) flag(name string, def bool) bool {
	if v, ok := o.config[name].(bool); ok {
		return v
	}
	return def
}
