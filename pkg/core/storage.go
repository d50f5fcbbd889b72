package core

import "context"

// Storage keys. Each key holds one JSON array, fully overwritten on every write.
const (
	NotesKey     = "@notes_v1"
	PasswordsKey = "saved_passwords"
)

// KVStore is the device storage the core is layered on.
// Adhering to this interface keeps the note store and the backup engine
// independent of the underlying medium (directory, SQLite, memory).
type KVStore interface {
	// Get returns the value stored under key. found is false when the key
	// has never been written.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error
}

// BatchSetter is implemented by stores able to commit several keys atomically.
type BatchSetter interface {
	SetMany(ctx context.Context, values map[string]string) error
}

// Initializer is implemented by stores that need setup before first use
// (create directories, run migrations).
type Initializer interface {
	Initialize(ctx context.Context) error
}

// Watchable is implemented by stores that can report changes made by other processes.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// SharePlatform stands for the device share sheet.
type SharePlatform interface {
	// Available reports whether sharing can be offered at all.
	Available(ctx context.Context) bool

	// Share hands the file at path to the user.
	Share(ctx context.Context, req ShareRequest) error
}

// ShareRequest describes a file offered through the share sheet.
type ShareRequest struct {
	Path     string
	MIMEType string
	Title    string
}

// FilePicker stands for the device document picker.
type FilePicker interface {
	// Pick returns the path of the chosen document. A dismissed picker
	// returns ErrPickCancelled.
	Pick(ctx context.Context, mimeType string) (string, error)
}
