// Package fs implements core.KVStore on a directory: one JSON file per key,
// replaced atomically on every write.
package fs

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/jotbox/pkg/core"
)

const (
	fileExt  = ".json"
	filePerm = 0600
	dirPerm  = 0700
)

// Config holds the configuration for the filesystem store.
type Config struct {
	Path      string
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger
}

// Store implements core.KVStore using the filesystem.
type Store struct {
	Path   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastWrite     *time.Time
	writes        int
}

// NewStore creates a new filesystem-backed store.
func NewStore(config Config) *Store {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		Path:   config.Path,
		config: config,
	}
}

// Initialize ensures the storage directory exists.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("storage path does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat storage path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("storage path is not a directory: %s", s.Path)
		}
		return nil
	}

	if err := os.MkdirAll(s.Path, dirPerm); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	return nil
}

// Get reads the file backing key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(s.filename(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set replaces the file backing key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.filename(key)
	s.config.Logger.Debug("writing key to disk", "key", key, "path", path, "bytes", len(value))

	if err := WriteFileAtomic(path, []byte(value), filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	s.recordWrite()
	return nil
}

// filename maps a key onto a file name that is safe on every platform.
func (s *Store) filename(key string) string {
	return filepath.Join(s.Path, url.PathEscape(key)+fileExt)
}

// keyFromPath is the inverse of filename. ok is false for files that do not
// back a key (temp files, foreign files).
func keyFromPath(path string) (key string, ok bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, TempFilePrefix) || !strings.HasSuffix(base, fileExt) {
		return "", false
	}
	key, err := url.PathUnescape(strings.TrimSuffix(base, fileExt))
	if err != nil {
		return "", false
	}
	return key, true
}

func (s *Store) recordWrite() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.lastWrite = &now
	s.writes++
}

var (
	_ core.KVStore     = (*Store)(nil)
	_ core.Initializer = (*Store)(nil)
	_ core.Watchable   = (*Store)(nil)
)
