// Package sqlite implements core.KVStore on a single SQLite table. Unlike the
// filesystem store it can commit several keys in one transaction, which makes
// restores atomic.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aretw0/introspection"
	_ "github.com/mattn/go-sqlite3"

	"github.com/aretw0/jotbox/pkg/core"
)

const sqliteTimeLayout = time.RFC3339Nano

// Store is a KVStore backed by the kv table.
type Store struct {
	db       *sql.DB
	path     string
	readOnly bool
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithReadOnly rejects every write with core.ErrReadOnly.
func WithReadOnly(readOnly bool) Option {
	return func(s *Store) { s.readOnly = readOnly }
}

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore wraps an open database. Call Initialize before use.
func NewStore(db *sql.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, errors.New("sqlite: nil db")
	}
	s := &Store{db: db, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Open opens (creating if needed) the database file at path.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serialises writers and keeps :memory: databases coherent.
	db.SetMaxOpenConns(1)

	s, err := NewStore(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.path = path
	return s, nil
}

// Initialize applies the schema migrations.
func (s *Store) Initialize(ctx context.Context) error {
	if err := MigrateUp(s.db); err != nil {
		return fmt.Errorf("migrate sqlite store: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

// SetMany writes every key inside one transaction.
func (s *Store) SetMany(ctx context.Context, values map[string]string) error {
	if s.readOnly {
		return core.ErrReadOnly
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(sqliteTimeLayout)
	for _, key := range sortedKeys(values) {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, values[key], now,
		); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Debug("committed keys", "count", len(values))
	return nil
}

// UpdatedAt reports when key was last written.
func (s *Store) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("key %s: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("get updated_at %s: %w", key, err)
	}
	return time.Parse(sqliteTimeLayout, raw)
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Path     string `json:"path"`
	ReadOnly bool   `json:"read_only"`
	OpenConn int    `json:"open_connections"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	return StoreState{
		Path:     s.path,
		ReadOnly: s.readOnly,
		OpenConn: s.db.Stats().OpenConnections,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "sqlite-store"
}

var (
	_ core.KVStore                 = (*Store)(nil)
	_ core.BatchSetter             = (*Store)(nil)
	_ core.Initializer             = (*Store)(nil)
	_ introspection.Introspectable = (*Store)(nil)
	_ introspection.Component      = (*Store)(nil)
)
