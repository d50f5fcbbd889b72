// Package memory provides an in-process KVStore, used as the storage fake
// in tests and by the "memory" adapter.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/aretw0/jotbox/pkg/core"
)

// ErrInjected is returned by operations configured to fail.
var ErrInjected = errors.New("memory: injected failure")

// Store is a map-backed KVStore safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	values   map[string]string
	failGet  map[string]error
	failSet  map[string]error
	setCalls map[string]int
	readOnly bool
}

// NewStore returns a store pre-populated with seed (which may be nil).
func NewStore(seed map[string]string) *Store {
	s := &Store{
		values:   make(map[string]string),
		failGet:  make(map[string]error),
		failSet:  make(map[string]error),
		setCalls: make(map[string]int),
	}
	maps.Copy(s.values, seed)
	return s
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err, ok := s.failGet[key]; ok {
		return "", false, err
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readOnly {
		return core.ErrReadOnly
	}
	s.setCalls[key]++
	if err, ok := s.failSet[key]; ok {
		return err
	}
	s.values[key] = value
	return nil
}

// SetMany applies all values or none of them.
func (s *Store) SetMany(ctx context.Context, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readOnly {
		return core.ErrReadOnly
	}
	for k := range values {
		s.setCalls[k]++
		if err, ok := s.failSet[k]; ok {
			return err
		}
	}
	maps.Copy(s.values, values)
	return nil
}

// SetReadOnly makes every write return core.ErrReadOnly.
func (s *Store) SetReadOnly(readOnly bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readOnly = readOnly
}

// FailGet makes every Get of key return err. A nil err clears the failure.
func (s *Store) FailGet(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failGet, key)
		return
	}
	s.failGet[key] = err
}

// FailSet makes every write of key return err. A nil err clears the failure.
func (s *Store) FailSet(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failSet, key)
		return
	}
	s.failSet[key] = err
}

// Snapshot returns a copy of every stored value.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// SetCalls reports how many writes of key were attempted.
func (s *Store) SetCalls(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.setCalls[key]
}

var (
	_ core.KVStore     = (*Store)(nil)
	_ core.BatchSetter = (*Store)(nil)
)
