// Package typed provides a type-safe view over a storage key that holds a
// JSON array of records.
package typed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/jotbox/pkg/core"
)

// Collection reads and writes a whole []T stored under a single key.
type Collection[T any] struct {
	kv  core.KVStore
	key string
}

// NewCollection binds a collection to key on kv.
func NewCollection[T any](kv core.KVStore, key string) *Collection[T] {
	return &Collection[T]{kv: kv, key: key}
}

// Key returns the storage key backing the collection.
func (c *Collection[T]) Key() string {
	return c.key
}

// Load fetches and decodes the collection. found is false when nothing was
// ever written (an empty value counts as nothing). On decode failure the
// returned slice is empty and the error wraps core.ErrDecode.
func (c *Collection[T]) Load(ctx context.Context) (items []T, found bool, err error) {
	raw, ok, err := c.kv.Get(ctx, c.key)
	if err != nil {
		return []T{}, false, fmt.Errorf("%w: key %s: %w", core.ErrStorageRead, c.key, err)
	}
	if !ok || raw == "" {
		return []T{}, false, nil
	}

	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []T{}, true, fmt.Errorf("%w: key %s: %w", core.ErrDecode, c.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, true, nil
}

// Store encodes items and overwrites the key.
func (c *Collection[T]) Store(ctx context.Context, items []T) error {
	data, err := Encode(items)
	if err != nil {
		return fmt.Errorf("%w: key %s: %w", core.ErrStorageWrite, c.key, err)
	}
	if err := c.kv.Set(ctx, c.key, data); err != nil {
		return fmt.Errorf("%w: key %s: %w", core.ErrStorageWrite, c.key, err)
	}
	return nil
}

// Encode renders items the way they are persisted. A nil slice is written as [].
func Encode[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
