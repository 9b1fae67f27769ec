package kv

import (
	"errors"
	"io"
)

type SafeStoreKeyFilterFunc[K comparable] func(key K) bool

func defaultAllKeysFilter[K comparable](key K) bool {
	return true
}

type Closable interface {
	io.Closer
}

var (
	ErrThreadSafeMapPurged = errors.New("[thread-safe-map] storer has been purged")
	ErrThreadSafeMapNoKey  = errors.New("[thread-safe-map] key not found")
)

type ThreadSafeStorer[K comparable, V any] interface {
	// Purge drops all items, closing them first when the storer was
	// built with the closeable item check. The storer is unusable
	// afterwards.
	Purge() error
	AddOrUpdate(key K, obj V) error
	// Replace swaps the whole content for items.
	Replace(items map[K]V) error
	// Delete removes key and returns the value it held.
	Delete(key K) (V, error)
	Get(key K) (item V, exists bool)
	ListKeys(filters ...SafeStoreKeyFilterFunc[K]) []K
	ListValues(keys ...K) (items []V)
}
