// Package kv provides the process-wide key-value store used for persisted
// protocol configuration, with file and redis backends.
package kv

import (
	"context"
	"errors"
	"strings"
)

// ErrKeyNotFound indicates the key has no stored value.
var ErrKeyNotFound = errors.New("key not found")

// Store is a minimal key-value abstraction. Values are opaque bytes;
// serialization belongs to the caller.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close(ctx context.Context) error
}

// NewStore builds a store from a URL. redis:// and rediss:// URLs select
// the redis backend; anything else is treated as a filesystem directory,
// with an optional file:// prefix.
func NewStore(storeURL string) (Store, error) {
	if strings.HasPrefix(storeURL, "redis://") || strings.HasPrefix(storeURL, "rediss://") {
		return NewRedisStore(storeURL)
	}

	return NewFileStore(strings.TrimPrefix(storeURL, "file://"))
}
