// Package kv provides the durable key-value slot the collections live in:
// one key holds one JSON document, rewritten whole on every mutation.
// Each key carries a version counter so a writer that loaded a stale copy
// is rejected instead of silently clobbering a concurrent write.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// ErrVersionMismatch is returned by Put when the stored version no longer
// matches the one the caller loaded.
var ErrVersionMismatch = errors.New("kv: version mismatch")

// Store is a versioned slot. Get returns version 0 and nil data for a key
// that has never been written; Put with version 0 requires the key to
// still be absent.
type Store interface {
	Get(ctx context.Context, key string) (data []byte, version int64, err error)
	Put(ctx context.Context, key string, data []byte, version int64) error
}

// ReadError wraps an underlying read or decode failure.
type ReadError struct {
	Key string
	Err error
}

func (e *ReadError) Error() string { return fmt.Sprintf("kv: read %s: %v", e.Key, e.Err) }
func (e *ReadError) Unwrap() error { return e.Err }

// WriteError wraps an underlying write failure.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("kv: write %s: %v", e.Key, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }
