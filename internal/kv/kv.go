// Package kv defines the minimal key-value port used to persist visitor carts
// and the backends that implement it.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kv: key not found")

// Port is a single-slot-per-key byte store.
type Port interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
