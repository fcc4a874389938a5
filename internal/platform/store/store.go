// Package store provides the key-value persistence layer backing every
// domain journal. Each entity type owns a disjoint key prefix, so the only
// cross-key coordination the system needs is the atomic multi-key write
// used for paired index records.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no record exists under the key.
var ErrNotFound = errors.New("store: key not found")

// Store is the record-store contract. Values are opaque JSON blobs owned by
// the domain repositories. ListByPrefix returns values in ascending key
// order. SetMulti and DeleteMulti must be atomic: either every key is
// written/removed or none is.
type Store interface {
	Set(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	ListByPrefix(ctx context.Context, prefix string) ([][]byte, error)
	SetMulti(ctx context.Context, pairs map[string][]byte) error
	DeleteMulti(ctx context.Context, keys ...string) error
}
