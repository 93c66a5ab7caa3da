// Package metadata is the client's small key/value store. It backs the
// token store and the local reading state (bookmarks, read marks).
package metadata

import (
	"context"
	"time"
)

// Repository stores opaque values by key. An entry may carry an expiry;
// expired entries read as absent.
type Repository interface {
	// Get returns (nil, nil) when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithExpiry(ctx context.Context, key string, value []byte, expiresAt time.Time) error
	// ExpiresAt reports the expiry of a live key; ok is false when the key is
	// absent, expired, or has no expiry.
	ExpiresAt(ctx context.Context, key string) (t time.Time, ok bool, err error)
	Delete(ctx context.Context, keys ...string) error
	// List returns the live entries whose key starts with prefix.
	List(ctx context.Context, prefix string) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
