// Package cache stores rendered artifacts so repeated renders of an unchanged
// network skip Graphviz and plotting.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under the user cache directory
//   - [RedisCache]: a shared Redis instance, used by the preview server
//   - [NullCache]: caching disabled
//
// Keys are built by a [Keyer] from a hash of the DOT source and the render
// options, so any change to the network, the time step or the styling
// produces a new key.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the lifetime of cached artifacts.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with expiry.
type Cache interface {
	// Get returns the value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value; a zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}
