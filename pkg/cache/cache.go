// Package cache provides pluggable caching for HTTP responses.
//
// Three backends are available:
//   - FileCache: entries stored as JSON files under a directory (default)
//   - RedisCache: shared cache for deployments that already run Redis
//   - NullCache: caching disabled
//
// All backends implement the [Cache] interface. Entries carry a TTL; a
// zero TTL means no expiration.
package cache

import (
	"context"
	"strings"
	"time"
)

// TTL values for the data classes this tool caches.
const (
	// TTLPositions bounds how long a fetched position response is reused.
	// Planetary positions drift continuously, so this only dedupes repeated
	// runs within a short window (e.g. re-rendering while iterating on the
	// chart design).
	TTLPositions = 10 * time.Minute
)

// keyType extracts the key class ("positions") from a namespaced key for
// observability hooks. Keys without a namespace report as themselves.
func keyType(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// found and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
