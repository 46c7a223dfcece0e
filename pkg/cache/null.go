package cache

import (
	"context"
	"time"
)

// NullCache reports every lookup as a miss and drops every write. It backs
// the "off" cache backend in config and stands in when no cache is supplied,
// so callers never branch on a nil Cache.
type NullCache struct{}

// NewNullCache creates a cache that stores nothing.
func NewNullCache() Cache {
	return NullCache{}
}

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
