// Package cache stores computed layouts and rendered artifacts.
//
// # Overview
//
// Rendering is deterministic: the same flat tree, tokens, font and steps
// always give the same layout, and the same layout and sink options always
// give the same bytes. The pipeline therefore keys both stages by content
// hash and skips work on a hit.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared redis instance, for `orca serve` with several
//     replicas
//   - [NullCache]: stores nothing, for --no-cache
//
// # Keys
//
// A [Keyer] derives keys from hashes and options. [ScopedKeyer] prefixes
// every key, so several deployments can share one redis database.
//
//	k := cache.NewDefaultKeyer()
//	key := k.LayoutKey(cache.Hash(treeJSON), cache.LayoutKeyOpts{Font: "gomono", Size: 12})
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
// A miss is reported as (nil, false, nil), never as an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
