// Package cache stores loaded geometry and rendered artifacts.
//
// All backends implement [Cache], a byte-oriented key/value store with
// per-entry expiry:
//
//   - [FileCache] for the CLI, under the user cache directory
//   - [RedisCache] and [MongoCache] for shared deployments
//   - [NullCache] when caching is disabled
//
// Keys are built by a [Keyer] so that every entry point hashes the same
// inputs the same way. Cache failures are never fatal; callers treat an
// error like a miss.
package cache

import (
	"context"
	"strconv"
	"time"
)

// TTLs for cached entries.
const (
	// TTLGeometry bounds how long a parsed input file is reused. The key
	// includes the file's size and modification time, so edits are picked
	// up immediately regardless of the TTL.
	TTLGeometry = 24 * time.Hour

	// TTLArtifact bounds how long a rendered PNG, PDF or JSON artifact is
	// reused.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store.
type Cache interface {
	// Get returns the value and true on a hit, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any connections held by the cache.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// GeometryKey identifies a parsed input by path and a stamp that changes
	// whenever the file does.
	GeometryKey(path, stamp string) string

	// ArtifactKey identifies a rendered artifact by the hash of the SVG
	// document it was produced from.
	ArtifactKey(svgHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the render options that change artifact bytes.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) GeometryKey(path, stamp string) string {
	return hashKey("geom", path, stamp)
}

func (DefaultKeyer) ArtifactKey(svgHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", svgHash, opts.Format, strconv.FormatFloat(opts.Scale, 'g', -1, 64))
}

var _ Keyer = DefaultKeyer{}
