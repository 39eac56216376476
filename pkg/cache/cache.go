// Package cache provides byte caches for fetched descriptions and computed
// layouts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for multi-instance API deployments
//   - [NullCache]: stores nothing, used when caching is disabled
//
// # Keys
//
// A [Keyer] derives stable keys from inputs. Option structs are hashed, so
// any option that changes the output changes the key:
//
//	k := cache.NewDefaultKeyer()
//	textKey := k.HTTPKey("dot:", url)
//	layoutKey := k.LayoutKey(cache.Hash(text), cache.LayoutKeyOpts{Style: "chord"})
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	// TTLText applies to fetched description text.
	TTLText = 24 * time.Hour

	// TTLLayout applies to computed layouts and rendered artifacts. They
	// are pure functions of their key, so they can live long.
	TTLLayout = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// HTTPKey keys a fetched response.
	HTTPKey(namespace, key string) string

	// LayoutKey keys a layout computed from text with the given hash.
	LayoutKey(textHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the options that affect a computed layout.
type LayoutKeyOpts struct {
	Style             string  `json:"style"`
	AutoLayout        bool    `json:"auto_layout,omitempty"`
	LeafSize          float64 `json:"leaf_size,omitempty"`
	Tension           float64 `json:"tension,omitempty"`
	ReferenceCategory string  `json:"reference_category,omitempty"`
}

// ArtifactKeyOpts holds the options that affect a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Title       string  `json:"title,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
	Interactive bool    `json:"interactive,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:" + namespace + ":" + key.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// LayoutKey returns "layout:" followed by a hash of the inputs.
func (DefaultKeyer) LayoutKey(textHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", textHash, opts)
}

// ArtifactKey returns "artifact:" followed by a hash of the inputs.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
