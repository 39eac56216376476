// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through package-level hook registries; the binary
// decides at startup what receives them. Without registration every hook
// is a no-op, so the core packages carry no dependency on a metrics
// backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := observability.NewPrometheus("stemma")
//	    observability.SetSessionHooks(m)
//	    observability.SetCacheHooks(m)
//	    observability.SetFetchHooks(m)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Session().OnLoadStart(ctx, "chord")
//	// ... fetch, adapt, cluster, emit ...
//	observability.Session().OnLoadComplete(ctx, "chord", stats, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Session Hooks
// =============================================================================

// LoadStats summarizes a finished load.
type LoadStats struct {
	Nodes   int
	Edges   int
	Skipped int
}

// SessionHooks receives events from layout sessions.
type SessionHooks interface {
	OnLoadStart(ctx context.Context, style string)
	OnStateChange(ctx context.Context, from, to string)
	OnLoadComplete(ctx context.Context, style string, stats LoadStats, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Fetch Hooks
// =============================================================================

// FetchHooks receives events from upstream requests.
type FetchHooks interface {
	// OnResponse records a completed request with its status code.
	OnResponse(ctx context.Context, host string, statusCode int, duration time.Duration)

	// OnError records a request that got no response.
	OnError(ctx context.Context, host string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnLoadStart(context.Context, string)           {}
func (NoopSessionHooks) OnStateChange(context.Context, string, string) {}
func (NoopSessionHooks) OnLoadComplete(context.Context, string, LoadStats, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopFetchHooks is a no-op implementation of FetchHooks.
type NoopFetchHooks struct{}

func (NoopFetchHooks) OnResponse(context.Context, string, int, time.Duration) {}
func (NoopFetchHooks) OnError(context.Context, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	sessionHooks SessionHooks = NoopSessionHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	fetchHooks   FetchHooks   = NoopFetchHooks{}
	hooksMu      sync.RWMutex
)

// SetSessionHooks registers custom session hooks.
// This should be called once at application startup before any load.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetFetchHooks registers custom fetch hooks.
func SetFetchHooks(h FetchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		fetchHooks = h
	}
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Fetch returns the registered fetch hooks.
func Fetch() FetchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return fetchHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	sessionHooks = NoopSessionHooks{}
	cacheHooks = NoopCacheHooks{}
	fetchHooks = NoopFetchHooks{}
}
