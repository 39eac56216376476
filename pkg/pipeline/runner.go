package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stemma/pkg/cache"
	"github.com/matzehuels/stemma/pkg/fetch"
	"github.com/matzehuels/stemma/pkg/graph"
	"github.com/matzehuels/stemma/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to share caching logic.
//
// The Runner is stateless except for the cache, fetcher and logger.
// Multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Fetcher fetch.Fetcher
	Logger  *log.Logger
}

// NewRunner creates a runner. A nil keyer means [cache.DefaultKeyer]
// scoped by the layout format version, and
// a nil cache disables caching. f may be nil when every request carries
// inline text and no passage.
func NewRunner(c cache.Cache, keyer cache.Keyer, f fetch.Fetcher, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewVersionedKeyer(nil, graph.Version)
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Fetcher: f,
		Logger:  logger,
	}
}

// Execute runs the complete read → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Read
	readStart := time.Now()
	text, err := ReadText(ctx, r.Fetcher, opts)
	if err != nil {
		return nil, err
	}
	result.TextHash = contentHash(text, opts)
	result.Stats.ReadTime = time.Since(readStart)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, text, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = l.Stats.Nodes
	result.Stats.EdgeCount = l.Stats.Edges
	result.Stats.Skipped = l.Stats.Skipped
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"style", l.Style,
		"nodes", l.Stats.Nodes,
		"edges", l.Stats.Edges,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, layoutHash, renderHit, err := r.renderWithCacheInfo(ctx, l, text, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.LayoutHash = layoutHash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes the layout of text with caching and
// returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, text []byte, opts Options) (*graph.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.LayoutKey(contentHash(text, opts), opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if l, err := graph.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return l, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	l, err := ComputeLayout(ctx, text, r.Fetcher, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := graph.MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache write failed", "key", cacheKey, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, false, nil
}

// Layout is a convenience wrapper that discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, text []byte, opts Options) (*graph.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, text, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info. text is only needed for the DOT format.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l *graph.Layout, text []byte, opts Options) (map[string][]byte, bool, error) {
	artifacts, _, hit, err := r.renderWithCacheInfo(ctx, l, text, opts)
	return artifacts, hit, err
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, l *graph.Layout, text []byte, opts Options) (map[string][]byte, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, "", false, err
	}

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, "", false, err
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, layoutHash, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	rendered, err := Render(ctx, l, text, opts)
	if err != nil {
		return nil, "", false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, layoutHash, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
