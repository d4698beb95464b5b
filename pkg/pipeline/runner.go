package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geosvg/pkg/cache"
	"github.com/matzehuels/geosvg/pkg/observability"
	"github.com/matzehuels/geosvg/pkg/svg"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → compose → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	sets, hits, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Layers = len(sets)
	for _, ls := range sets {
		result.Stats.Features += ls.Set.Len()
	}
	result.CacheInfo.LoadHits = hits

	r.Logger.Info("loaded geometry",
		"layers", len(sets),
		"features", result.Stats.Features,
		"cached", hits,
		"duration", result.Stats.LoadTime)

	// Stage 2: Compose
	composeStart := time.Now()
	doc, shapes, err := Compose(ctx, sets, opts)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	result.Document = doc
	result.Stats.Shapes = shapes
	result.Stats.ComposeTime = time.Since(composeStart)

	r.Logger.Info("composed document",
		"shapes", shapes,
		"viewBox", doc.ViewBox().String(),
		"duration", result.Stats.ComposeTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hash, renderHit, err := r.RenderWithCacheInfo(ctx, doc, sets, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.SVGHash = hash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderWithCacheInfo serializes doc and produces every requested format.
// SVG is always serialized fresh; other formats are cached by the hash of
// the SVG bytes. It returns the artifacts, that hash, and whether every
// converted format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc svg.Document, sets []LayerSet, opts Options) (map[string][]byte, string, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, "", false, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	svgData := []byte(doc.Render())
	svgHash := cache.Hash(svgData)
	meta := NewMetadata(doc, sets, svgHash)

	artifacts := make(map[string][]byte, len(opts.Formats))
	converted := 0
	var missing []string
	for _, format := range opts.Formats {
		if format == FormatSVG {
			artifacts[format] = svgData
			continue
		}
		converted++
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(svgHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}

	if len(missing) > 0 {
		sub := opts
		sub.Formats = missing
		rendered, err := Render(ctx, svgData, meta, sub)
		if err != nil {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, "", false, err
		}
		for format, data := range rendered {
			artifacts[format] = data
			key := r.Keyer.ArtifactKey(svgHash, opts.ArtifactKeyOpts(format))
			if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
				observability.Cache().OnCacheSet(ctx, "artifact", len(data))
			}
		}
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, svgHash, converted > 0 && len(missing) == 0, nil
}

// Bounds loads and composes without rendering, for callers that only need
// the frame of the scene.
func (r *Runner) Bounds(ctx context.Context, opts Options) (Metadata, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Metadata{}, fmt.Errorf("invalid options: %w", err)
	}
	sets, err := r.Load(ctx, opts)
	if err != nil {
		return Metadata{}, fmt.Errorf("load: %w", err)
	}
	doc, _, err := Compose(ctx, sets, opts)
	if err != nil {
		return Metadata{}, fmt.Errorf("compose: %w", err)
	}
	return NewMetadata(doc, sets, cache.Hash([]byte(doc.Render()))), nil
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
