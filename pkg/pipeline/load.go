package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/geosvg/pkg/cache"
	"github.com/matzehuels/geosvg/pkg/config"
	"github.com/matzehuels/geosvg/pkg/errors"
	"github.com/matzehuels/geosvg/pkg/geom"
	"github.com/matzehuels/geosvg/pkg/httputil"
	"github.com/matzehuels/geosvg/pkg/observability"
)

// LayerSet is a layer together with the geometry loaded for it.
type LayerSet struct {
	Layer config.Layer
	Set   geom.Set
}

// LoadWithCacheInfo loads every layer's sources and returns the number of
// files served from the cache. Files are read concurrently; the result keeps
// layer and input order.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) ([]LayerSet, int, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, 0, err
	}
	r.applyLogger(&opts)

	type job struct {
		layer, input int
		path         string
	}
	var jobs []job
	loaded := make([][]geom.Set, len(opts.Layers))
	for i, l := range opts.Layers {
		loaded[i] = make([]geom.Set, len(l.Inputs))
		for j, path := range l.Inputs {
			jobs = append(jobs, job{layer: i, input: j, path: path})
		}
	}

	var hits atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for _, jb := range jobs {
		g.Go(func() error {
			set, hit, err := r.loadFile(gctx, jb.path, opts.Refresh)
			if err != nil {
				return err
			}
			if hit {
				hits.Add(1)
			}
			loaded[jb.layer][jb.input] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	sets := make([]LayerSet, len(opts.Layers))
	for i, l := range opts.Layers {
		set := geom.Set{Source: l.Name}
		for _, s := range loaded[i] {
			set = set.Merge(s)
		}
		if l.WKT != "" {
			s, err := loadInline(ctx, l.Name+":wkt", func() (geom.Set, error) { return geom.ParseWKT(l.WKT) })
			if err != nil {
				return nil, 0, fmt.Errorf("layer %q: %w", l.Name, err)
			}
			set = set.Merge(s)
		}
		if l.GeoJSON != "" {
			s, err := loadInline(ctx, l.Name+":geojson", func() (geom.Set, error) { return geom.ParseGeoJSON([]byte(l.GeoJSON)) })
			if err != nil {
				return nil, 0, fmt.Errorf("layer %q: %w", l.Name, err)
			}
			set = set.Merge(s)
		}
		sets[i] = LayerSet{Layer: l, Set: set}
	}
	return sets, int(hits.Load()), nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) ([]LayerSet, error) {
	sets, _, err := r.LoadWithCacheInfo(ctx, opts)
	return sets, err
}

// loadFile parses one input, going through the geometry cache. For files
// the key includes size and modification time, so an edited file is never
// served stale. URLs are keyed by the URL alone and live until the entry
// expires or --refresh.
func (r *Runner) loadFile(ctx context.Context, path string, refresh bool) (geom.Set, bool, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	stamp, err := inputStamp(path)
	if err != nil {
		hooks.OnLoadComplete(ctx, path, 0, time.Since(start), err)
		return geom.Set{}, false, err
	}
	cacheKey := r.Keyer.GeometryKey(path, stamp)

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if set, err := geom.ParseGeoJSON(data); err == nil {
				set.Source = path
				observability.Cache().OnCacheHit(ctx, "geometry")
				hooks.OnLoadComplete(ctx, path, set.Len(), time.Since(start), nil)
				return set, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "geometry")
	}

	set, err := readInput(ctx, path)
	hooks.OnLoadComplete(ctx, path, set.Len(), time.Since(start), err)
	if err != nil {
		return geom.Set{}, false, err
	}

	if data, err := set.FeatureCollection().MarshalJSON(); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLGeometry); err == nil {
			observability.Cache().OnCacheSet(ctx, "geometry", len(data))
		}
	}
	r.Logger.Debug("loaded input", "path", path, "features", set.Len())
	return set, false, nil
}

// inputStamp identifies the current version of an input for cache keys.
func inputStamp(path string) (string, error) {
	if httputil.IsURL(path) {
		return "url", nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return "", err
	}
	return fmt.Sprintf("%d-%d", info.Size(), info.ModTime().UnixNano()), nil
}

// readInput parses a file, or a URL whose path carries a known extension.
func readInput(ctx context.Context, path string) (geom.Set, error) {
	if !httputil.IsURL(path) {
		return geom.Load(ctx, path)
	}
	u, err := url.Parse(path)
	if err != nil {
		return geom.Set{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "bad url %s", path)
	}
	format, err := geom.FormatOf(u.Path)
	if err != nil {
		return geom.Set{}, err
	}
	data, err := httputil.Fetch(ctx, nil, path)
	if err != nil {
		return geom.Set{}, err
	}
	set, err := geom.Parse(format, data)
	if err != nil {
		return geom.Set{}, err
	}
	set.Source = path
	return set, nil
}

func loadInline(ctx context.Context, source string, parse func() (geom.Set, error)) (geom.Set, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()
	set, err := parse()
	hooks.OnLoadComplete(ctx, source, set.Len(), time.Since(start), err)
	set.Source = source
	return set, err
}
