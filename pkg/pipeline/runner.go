package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waterfall/pkg/bridge"
	"github.com/matzehuels/waterfall/pkg/cache"
	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/chart/sink"
	"github.com/matzehuels/waterfall/pkg/errors"
	wio "github.com/matzehuels/waterfall/pkg/io"
	"github.com/matzehuels/waterfall/pkg/observability"
)

// Runner executes pipelines against a cache.
//
// The Runner holds no per-run state, so one Runner can serve concurrent
// Execute calls as long as its Cache is safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is how long rendered artifacts stay cached; zero means TTLArtifact.
	TTL time.Duration
}

// NewRunner creates a runner. A nil keyer means cache.NewDefaultKeyer, a nil
// cache disables caching and a nil logger means log.Default.
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs import, layout and render with artifact caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	mode, err := opts.Mode()
	if err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	result := &Result{}

	// Stage 1: Import
	importStart := time.Now()
	hooks.OnImportStart(ctx, opts.source(), string(mode))
	data, err := r.Import(opts, mode)
	result.Stats.ImportTime = time.Since(importStart)
	hooks.OnImportComplete(ctx, opts.source(), data.Len(mode), result.Stats.ImportTime, err)
	if err != nil {
		return nil, err
	}
	result.Data = data
	result.Stats.Records = data.Len(mode)
	if result.DataHash, err = HashDataset(data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash dataset")
	}
	opts.Logger.Info("imported", "source", opts.source(), "records", result.Stats.Records, "duration", result.Stats.ImportTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	hooks.OnLayoutStart(ctx, string(mode), result.Stats.Records)
	err = r.layout(data, opts, result)
	result.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnLayoutComplete(ctx, string(mode), len(result.Bars), result.Stats.LayoutTime, err)
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("computed layout", "bars", result.Stats.Bars, "duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	artifacts, info, err := r.RenderWithCacheInfo(ctx, result, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo = info
	opts.Logger.Info("rendered outputs", "formats", opts.Formats, "cached", info.Hits, "duration", result.Stats.RenderTime)

	return result, nil
}

// HashDataset hashes both input shapes including the extra item fields,
// which the JSON form of an item leaves out.
func HashDataset(d bridge.Dataset) (string, error) {
	fields := make([]map[string]any, len(d.Items))
	for i, it := range d.Items {
		fields[i] = it.Fields
	}
	return cache.HashJSON([]any{d, fields})
}

// Import returns opts.Data or reads opts.Input.
func (r *Runner) Import(opts Options, mode bridge.Mode) (bridge.Dataset, error) {
	if opts.Data != nil {
		return *opts.Data, nil
	}
	if opts.Sheet != "" {
		return wio.ImportXLSX(opts.Input, opts.Sheet)
	}
	return wio.Import(opts.Input, mode)
}

// Prepare returns the prepared bars of data, cached under the dataset key of
// cfg. The boolean reports a cache hit. Cache failures are logged and
// treated as misses.
func (r *Runner) Prepare(ctx context.Context, data bridge.Dataset, cfg bridge.Config) ([]bridge.Bar, bool, error) {
	hash, err := HashDataset(data)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash dataset")
	}
	key := r.Keyer.DatasetKey(hash, string(cfg.Mode), cfg)

	cached, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "kind", "bars", "err", err)
	}
	if err == nil && hit {
		var bars []bridge.Bar
		if err := json.Unmarshal(cached, &bars); err == nil {
			observability.Cache().OnCacheHit(ctx, "bars")
			return bars, true, nil
		}
		r.Logger.Warn("cached bars unreadable", "key", key)
	}
	observability.Cache().OnCacheMiss(ctx, "bars")

	bars, err := bridge.Prepare(data, cfg)
	if err != nil {
		return nil, false, err
	}
	encoded, err := json.Marshal(bars)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "encode bars")
	}
	if err := r.Cache.Set(ctx, key, encoded, r.ttl()); err != nil {
		r.Logger.Warn("cache write failed", "kind", "bars", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "bars", len(encoded))
	}
	return bars, false, nil
}

// layout draws the dataset through a chart session, so the pipeline and
// interactive callers validate and prepare identically.
func (r *Runner) layout(data bridge.Dataset, opts Options, result *Result) error {
	surf := sink.NewSVGSurface()
	s, err := chart.New(surf, data, opts.Chart, chart.WithLogger(opts.Logger))
	if err != nil {
		return err
	}
	defer s.Dispose()
	if err := s.Redraw(); err != nil {
		return err
	}
	result.Chart = s.Options()
	result.Bars = s.Bars()
	result.Layout = s.Layout()
	result.Stats.Bars = len(result.Bars)
	return nil
}

// RenderWithCacheInfo renders every requested format, serving what it can
// from cache. Cache failures are logged and treated as misses.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, result *Result, opts Options) (map[string][]byte, CacheInfo, error) {
	var info CacheInfo
	artifacts := make(map[string][]byte, len(opts.Formats))
	keys := make(map[string]string, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(result.DataHash, opts.ArtifactKeyOpts(format, result.Chart))
		keys[format] = key
		if !opts.Refresh {
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				opts.Logger.Warn("cache read failed", "format", format, "err", err)
			}
			if err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact:"+format)
				artifacts[format] = data
				info.Hits = append(info.Hits, format)
				continue
			}
		}
		observability.Cache().OnCacheMiss(ctx, "artifact:"+format)
		missing = append(missing, format)
	}
	info.RenderHit = len(missing) == 0

	if len(missing) > 0 {
		sub := opts
		sub.Formats = missing
		rendered, err := Render(ctx, result.Layout, result.Bars, result.Chart, sub)
		if err != nil {
			return nil, info, err
		}
		for format, data := range rendered {
			artifacts[format] = data
			if err := r.Cache.Set(ctx, keys[format], data, r.ttl()); err != nil {
				opts.Logger.Warn("cache write failed", "format", format, "err", err)
				continue
			}
			observability.Cache().OnCacheSet(ctx, "artifact:"+format, len(data))
		}
	}
	return artifacts, info, nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return TTLArtifact
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
