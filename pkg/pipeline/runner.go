package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hydrograph/pkg/annotate"
	"github.com/matzehuels/hydrograph/pkg/cache"
	"github.com/matzehuels/hydrograph/pkg/network"
	"github.com/matzehuels/hydrograph/pkg/observability"
	"github.com/matzehuels/hydrograph/pkg/render/nodelink"
	"github.com/matzehuels/hydrograph/pkg/results"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the preview server use it.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is the lifetime of cached artifacts.
	TTL time.Duration
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
		TTL:    cache.DefaultTTL,
	}
}

// Execute runs the complete annotate → render → legend pipeline with caching.
// res may be nil.
func (r *Runner) Execute(ctx context.Context, net *network.Network, res *results.Results, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Annotate
	annotateStart := time.Now()
	g, err := r.Annotate(ctx, net, res, opts)
	if err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}
	result.Graph = g
	result.Stats.AnnotateTime = time.Since(annotateStart)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)

	r.Logger.Info("annotated network",
		"network", g.Name,
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"time", g.Time,
		"duration", result.Stats.AnnotateTime)

	// Stage 2: DOT
	result.DOT = nodelink.ToDOT(g)
	result.SourceHash = cache.Hash([]byte(result.DOT))

	// Stage 3: Render
	formats := opts.Formats
	if opts.Legend && !opts.HasFormat(FormatPNG) {
		formats = append(formats[:len(formats):len(formats)], FormatPNG)
	}
	renderStart := time.Now()
	rendered, renderHit, err := r.RenderWithCacheInfo(ctx, result.DOT, len(g.Nodes), formats, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Layout, result.FellBack = rendered.Layout, rendered.FellBack
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit
	for _, f := range opts.Formats {
		result.Artifacts[f] = rendered.Artifacts[f]
	}

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"layout", result.Layout,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	if !opts.Legend {
		return result, nil
	}

	// Stage 4: Legend
	legendStart := time.Now()
	bar, legendHit, err := r.LegendWithCacheInfo(ctx, g.Legend, opts)
	if err != nil {
		return nil, fmt.Errorf("legend: %w", err)
	}
	doc, err := ComposeDocument(g.Name, bar, rendered.Artifacts[FormatPNG])
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	result.Artifacts[ArtifactLegend] = bar
	result.Artifacts[ArtifactDocument] = doc
	result.Stats.LegendTime = time.Since(legendStart)
	result.CacheInfo.LegendHit = legendHit

	r.Logger.Info("composed legend document",
		"label", g.Legend.Label,
		"min", g.Legend.Min,
		"max", g.Legend.Max,
		"duration", result.Stats.LegendTime)

	return result, nil
}

// Annotate decorates the network, emitting pipeline hooks.
func (r *Runner) Annotate(ctx context.Context, net *network.Network, res *results.Results, opts Options) (*annotate.Graph, error) {
	hooks := observability.Pipeline()
	hooks.OnAnnotateStart(ctx, net.Name)
	start := time.Now()

	g, err := annotate.Build(net, res, opts.AnnotateOptions())
	nodes, edges := 0, 0
	if g != nil {
		nodes, edges = len(g.Nodes), len(g.Edges)
	}
	hooks.OnAnnotateComplete(ctx, net.Name, nodes, edges, time.Since(start), err)
	return g, err
}

// RenderWithCacheInfo renders DOT source of a graph with nodeCount nodes,
// with caching, and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, src string, nodeCount int, formats []string, opts Options) (*Rendered, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	hash := cache.Hash([]byte(src))

	// Try to get all formats from cache
	if !opts.Refresh {
		if cached, ok := r.cachedArtifacts(ctx, hash, formats, opts); ok {
			if meta, ok := r.cachedLayout(ctx, hash, opts); ok {
				if meta.FellBack {
					opts.Logger.Warn("layout unavailable, using dot", "requested", opts.Layout, "cached", true)
				}
				return &Rendered{Artifacts: cached, Layout: meta.Layout, FellBack: meta.FellBack}, true, nil
			}
		}
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Layout, nodeCount)
	hooks.OnRenderStart(ctx, formats)
	start := time.Now()

	rendered, err := RenderGraph(ctx, src, opts.Layout, formats, opts.Logger)
	if err != nil {
		hooks.OnLayoutComplete(ctx, opts.Layout, false, time.Since(start), err)
		hooks.OnRenderComplete(ctx, formats, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnLayoutComplete(ctx, rendered.Layout, rendered.FellBack, time.Since(start), nil)
	hooks.OnRenderComplete(ctx, formats, time.Since(start), nil)

	// Cache each format
	for format, data := range rendered.Artifacts {
		r.store(ctx, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format)), data)
	}
	if meta, err := json.Marshal(layoutMeta{Layout: rendered.Layout, FellBack: rendered.FellBack}); err == nil {
		r.store(ctx, r.layoutKey(hash, opts), meta)
	}
	return rendered, false, nil
}

// LegendWithCacheInfo draws the color bar with caching.
func (r *Runner) LegendWithCacheInfo(ctx context.Context, l annotate.Legend, opts Options) ([]byte, bool, error) {
	data, _ := json.Marshal(l)
	key := r.Keyer.ArtifactKey(cache.Hash(data), cache.ArtifactKeyOpts{Format: FormatPNG, Kind: ArtifactLegend})

	if !opts.Refresh {
		if bar, hit := r.lookup(ctx, key); hit {
			return bar, true, nil
		}
	}
	bar, err := RenderLegend(l)
	if err != nil {
		return nil, false, err
	}
	r.store(ctx, key, bar)
	return bar, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cachedArtifacts(ctx context.Context, hash string, formats []string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		data, hit := r.lookup(ctx, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format)))
		if !hit {
			return nil, false
		}
		artifacts[format] = data
	}
	return artifacts, len(formats) > 0
}

// layoutMeta records the engine a cached rendering was produced with.
type layoutMeta struct {
	Layout   string `json:"layout"`
	FellBack bool   `json:"fell_back"`
}

func (r *Runner) layoutKey(hash string, opts Options) string {
	return r.Keyer.ArtifactKey(hash, cache.ArtifactKeyOpts{Format: "json", Layout: opts.Layout, Kind: "layout"})
}

// cachedLayout reads the layout entry stored next to the artifacts. A missing
// or unreadable entry counts as a miss.
func (r *Runner) cachedLayout(ctx context.Context, hash string, opts Options) (layoutMeta, bool) {
	var meta layoutMeta
	data, hit := r.lookup(ctx, r.layoutKey(hash, opts))
	if !hit || json.Unmarshal(data, &meta) != nil || meta.Layout == "" {
		return meta, false
	}
	return meta, true
}

func (r *Runner) lookup(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "key", key, "error", err)
		hit = false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
	} else {
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}
	return data, hit
}

func (r *Runner) store(ctx context.Context, key string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "artifact", len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
