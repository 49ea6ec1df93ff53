package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/orca/pkg/cache"
	"github.com/matzehuels/orca/pkg/layout"
	"github.com/matzehuels/orca/pkg/observability"
	"github.com/matzehuels/orca/pkg/press/cell"
	"github.com/matzehuels/orca/pkg/press/face"
	"github.com/matzehuels/orca/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// Besides the cache and logger, the Runner keeps the MaxPresses most recently
// used face presses by font, size and DPI, so a long-running server parses a
// font once per setting in use. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration

	mu      sync.Mutex
	presses map[face.Options]*pressEntry
	tick    uint64
}

// MaxPresses bounds the face presses a Runner retains.
const MaxPresses = 8

type pressEntry struct {
	press *face.Press
	used  uint64
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
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		TTL:     DefaultTTL,
		presses: make(map[face.Options]*pressEntry),
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{ID: uuid.NewString()}
	logger := r.Logger.With("run_id", result.ID)

	// Stage 1: Parse
	parseStart := time.Now()
	t, tokens, err := r.Parse(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Tree, result.Tokens = t, tokens
	result.TreeHash = treeHash(t, tokens)
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = t.Len()
	result.Stats.Depth = t.Depth()

	logger.Info("germinated tree",
		"nodes", result.Stats.NodeCount,
		"depth", result.Stats.Depth,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, t, tokens, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Width, result.Stats.Height = l.Extent()
	result.CacheInfo.LayoutHit = layoutHit

	logger.Info("computed layout",
		"measure", opts.Measure,
		"steps", l.Steps,
		"extent", fmt.Sprintf("%dx%d", result.Stats.Width, result.Stats.Height),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts, result.ID)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Parse reads and germinates the input. Parsing is not cached: it is
// cheaper than hashing the input would be worth.
func (r *Runner) Parse(ctx context.Context, opts Options) (*tree.Tree, []string, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForParse(); err != nil {
		return nil, nil, err
	}
	name := opts.InputName()
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, name)
	start := time.Now()

	t, tokens, err := Parse(opts)
	nodes := 0
	if t != nil {
		nodes = t.Len()
	}
	hooks.OnParseComplete(ctx, name, nodes, time.Since(start), err)
	return t, tokens, err
}

// GenerateLayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, t *tree.Tree, tokens []string, opts Options) (*layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.LayoutKey(treeHash(t, tokens), opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if l, err := unmarshalLayout(data, t, tokens, opts.Steps); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return l, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			opts.Logger.Warn("cache lookup failed", "key", cacheKey, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Measure, t.Len())
	start := time.Now()
	l, err := r.computeLayout(t, tokens, opts)
	hooks.OnLayoutComplete(ctx, opts.Measure, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := marshalLayout(l); err == nil {
		r.store(ctx, "layout", cacheKey, data, opts.Logger)
	}
	return l, false, nil
}

// GenerateLayout is a convenience wrapper that calls GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, t *tree.Tree, tokens []string, opts Options) (*layout.Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, t, tokens, opts)
	return l, err
}

func (r *Runner) computeLayout(t *tree.Tree, tokens []string, opts Options) (*layout.Layout, error) {
	if opts.Measure == MeasureCell {
		return GenerateLayout(t, tokens, cell.Press{}, opts)
	}
	p, err := r.Press(opts.FaceOptions())
	if err != nil {
		return nil, err
	}
	return GenerateLayout(t, tokens, p, opts)
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l *layout.Layout, opts Options, runID string) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from layout data
	layoutData, err := marshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	// The layout key covers the tree, font and steps; the data covers the rest.
	layoutKey := r.Keyer.LayoutKey(treeHash(l.Tree, l.Tokens), opts.LayoutKeyOpts())
	layoutHash := cache.Hash(append([]byte(layoutKey), layoutData...))

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	var p *face.Press
	if opts.Measure == MeasureFace {
		if p, err = r.Press(opts.FaceOptions()); err != nil {
			return nil, false, err
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, l, p, opts, runID)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, "artifact", key, data, opts.Logger)
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l *layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts, uuid.NewString())
	return artifacts, err
}

// Press returns the runner's face press for opts, loading it on first use.
// The logger in opts is not part of the identity. When MaxPresses are held,
// the least recently used one is dropped; callers still holding it keep a
// working press.
func (r *Runner) Press(opts face.Options) (*face.Press, error) {
	opts.Logger = nil
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tick++
	if e, ok := r.presses[opts]; ok {
		e.used = r.tick
		return e.press, nil
	}
	withLogger := opts
	withLogger.Logger = r.Logger
	p, err := face.New(withLogger)
	if err != nil {
		return nil, err
	}
	if len(r.presses) >= MaxPresses {
		r.evictOldestPress()
	}
	r.presses[opts] = &pressEntry{press: p, used: r.tick}
	return p, nil
}

func (r *Runner) evictOldestPress() {
	var (
		oldest face.Options
		used   = ^uint64(0)
	)
	for k, e := range r.presses {
		if e.used < used {
			oldest, used = k, e.used
		}
	}
	delete(r.presses, oldest)
}

// Close releases the face presses and the cache.
func (r *Runner) Close() error {
	r.mu.Lock()
	for k, e := range r.presses {
		e.press.Close()
		delete(r.presses, k)
	}
	r.mu.Unlock()
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, logger *log.Logger) {
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		logger.Warn("cache store failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
