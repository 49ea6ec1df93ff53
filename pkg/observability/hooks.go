// Package observability lets a host program watch orca at work.
//
// The pipeline, the caches and the render server report what they do through
// three small hook interfaces. Nothing is reported by default: each interface
// starts out bound to a no-op, and main swaps in a real backend once at
// startup. Libraries never register hooks themselves.
//
//	observability.SetPipelineHooks(myHooks)
//	...
//	observability.Pipeline().OnLayoutStart(ctx, "face", t.Len())
//
// [LogHooks] is the backend that ships with orca. It writes each event to a
// charmbracelet/log logger at debug level and is enabled by `orca -v`.
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks observes the three pipeline stages. source names the program
// being germinated, measure is "face" or "cell", formats are sink names.
type PipelineHooks interface {
	OnParseStart(ctx context.Context, source string)
	OnParseComplete(ctx context.Context, source string, nodeCount int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, measure string, nodeCount int)
	OnLayoutComplete(ctx context.Context, measure string, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks observes cache lookups. kind is "layout" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// HTTPHooks observes requests handled by the render server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, path string, err error)
}

// NoopPipelineHooks discards pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                         {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)     {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}

// NoopCacheHooks discards cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks discards server events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// registry holds the active backends.
type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var active = newRegistry()

func newRegistry() *registry {
	return &registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	}
}

func (r *registry) update(fn func(r *registry)) {
	r.mu.Lock()
	fn(r)
	r.mu.Unlock()
}

func (r *registry) snapshot() (PipelineHooks, CacheHooks, HTTPHooks) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pipeline, r.cache, r.http
}

// SetPipelineHooks installs h as the pipeline backend. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		active.update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks installs h as the cache backend. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		active.update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks installs h as the server backend. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		active.update(func(r *registry) { r.http = h })
	}
}

// Pipeline returns the active pipeline backend.
func Pipeline() PipelineHooks {
	p, _, _ := active.snapshot()
	return p
}

// Cache returns the active cache backend.
func Cache() CacheHooks {
	_, c, _ := active.snapshot()
	return c
}

// HTTP returns the active server backend.
func HTTP() HTTPHooks {
	_, _, h := active.snapshot()
	return h
}

// Reset puts every backend back to its no-op.
func Reset() {
	fresh := newRegistry()
	active.update(func(r *registry) {
		r.pipeline, r.cache, r.http = fresh.pipeline, fresh.cache, fresh.http
	})
}
