// Package observability carries pipeline, cache and server events to
// whatever the binary registers at startup. Until something is registered
// every event is dropped.
//
//	hooks := observability.NewLogHooks(logger)
//	observability.SetPipelineHooks(hooks)
//	observability.SetCacheHooks(hooks)
//
// Emitters fetch the current hooks per event:
//
//	observability.Pipeline().OnLoadStart(ctx, source)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the render pipeline.
type PipelineHooks interface {
	// Load events, once per input source.
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, features int, duration time.Duration, err error)

	// Compose events, once per document.
	OnComposeStart(ctx context.Context, layers int)
	OnComposeComplete(ctx context.Context, shapes int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations. keyType is "geometry"
// or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the render server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// Registry
// =============================================================================

type nopPipeline struct{}

func (nopPipeline) OnLoadStart(context.Context, string)                              {}
func (nopPipeline) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (nopPipeline) OnComposeStart(context.Context, int)                              {}
func (nopPipeline) OnComposeComplete(context.Context, int, time.Duration, error)      {}
func (nopPipeline) OnRenderStart(context.Context, []string)                          {}
func (nopPipeline) OnRenderComplete(context.Context, []string, time.Duration, error) {}

type nopCache struct{}

func (nopCache) OnCacheHit(context.Context, string)      {}
func (nopCache) OnCacheMiss(context.Context, string)     {}
func (nopCache) OnCacheSet(context.Context, string, int) {}

type nopHTTP struct{}

func (nopHTTP) OnRequest(context.Context, string, string)                      {}
func (nopHTTP) OnResponse(context.Context, string, string, int, time.Duration) {}

// slot holds one registered implementation. Reads happen on every event,
// so they are lock-free.
type slot[T any] struct {
	v   atomic.Pointer[T]
	nop T
}

func (s *slot[T]) get() T {
	if p := s.v.Load(); p != nil {
		return *p
	}
	return s.nop
}

func (s *slot[T]) set(h T) { s.v.Store(&h) }

func (s *slot[T]) reset() { s.v.Store(nil) }

var (
	pipelineSlot = slot[PipelineHooks]{nop: nopPipeline{}}
	cacheSlot    = slot[CacheHooks]{nop: nopCache{}}
	httpSlot     = slot[HTTPHooks]{nop: nopHTTP{}}
)

// SetPipelineHooks registers h for pipeline events. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.set(h)
	}
}

// SetCacheHooks registers h for cache events. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.set(h)
	}
}

// SetHTTPHooks registers h for server events. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.set(h)
	}
}

// Pipeline returns the registered pipeline hooks, never nil.
func Pipeline() PipelineHooks { return pipelineSlot.get() }

// Cache returns the registered cache hooks, never nil.
func Cache() CacheHooks { return cacheSlot.get() }

// HTTP returns the registered HTTP hooks, never nil.
func HTTP() HTTPHooks { return httpSlot.get() }

// Reset drops every registered hook. Tests use it to isolate themselves.
func Reset() {
	pipelineSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
