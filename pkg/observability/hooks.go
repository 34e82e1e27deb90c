// Package observability lets applications observe document pipelines
// without the library depending on a metrics or tracing backend.
//
// Hooks are registered once at startup and default to no-ops:
//
//	observability.SetPipelineHooks(myHooks{})
//
// The pipeline emits events around each stage:
//
//	observability.Pipeline().OnLoadStart(ctx, path)
//	// ... decode ...
//	observability.Pipeline().OnLoadComplete(ctx, path, shapes, elapsed, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the load → validate → export pipeline.
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, path string)
	OnLoadComplete(ctx context.Context, path string, shapeCount int, duration time.Duration, err error)

	// OnValidate reports the size of a validation report.
	OnValidate(ctx context.Context, errors, warnings int)

	OnExportStart(ctx context.Context, formats []string)
	OnExportComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from artifact cache lookups, keyed by the
// export format of the artifact.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, format string)
	OnCacheMiss(ctx context.Context, format string)
	OnCacheSet(ctx context.Context, format string, bytes int)
}

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string) {}

func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}

func (NoopPipelineHooks) OnValidate(context.Context, int, int) {}

func (NoopPipelineHooks) OnExportStart(context.Context, []string) {}

func (NoopPipelineHooks) OnExportComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string) {}

func (NoopCacheHooks) OnCacheMiss(context.Context, string) {}

func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// registry holds the process-wide hooks.
type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
}

var hooks = &registry{pipeline: NoopPipelineHooks{}, cache: NoopCacheHooks{}}

// SetPipelineHooks registers pipeline hooks. nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.pipeline = h
	hooks.mu.Unlock()
}

// SetCacheHooks registers cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.cache = h
	hooks.mu.Unlock()
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.pipeline
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.cache
}

// Reset restores the no-op hooks.
func Reset() {
	hooks.mu.Lock()
	hooks.pipeline = NoopPipelineHooks{}
	hooks.cache = NoopCacheHooks{}
	hooks.mu.Unlock()
}
