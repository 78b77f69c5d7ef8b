// Package observability provides hooks for metrics, tracing, and logging.
//
// The core libraries stay free of observability backends; instead, main
// registers hook implementations at startup and the pipeline, cache layer,
// and HTTP server report events through the registry. No-op defaults mean
// instrumentation is always optional.
//
// # Usage
//
//	type prom struct{ observability.NoopPipelineHook }
//
//	func (p prom) OnStageComplete(stage string, d time.Duration, err error) {
//		stageDuration.WithLabelValues(stage).Observe(d.Seconds())
//	}
//
//	func main() {
//		observability.RegisterPipelineHook(prom{})
//	}
package observability

import (
	"sync"
	"time"
)

// Pipeline stage names reported through PipelineHook.
const (
	StageDigits  = "digits"
	StageLayout  = "layout"
	StageCompose = "compose"
	StageRender  = "render"
)

// PipelineHook receives pipeline stage events.
type PipelineHook interface {
	// OnStageStart fires when a pipeline stage begins.
	OnStageStart(stage string)

	// OnStageComplete fires when a stage ends, with its duration and error.
	OnStageComplete(stage string, duration time.Duration, err error)
}

// CacheHook receives cache access events.
type CacheHook interface {
	// OnHit fires when a key is served from cache.
	OnHit(key string)

	// OnMiss fires when a key is absent and must be computed.
	OnMiss(key string)
}

// ServeHook receives HTTP serving events.
type ServeHook interface {
	// OnRequest fires after each request completes.
	OnRequest(method, path string, status int, duration time.Duration)
}

// NoopPipelineHook implements PipelineHook with no-ops, for embedding.
type NoopPipelineHook struct{}

func (NoopPipelineHook) OnStageStart(string)                          {}
func (NoopPipelineHook) OnStageComplete(string, time.Duration, error) {}

// NoopCacheHook implements CacheHook with no-ops, for embedding.
type NoopCacheHook struct{}

func (NoopCacheHook) OnHit(string)  {}
func (NoopCacheHook) OnMiss(string) {}

// NoopServeHook implements ServeHook with no-ops, for embedding.
type NoopServeHook struct{}

func (NoopServeHook) OnRequest(string, string, int, time.Duration) {}

// registry holds the process-wide hooks. Registration happens at startup;
// reads happen on every event, so the lock is cheap and uncontended.
var registry = struct {
	sync.RWMutex
	pipeline PipelineHook
	cache    CacheHook
	serve    ServeHook
}{
	pipeline: NoopPipelineHook{},
	cache:    NoopCacheHook{},
	serve:    NoopServeHook{},
}

// RegisterPipelineHook installs the process-wide pipeline hook.
func RegisterPipelineHook(h PipelineHook) {
	registry.Lock()
	defer registry.Unlock()
	registry.pipeline = h
}

// RegisterCacheHook installs the process-wide cache hook.
func RegisterCacheHook(h CacheHook) {
	registry.Lock()
	defer registry.Unlock()
	registry.cache = h
}

// RegisterServeHook installs the process-wide HTTP hook.
func RegisterServeHook(h ServeHook) {
	registry.Lock()
	defer registry.Unlock()
	registry.serve = h
}

// Pipeline returns the registered pipeline hook.
func Pipeline() PipelineHook {
	registry.RLock()
	defer registry.RUnlock()
	return registry.pipeline
}

// CacheEvents returns the registered cache hook.
func CacheEvents() CacheHook {
	registry.RLock()
	defer registry.RUnlock()
	return registry.cache
}

// Serve returns the registered HTTP hook.
func Serve() ServeHook {
	registry.RLock()
	defer registry.RUnlock()
	return registry.serve
}

// Reset restores the no-op hooks. Intended for tests.
func Reset() {
	registry.Lock()
	defer registry.Unlock()
	registry.pipeline = NoopPipelineHook{}
	registry.cache = NoopCacheHook{}
	registry.serve = NoopServeHook{}
}
