// Package observability provides hooks for instrumenting render passes and
// preference persistence.
//
// The core packages stay free of observability frameworks: they call these
// hook interfaces, which default to no-ops, and the host registers real
// implementations at startup. This also keeps persistence failures visible
// without letting them surface as errors in the render or interaction path.
package observability

import (
	"sync"
	"time"
)

// RenderHooks receives events from the layout and render engine.
type RenderHooks interface {
	// OnLayoutStart fires before a layout pass over nodeCount nodes.
	OnLayoutStart(viewPath string, nodeCount int)
	// OnLayoutComplete fires after geometry is computed.
	OnLayoutComplete(viewPath string, rectCount int, duration time.Duration)

	// OnRenderStart fires before draw commands are issued to a surface.
	OnRenderStart(colorMode string)
	// OnRenderComplete fires after the surface is finished.
	OnRenderComplete(colorMode string, duration time.Duration, err error)
}

// StoreHooks receives events from the preference store.
type StoreHooks interface {
	// OnLoad records a record load; defaulted is true when the persisted
	// record was missing or corrupt and defaults were used instead.
	OnLoad(key string, defaulted bool)
	// OnPersist records a successful write of a record.
	OnPersist(key string, size int)
	// OnPersistError records a failed best-effort write.
	OnPersistError(key string, err error)
}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnLayoutStart(string, int)                    {}
func (NoopRenderHooks) OnLayoutComplete(string, int, time.Duration)  {}
func (NoopRenderHooks) OnRenderStart(string)                         {}
func (NoopRenderHooks) OnRenderComplete(string, time.Duration, error) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(string, bool)          {}
func (NoopStoreHooks) OnPersist(string, int)        {}
func (NoopStoreHooks) OnPersistError(string, error) {}

var (
	renderHooks RenderHooks = NoopRenderHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	hooksMu     sync.RWMutex
)

// SetRenderHooks registers custom render hooks. Call once at startup.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetStoreHooks registers custom store hooks. Call once at startup.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores the no-op defaults. Primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	storeHooks = NoopStoreHooks{}
}
