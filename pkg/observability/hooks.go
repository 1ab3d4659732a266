// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about drag gestures, group mutations, and
// session-store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach avoids import cycles (hooks are registered by main, not by
// libraries) and keeps the engine free of observability framework imports.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEngineHooks(&myEngineHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Engine Hooks
// =============================================================================

// EngineHooks receives events from the spatial-consistency engine.
type EngineHooks interface {
	// Drag gesture events
	OnDragStart(ctx context.Context, nodeID string, constrained bool)
	OnDragEnd(ctx context.Context, nodeID string, snapped bool, duration time.Duration)

	// Group mutation events
	OnGroupCreated(ctx context.Context, groupID string, memberCount int)
	OnGroupDeleted(ctx context.Context, groupID string)

	// Clone events
	OnClone(ctx context.Context, sourceID, newID string, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from session-store operations.
type StoreHooks interface {
	// OnLoad records a session read.
	OnLoad(ctx context.Context, backend, sessionID string, err error)

	// OnSave records a session write.
	OnSave(ctx context.Context, backend, sessionID string, size int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEngineHooks is a no-op implementation of EngineHooks.
type NoopEngineHooks struct{}

func (NoopEngineHooks) OnDragStart(context.Context, string, bool)              {}
func (NoopEngineHooks) OnDragEnd(context.Context, string, bool, time.Duration) {}
func (NoopEngineHooks) OnGroupCreated(context.Context, string, int)            {}
func (NoopEngineHooks) OnGroupDeleted(context.Context, string)                 {}
func (NoopEngineHooks) OnClone(context.Context, string, string, error)         {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, string, error)      {}
func (NoopStoreHooks) OnSave(context.Context, string, string, int, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	engineHooks EngineHooks = NoopEngineHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	hooksMu     sync.RWMutex
)

// SetEngineHooks registers custom engine hooks.
// This should be called once at application startup before any engine operations.
func SetEngineHooks(h EngineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		engineHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Engine returns the registered engine hooks.
func Engine() EngineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return engineHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	engineHooks = NoopEngineHooks{}
	storeHooks = NoopStoreHooks{}
}
