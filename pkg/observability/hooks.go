// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about publish runs, site builds, and API calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPublishHooks(&myPublishHooks{})
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Publish().OnUploadStart(ctx, filename, size)
//	// ... upload ...
//	observability.Publish().OnUploadComplete(ctx, filename, size, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Publish Hooks
// =============================================================================

// PublishHooks receives events from publish runs.
type PublishHooks interface {
	// Upload events
	OnUploadStart(ctx context.Context, filename string, size int64)
	OnUploadComplete(ctx context.Context, filename string, size int64, duration time.Duration, err error)

	// OnManifestSave records a manifest write with the total wheel count.
	OnManifestSave(ctx context.Context, path string, wheelCount int)
}

// =============================================================================
// Site Hooks
// =============================================================================

// SiteHooks receives events from static site builds.
type SiteHooks interface {
	// OnBuildComplete records a finished site build.
	OnBuildComplete(ctx context.Context, dir string, pageCount, wheelCount int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPublishHooks is a no-op implementation of PublishHooks.
type NoopPublishHooks struct{}

func (NoopPublishHooks) OnUploadStart(context.Context, string, int64) {}
func (NoopPublishHooks) OnUploadComplete(context.Context, string, int64, time.Duration, error) {
}
func (NoopPublishHooks) OnManifestSave(context.Context, string, int) {}

// NoopSiteHooks is a no-op implementation of SiteHooks.
type NoopSiteHooks struct{}

func (NoopSiteHooks) OnBuildComplete(context.Context, string, int, int, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	publishHooks PublishHooks = NoopPublishHooks{}
	siteHooks    SiteHooks    = NoopSiteHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetPublishHooks registers custom publish hooks.
// This should be called once at application startup before any publish runs.
func SetPublishHooks(h PublishHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		publishHooks = h
	}
}

// SetSiteHooks registers custom site build hooks.
// This should be called once at application startup before any site builds.
func SetSiteHooks(h SiteHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		siteHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Publish returns the registered publish hooks.
func Publish() PublishHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return publishHooks
}

// Site returns the registered site build hooks.
func Site() SiteHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return siteHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	publishHooks = NoopPublishHooks{}
	siteHooks = NoopSiteHooks{}
	httpHooks = NoopHTTPHooks{}
}
