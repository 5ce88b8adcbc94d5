// Package httputil provides HTTP utilities for the GitHub API client.
//
// # Overview
//
// This package provides infrastructure used by the release API client:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem with configurable TTL.
// This speeds up repeated publish runs and reduces load on the GitHub API.
// The cache location defaults to ~/.cache/wheelhouse/ and can be moved with
// the WHEELHOUSE_CACHE_DIR environment variable; the override has no effect
// on generated output.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	ok, _ := cache.Get("github:release:owner/name:v1.0.0", &rel)
//	if !ok {
//	    rel = fetchFromAPI()
//	    cache.Set("github:release:owner/name:v1.0.0", rel)
//	}
//
// Cache keys should be namespaced to avoid collisions.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//
// It uses exponential backoff: 3 attempts by default with a 1 second base
// delay that doubles on each retry. Only errors wrapped in [RetryableError]
// are retried; validation and auth failures return immediately.
//
// The cache can be cleared via `wheelhouse cache clear` or by deleting the
// cache directory.
package httputil
