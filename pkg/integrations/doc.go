// Package integrations provides the shared HTTP plumbing for remote API
// clients.
//
// # Overview
//
// The [Client] type wraps net/http with the concerns every API client here
// needs:
//
//   - Response caching for reads (via pkg/httputil's file cache)
//   - Automatic retry with exponential backoff for transient failures
//   - Default headers (auth tokens, API version negotiation)
//   - Consistent status-code-to-error mapping
//
// Concrete clients, such as [github.com/knaebel/wheelhouse/pkg/integrations/github],
// embed *Client and add endpoint-specific methods on top.
//
// # Error Handling
//
// HTTP status codes map to sentinel errors that callers can test with
// errors.Is:
//
//   - 404 → [ErrNotFound]
//   - 401, 403 → [ErrUnauthorized]
//   - 422 → [ErrConflict]
//   - 429 → [ErrRateLimited]
//   - 5xx and transport failures → [ErrNetwork], wrapped as retryable
//
// Only retryable errors are re-attempted; auth and validation failures
// surface immediately.
package integrations
