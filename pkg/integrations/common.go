package integrations

import (
	"errors"
	"net/http"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a release or asset doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized is returned for 401 and 403 responses. For the GitHub
	// API this usually means a missing, expired, or under-scoped token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited is returned for 429 responses.
	ErrRateLimited = errors.New("rate limited")

	// ErrConflict is returned for 422 responses, such as creating a release
	// for a tag that already has one.
	ErrConflict = errors.New("conflict")
)

// NewHTTPClient creates an HTTP client with a standard timeout for API requests.
// Uploads use a longer timeout since wheel assets can be several megabytes.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NewUploadHTTPClient creates an HTTP client sized for asset uploads.
func NewUploadHTTPClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Minute}
}
