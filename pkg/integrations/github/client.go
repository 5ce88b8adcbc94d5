package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/knaebel/wheelhouse/pkg/httputil"
	"github.com/knaebel/wheelhouse/pkg/integrations"
)

// Client provides access to the GitHub releases API.
// It handles HTTP requests with caching, automatic retries, and optional
// authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (read-only,
// lower rate limits); creating releases and uploading assets requires a token.
func NewClient(token string, cacheTTL time.Duration) (*Client, error) {
	cache, err := httputil.NewCache("", cacheTTL)
	if err != nil {
		return nil, err
	}
	return newClient(token, cache), nil
}

// NewClientWithCache creates a GitHub API client backed by the given cache.
func NewClientWithCache(token string, cache *httputil.Cache) *Client {
	return newClient(token, cache)
}

func newClient(token string, cache *httputil.Cache) *Client {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{
		Client:  integrations.NewClient(cache, headers),
		baseURL: "https://api.github.com",
	}
}

// SetBaseURL points the client at a different API endpoint. Used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// ReleaseByTag fetches the release published under tag.
// If refresh is true, cached data is bypassed; pass true whenever the result
// gates a mutation, such as checking which assets already exist.
//
// Returns [integrations.ErrNotFound] if no release exists for the tag.
func (c *Client) ReleaseByTag(ctx context.Context, owner, repo, tag string, refresh bool) (*Release, error) {
	key := fmt.Sprintf("github:release:%s/%s:%s", owner, repo, tag)

	var rel Release
	err := c.Cached(ctx, key, refresh, &rel, func() error {
		url := fmt.Sprintf("%s/repos/%s/%s/releases/tags/%s", c.baseURL, owner, repo, tag)
		if err := c.Get(ctx, url, &rel); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: release %s in %s/%s", err, tag, owner, repo)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// CreateRelease creates a new release for req.TagName.
// Returns [integrations.ErrConflict] if a release already exists for the tag.
func (c *Client) CreateRelease(ctx context.Context, owner, repo string, req ReleaseRequest) (*Release, error) {
	var rel Release
	url := fmt.Sprintf("%s/repos/%s/%s/releases", c.baseURL, owner, repo)
	if err := c.Post(ctx, url, req, &rel); err != nil {
		return nil, err
	}
	return &rel, nil
}

// GetOrCreateRelease returns the release for req.TagName, creating it if it
// doesn't exist yet. A create that loses to a concurrent publisher (422 on
// an existing tag) falls back to fetching the winner.
func (c *Client) GetOrCreateRelease(ctx context.Context, owner, repo string, req ReleaseRequest) (*Release, error) {
	rel, err := c.ReleaseByTag(ctx, owner, repo, req.TagName, true)
	if err == nil {
		return rel, nil
	}
	if !errors.Is(err, integrations.ErrNotFound) {
		return nil, err
	}

	rel, err = c.CreateRelease(ctx, owner, repo, req)
	if errors.Is(err, integrations.ErrConflict) {
		return c.ReleaseByTag(ctx, owner, repo, req.TagName, true)
	}
	return rel, err
}

// UploadAsset uploads data as a release asset named name and returns the
// stored asset, including its public download URL. The release's hypermedia
// upload URL determines the endpoint.
func (c *Client) UploadAsset(ctx context.Context, rel *Release, name string, data []byte) (*Asset, error) {
	endpoint, err := rel.uploadEndpoint(name)
	if err != nil {
		return nil, err
	}

	var asset Asset
	uploadOnce := func() error { return c.Upload(ctx, endpoint, data, &asset) }
	if err := httputil.RetryWithBackoff(ctx, uploadOnce); err != nil {
		return nil, err
	}
	return &asset, nil
}

// uploadEndpoint expands the release's hypermedia upload URL template
// ("https://uploads.github.com/.../assets{?name,label}") for one asset name.
func (r *Release) uploadEndpoint(name string) (string, error) {
	base := r.UploadURL
	if i := strings.Index(base, "{"); i >= 0 {
		base = base[:i]
	}
	if base == "" {
		return "", fmt.Errorf("release %q has no upload URL", r.TagName)
	}
	return base + "?name=" + url.QueryEscape(name), nil
}

// FindAsset returns the asset with the given name, if the release has one.
// Publishers use this to skip re-uploading files from an interrupted run.
func (r *Release) FindAsset(name string) (Asset, bool) {
	for _, a := range r.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return Asset{}, false
}
