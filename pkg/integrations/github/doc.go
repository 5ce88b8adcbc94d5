// Package github implements the GitHub releases API client used by the
// publisher.
//
// The client covers the three operations publishing needs:
//
//   - [Client.ReleaseByTag]: look up the release for a tag
//   - [Client.CreateRelease] / [Client.GetOrCreateRelease]: create the
//     release object that groups uploaded wheels
//   - [Client.UploadAsset]: attach a wheel file as a binary asset
//
// Authentication uses a bearer token (typically from GITHUB_TOKEN). Reads
// work unauthenticated at lower rate limits; writes require a token with
// repository access.
//
// Release lookups are cached through the shared integrations client; callers
// that gate mutations on the result (e.g. "is this asset already uploaded?")
// pass refresh=true to bypass the cache.
package github
