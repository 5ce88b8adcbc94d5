// Package publish implements the wheel publishing workflow.
//
// A publish run takes local wheel files and a release tag and performs the
// complete sequence the CLI exposes as `wheelhouse publish`:
//
//  1. Validate: every path exists and parses as a wheel filename.
//  2. Load the manifest and resolve the target repository.
//  3. Check the duplicate policy before any remote call.
//  4. Get or create the GitHub release for the tag and upload each wheel,
//     skipping assets an interrupted earlier run already uploaded.
//  5. Record the new entries and save the manifest atomically.
//  6. Regenerate the static site (unless skipped).
//
// Failures abort the run with a non-zero result before further state is
// mutated; re-running after a transient failure is safe because uploads and
// manifest entries are both idempotent on (release tag, filename).
//
// # Duplicate Policy
//
// A wheel whose filename is already recorded under the same release tag is a
// no-op: the run reports it as skipped and continues. The same filename under
// a different tag is an error, since it would silently repoint the published
// URL. Two different filenames that normalize to the same (package, version)
// pair are both accepted; platform-specific wheels legitimately share one
// version.
package publish

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/knaebel/wheelhouse/pkg/errors"
	"github.com/knaebel/wheelhouse/pkg/integrations/github"
	"github.com/knaebel/wheelhouse/pkg/manifest"
	"github.com/knaebel/wheelhouse/pkg/observability"
	"github.com/knaebel/wheelhouse/pkg/site"
	"github.com/knaebel/wheelhouse/pkg/wheel"
)

// Releaser is the subset of the GitHub client the publisher needs.
type Releaser interface {
	GetOrCreateRelease(ctx context.Context, owner, repo string, req github.ReleaseRequest) (*github.Release, error)
	UploadAsset(ctx context.Context, rel *github.Release, name string, data []byte) (*github.Asset, error)
}

// Options configures a publish run.
type Options struct {
	Tag          string   // Release tag (required)
	Title        string   // Release title (defaults to Tag)
	Notes        string   // Release notes body
	Repo         string   // owner/name override; must agree with the manifest
	ManifestPath string   // Path to wheels.json
	Wheels       []string // Local wheel file paths
	SkipSite     bool     // Skip regenerating the static site
	Output       string   // Site output directory
	SiteTitle    string   // Root index title
	SiteBaseURL  string   // Public site URL for the pip hint
}

// Result summarizes a completed publish run.
type Result struct {
	RunID     string // Short identifier correlating log lines for this run
	Published int    // Wheels uploaded and recorded
	Skipped   int    // Wheels already recorded under this tag
	SiteCount int    // Wheels rendered into the site (-1 if skipped)
	Repo      string // Resolved repository
}

// Runner executes publish runs against a release host.
type Runner struct {
	releaser Releaser
	logger   *log.Logger
}

// NewRunner creates a publish runner. Pass nil for logger to use the default.
func NewRunner(releaser Releaser, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{releaser: releaser, logger: logger}
}

// candidate is a wheel staged for publishing.
type candidate struct {
	path   string
	wheel  *wheel.Wheel
	size   int64
	sha256 string
}

// Run executes the publish workflow. It either records all requested wheels
// or returns an error before mutating state beyond what already succeeded.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Tag == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "release tag is required")
	}
	if len(opts.Wheels) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no wheel files given")
	}

	runID := uuid.NewString()[:8]
	logger := r.logger.With("run", runID, "tag", opts.Tag)

	candidates, err := stage(opts.Wheels)
	if err != nil {
		return nil, err
	}

	m, err := manifest.Load(opts.ManifestPath)
	if err != nil {
		return nil, err
	}
	repo, err := resolveRepo(m.Repo, opts.Repo)
	if err != nil {
		return nil, err
	}
	owner, name := splitRepo(repo)

	// Apply the duplicate policy before touching the network.
	toPublish, skipped, err := partition(m, opts.Tag, candidates)
	if err != nil {
		return nil, err
	}
	result := &Result{RunID: runID, Skipped: len(skipped), Repo: repo, SiteCount: -1}
	for _, c := range skipped {
		logger.Info("already published, skipping", "wheel", c.wheel.Filename)
	}

	if len(toPublish) > 0 {
		title := opts.Title
		if title == "" {
			title = opts.Tag
		}
		rel, err := r.releaser.GetOrCreateRelease(ctx, owner, name, github.ReleaseRequest{
			TagName: opts.Tag,
			Name:    title,
			Body:    opts.Notes,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "get or create release %s", opts.Tag)
		}
		logger.Debug("resolved release", "id", rel.ID)

		for _, c := range toPublish {
			url, err := r.uploadWheel(ctx, logger, rel, c)
			if err != nil {
				return nil, err
			}
			entry := manifest.Entry{
				Filename:   c.wheel.Filename,
				Version:    c.wheel.Version,
				ReleaseTag: opts.Tag,
				URL:        url,
				SizeBytes:  c.size,
				SHA256:     c.sha256,
			}
			if err := m.Add(c.wheel.Name, entry); err != nil {
				return nil, err
			}
			result.Published++
		}

		m.Repo = repo
		if err := m.Save(opts.ManifestPath); err != nil {
			return nil, err
		}
		observability.Publish().OnManifestSave(ctx, opts.ManifestPath, m.Count())
		logger.Info("manifest updated", "path", opts.ManifestPath, "wheels", m.Count())
	}

	if !opts.SkipSite {
		builder := &site.Builder{Title: opts.SiteTitle, BaseURL: opts.SiteBaseURL}
		count, err := builder.Build(ctx, m, opts.Output)
		if err != nil {
			return nil, err
		}
		result.SiteCount = count
		logger.Info("site regenerated", "dir", opts.Output, "wheels", count)
	}

	return result, nil
}

// uploadWheel uploads one wheel, reusing an asset a previous interrupted run
// already attached to the release.
func (r *Runner) uploadWheel(ctx context.Context, logger *log.Logger, rel *github.Release, c candidate) (string, error) {
	if existing, ok := rel.FindAsset(c.wheel.Filename); ok {
		logger.Info("asset already on release, reusing", "wheel", c.wheel.Filename)
		return existing.BrowserDownloadURL, nil
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", c.path)
	}

	observability.Publish().OnUploadStart(ctx, c.wheel.Filename, c.size)
	start := time.Now()
	asset, err := r.releaser.UploadAsset(ctx, rel, c.wheel.Filename, data)
	observability.Publish().OnUploadComplete(ctx, c.wheel.Filename, c.size, time.Since(start), err)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "upload %s", c.wheel.Filename)
	}
	logger.Info("uploaded", "wheel", c.wheel.Filename, "size", c.size)
	return asset.BrowserDownloadURL, nil
}

// stage validates paths and computes the metadata recorded for each wheel.
func stage(paths []string) ([]candidate, error) {
	candidates := make([]candidate, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "missing wheel file: %s", path)
		}

		w, err := wheel.Parse(filepath.Base(path))
		if err != nil {
			return nil, err
		}

		sum, err := hashFile(path)
		if err != nil {
			return nil, err
		}

		candidates = append(candidates, candidate{
			path:   path,
			wheel:  w,
			size:   info.Size(),
			sha256: sum,
		})
	}
	return candidates, nil
}

// partition applies the duplicate policy: already-recorded wheels under the
// same tag are skipped, under a different tag they abort the run.
func partition(m *manifest.Manifest, tag string, candidates []candidate) (toPublish, skipped []candidate, err error) {
	for _, c := range candidates {
		existing, found := m.Find(c.wheel.Name, c.wheel.Filename)
		switch {
		case !found:
			toPublish = append(toPublish, c)
		case existing.ReleaseTag == tag:
			skipped = append(skipped, c)
		default:
			return nil, nil, errors.New(errors.ErrCodeDuplicateEntry,
				"%s is already published under tag %s", c.wheel.Filename, existing.ReleaseTag)
		}
	}
	return toPublish, skipped, nil
}

// resolveRepo reconciles the manifest's repo with a CLI override.
func resolveRepo(manifestRepo, cliRepo string) (string, error) {
	if manifestRepo != "" && cliRepo != "" && manifestRepo != cliRepo {
		return "", errors.New(errors.ErrCodeInvalidInput,
			"manifest repo is %s, but --repo says %s", manifestRepo, cliRepo)
	}
	repo := cliRepo
	if repo == "" {
		repo = manifestRepo
	}
	if repo == "" {
		return "", errors.New(errors.ErrCodeInvalidInput,
			"repository not set; add it to the manifest or pass --repo owner/name")
	}
	if err := errors.ValidateRepo(repo); err != nil {
		return "", err
	}
	return repo, nil
}

func splitRepo(repo string) (owner, name string) {
	for i, c := range repo {
		if c == '/' {
			return repo[:i], repo[i+1:]
		}
	}
	return repo, ""
}

// hashFile computes the hex SHA-256 of a file without loading it whole.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash %s", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
