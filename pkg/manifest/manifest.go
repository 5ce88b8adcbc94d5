// Package manifest reads and writes the wheel metadata store.
//
// The manifest is a single JSON document mapping normalized package names to
// the wheels recorded for them, plus the GitHub repository whose releases
// host the files:
//
//	{
//	  "repo": "owner/name",
//	  "packages": {
//	    "gloss-rs": [
//	      {
//	        "filename": "gloss_rs-0.8.0-py3-none-any.whl",
//	        "version": "0.8.0",
//	        "release_tag": "v0.8.0",
//	        "url": "https://github.com/owner/name/releases/download/v0.8.0/gloss_rs-0.8.0-py3-none-any.whl",
//	        "size_bytes": 12345,
//	        "sha256": "..."
//	      }
//	    ]
//	  }
//	}
//
// Entries are append-only: the publisher records a wheel once and the tool
// never mutates or deletes it afterwards. Within a package, entries are
// deduplicated by filename. On save, packages and entries are sorted so that
// the document is byte-stable across runs, and the file is written atomically
// (temp file + rename) to avoid partial-write corruption.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/knaebel/wheelhouse/pkg/errors"
	"github.com/knaebel/wheelhouse/pkg/wheel"
)

// DefaultName is the manifest filename used when no path is configured.
const DefaultName = "wheels.json"

// repoURLPrefix is the base for derived release-asset download URLs.
const repoURLPrefix = "https://github.com"

// Entry records one published wheel. Entries are immutable once written.
type Entry struct {
	Filename   string `json:"filename"`
	Version    string `json:"version"`
	ReleaseTag string `json:"release_tag"`
	URL        string `json:"url,omitempty"`
	SizeBytes  int64  `json:"size_bytes,omitempty"`
	SHA256     string `json:"sha256,omitempty"`
}

// Manifest is the in-memory form of the metadata store.
type Manifest struct {
	Repo     string             `json:"repo"`
	Packages map[string][]Entry `json:"packages"`
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{Packages: make(map[string][]Entry)}
}

// Load reads the manifest at path. A missing file yields an empty manifest,
// matching first-run behavior; malformed JSON or a schema violation is an
// INVALID_MANIFEST error.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", path)
	}

	m := New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	if m.Packages == nil {
		m.Packages = make(map[string][]Entry)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.Sort()
	return m, nil
}

// Save writes the manifest to path atomically: the document is written to a
// temp file in the same directory and renamed over the target, so an
// interrupted run never leaves a half-written manifest behind.
func (m *Manifest) Save(path string) error {
	m.Sort()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode manifest")
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create temp file in %s", dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeInternal, err, "close %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(errors.ErrCodeInternal, err, "rename %s to %s", tmpName, path)
	}
	return nil
}

// Find returns the entry for filename under the normalized package name pkg.
func (m *Manifest) Find(pkg, filename string) (Entry, bool) {
	for _, e := range m.Packages[wheel.Normalize(pkg)] {
		if e.Filename == filename {
			return e, true
		}
	}
	return Entry{}, false
}

// Add appends an entry under the normalized package name pkg.
// Adding a filename that is already recorded for the package is a
// DUPLICATE_ENTRY error; callers decide whether a duplicate is a no-op
// (same release tag, idempotent re-run) before calling Add.
func (m *Manifest) Add(pkg string, e Entry) error {
	name := wheel.Normalize(pkg)
	if _, exists := m.Find(name, e.Filename); exists {
		return errors.New(errors.ErrCodeDuplicateEntry,
			"wheel already recorded in manifest: %s (%s)", e.Filename, e.ReleaseTag)
	}
	m.Packages[name] = append(m.Packages[name], e)
	return nil
}

// DownloadURL returns the public URL for an entry. The URL recorded at
// publish time wins; otherwise it is derived from the repo, release tag, and
// filename following the GitHub release-asset convention.
func (m *Manifest) DownloadURL(e Entry) string {
	if e.URL != "" {
		return e.URL
	}
	if m.Repo == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/releases/download/%s/%s", repoURLPrefix, m.Repo, e.ReleaseTag, e.Filename)
}

// PackageNames returns all package names in sorted order.
func (m *Manifest) PackageNames() []string {
	names := make([]string, 0, len(m.Packages))
	for name := range m.Packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the total number of recorded wheels.
func (m *Manifest) Count() int {
	n := 0
	for _, entries := range m.Packages {
		n += len(entries)
	}
	return n
}

// Sort orders entries within each package by (version, filename).
// Package ordering in the serialized document is handled by encoding/json,
// which emits map keys in sorted order.
func (m *Manifest) Sort() {
	for name, entries := range m.Packages {
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Version != entries[j].Version {
				return entries[i].Version < entries[j].Version
			}
			return entries[i].Filename < entries[j].Filename
		})
		m.Packages[name] = entries
	}
}

// Validate checks the manifest schema: the repo must be present in owner/name
// form whenever wheels are recorded, package keys must be normalized, and
// every entry needs a filename, version, and release tag.
func (m *Manifest) Validate() error {
	if len(m.Packages) > 0 {
		if err := errors.ValidateRepo(m.Repo); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "manifest must include a repo in owner/name form")
		}
	}

	for name, entries := range m.Packages {
		if wheel.Normalize(name) != name {
			return errors.New(errors.ErrCodeInvalidManifest, "package key %q is not normalized", name)
		}
		if err := errors.ValidatePackageName(name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "bad package key %q", name)
		}
		seen := make(map[string]bool, len(entries))
		for _, e := range entries {
			if e.Filename == "" || e.Version == "" || e.ReleaseTag == "" {
				return errors.New(errors.ErrCodeInvalidManifest,
					"package %s has an entry missing filename, version, or release_tag", name)
			}
			if seen[e.Filename] {
				return errors.New(errors.ErrCodeInvalidManifest,
					"package %s lists %s more than once", name, e.Filename)
			}
			seen[e.Filename] = true
		}
	}
	return nil
}
