package publish

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/knaebel/wheelhouse/pkg/errors"
	"github.com/knaebel/wheelhouse/pkg/integrations/github"
	"github.com/knaebel/wheelhouse/pkg/manifest"
)

// fakeReleaser records calls and simulates the release host in memory.
type fakeReleaser struct {
	releases map[string]*github.Release // keyed by tag
	creates  int
	uploads  []string
	failUp   bool
}

func newFakeReleaser() *fakeReleaser {
	return &fakeReleaser{releases: make(map[string]*github.Release)}
}

func (f *fakeReleaser) GetOrCreateRelease(_ context.Context, owner, repo string, req github.ReleaseRequest) (*github.Release, error) {
	if rel, ok := f.releases[req.TagName]; ok {
		return rel, nil
	}
	f.creates++
	rel := &github.Release{
		ID:      int64(len(f.releases) + 1),
		TagName: req.TagName,
		Name:    req.Name,
	}
	f.releases[req.TagName] = rel
	_ = owner
	_ = repo
	return rel, nil
}

func (f *fakeReleaser) UploadAsset(_ context.Context, rel *github.Release, name string, data []byte) (*github.Asset, error) {
	if f.failUp {
		return nil, fmt.Errorf("upload refused")
	}
	asset := github.Asset{
		ID:                 int64(len(rel.Assets) + 1),
		Name:               name,
		Size:               int64(len(data)),
		BrowserDownloadURL: "https://github.com/owner/repo/releases/download/" + rel.TagName + "/" + name,
	}
	rel.Assets = append(rel.Assets, asset)
	f.uploads = append(f.uploads, name)
	return &rel.Assets[len(rel.Assets)-1], nil
}

func writeWheel(t *testing.T, dir, filename, content string) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testOptions(dir string, wheels ...string) Options {
	return Options{
		Tag:          "v0.8.0",
		Repo:         "owner/repo",
		ManifestPath: filepath.Join(dir, "wheels.json"),
		Wheels:       wheels,
		Output:       filepath.Join(dir, "dist"),
		SiteTitle:    "Test Wheels",
	}
}

func TestRun_PublishesAndRecords(t *testing.T) {
	dir := t.TempDir()
	p1 := writeWheel(t, dir, "gloss_rs-0.8.0-cp311-cp311-manylinux_2_17_x86_64.whl", "wheel one")
	p2 := writeWheel(t, dir, "gloss_rs-0.8.0-cp311-cp311-macosx_11_0_arm64.whl", "wheel two")

	fake := newFakeReleaser()
	runner := NewRunner(fake, nil)

	res, err := runner.Run(context.Background(), testOptions(dir, p1, p2))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Published != 2 || res.Skipped != 0 {
		t.Errorf("published = %d, skipped = %d, want 2, 0", res.Published, res.Skipped)
	}
	if fake.creates != 1 {
		t.Errorf("creates = %d, want 1", fake.creates)
	}
	if len(fake.uploads) != 2 {
		t.Errorf("uploads = %v, want 2 entries", fake.uploads)
	}

	m, err := manifest.Load(filepath.Join(dir, "wheels.json"))
	if err != nil {
		t.Fatal(err)
	}
	if m.Repo != "owner/repo" {
		t.Errorf("manifest repo = %q, want owner/repo", m.Repo)
	}
	entries := m.Packages["gloss-rs"]
	if len(entries) != 2 {
		t.Fatalf("gloss-rs entries = %d, want 2", len(entries))
	}

	wantSum := sha256.Sum256([]byte("wheel one"))
	var got manifest.Entry
	for _, e := range entries {
		if strings.Contains(e.Filename, "manylinux") {
			got = e
		}
	}
	if got.SHA256 != hex.EncodeToString(wantSum[:]) {
		t.Errorf("sha256 = %q, want hash of file contents", got.SHA256)
	}
	if got.SizeBytes != int64(len("wheel one")) {
		t.Errorf("size_bytes = %d, want %d", got.SizeBytes, len("wheel one"))
	}
	if got.ReleaseTag != "v0.8.0" {
		t.Errorf("release_tag = %q, want v0.8.0", got.ReleaseTag)
	}
	if !strings.HasPrefix(got.URL, "https://github.com/owner/repo/releases/download/v0.8.0/") {
		t.Errorf("url = %q, want release download URL", got.URL)
	}
}

func TestRun_GeneratesSite(t *testing.T) {
	dir := t.TempDir()
	p := writeWheel(t, dir, "demo-1.0.0-py3-none-any.whl", "data")

	runner := NewRunner(newFakeReleaser(), nil)
	res, err := runner.Run(context.Background(), testOptions(dir, p))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.SiteCount != 1 {
		t.Errorf("SiteCount = %d, want 1", res.SiteCount)
	}
	if _, err := os.Stat(filepath.Join(dir, "dist", "index.html")); err != nil {
		t.Errorf("root index not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "dist", "demo", "index.html")); err != nil {
		t.Errorf("package page not written: %v", err)
	}
}

func TestRun_SkipSite(t *testing.T) {
	dir := t.TempDir()
	p := writeWheel(t, dir, "demo-1.0.0-py3-none-any.whl", "data")

	opts := testOptions(dir, p)
	opts.SkipSite = true

	runner := NewRunner(newFakeReleaser(), nil)
	res, err := runner.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.SiteCount != -1 {
		t.Errorf("SiteCount = %d, want -1 when skipped", res.SiteCount)
	}
	if _, err := os.Stat(filepath.Join(dir, "dist")); !os.IsNotExist(err) {
		t.Error("dist should not exist when site generation is skipped")
	}
}

func TestRun_RerunIsNoOp(t *testing.T) {
	dir := t.TempDir()
	p := writeWheel(t, dir, "demo-1.0.0-py3-none-any.whl", "data")

	fake := newFakeReleaser()
	runner := NewRunner(fake, nil)
	opts := testOptions(dir, p)

	if _, err := runner.Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	res, err := runner.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if res.Published != 0 || res.Skipped != 1 {
		t.Errorf("published = %d, skipped = %d, want 0, 1", res.Published, res.Skipped)
	}
	if len(fake.uploads) != 1 {
		t.Errorf("uploads = %d, want only the first run's upload", len(fake.uploads))
	}
}

func TestRun_DuplicateUnderDifferentTag(t *testing.T) {
	dir := t.TempDir()
	p := writeWheel(t, dir, "demo-1.0.0-py3-none-any.whl", "data")

	fake := newFakeReleaser()
	runner := NewRunner(fake, nil)
	opts := testOptions(dir, p)

	if _, err := runner.Run(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	opts.Tag = "v0.9.0"
	_, err := runner.Run(context.Background(), opts)
	if err == nil {
		t.Fatal("expected duplicate error")
	}
	if errors.GetCode(err) != errors.ErrCodeDuplicateEntry {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeDuplicateEntry)
	}
	if fake.creates != 1 {
		t.Errorf("creates = %d, release must not be created for a rejected run", fake.creates)
	}
}

func TestRun_ReusesExistingAsset(t *testing.T) {
	dir := t.TempDir()
	p := writeWheel(t, dir, "demo-1.0.0-py3-none-any.whl", "data")

	fake := newFakeReleaser()
	// Simulate an interrupted earlier run: the asset is on the release but
	// the manifest was never written.
	rel, _ := fake.GetOrCreateRelease(context.Background(), "owner", "repo", github.ReleaseRequest{TagName: "v0.8.0"})
	if _, err := fake.UploadAsset(context.Background(), rel, "demo-1.0.0-py3-none-any.whl", []byte("data")); err != nil {
		t.Fatal(err)
	}
	uploadsBefore := len(fake.uploads)

	runner := NewRunner(fake, nil)
	res, err := runner.Run(context.Background(), testOptions(dir, p))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Published != 1 {
		t.Errorf("published = %d, want 1", res.Published)
	}
	if len(fake.uploads) != uploadsBefore {
		t.Error("existing asset should not be re-uploaded")
	}

	m, err := manifest.Load(filepath.Join(dir, "wheels.json"))
	if err != nil {
		t.Fatal(err)
	}
	e, ok := m.Find("demo", "demo-1.0.0-py3-none-any.whl")
	if !ok {
		t.Fatal("entry not recorded")
	}
	if e.URL == "" {
		t.Error("entry must carry the existing asset URL")
	}
}

func TestRun_ValidationFailsBeforeRemoteCalls(t *testing.T) {
	dir := t.TempDir()
	good := writeWheel(t, dir, "demo-1.0.0-py3-none-any.whl", "data")
	bad := writeWheel(t, dir, "not-a-wheel.txt", "data")

	fake := newFakeReleaser()
	runner := NewRunner(fake, nil)

	_, err := runner.Run(context.Background(), testOptions(dir, good, bad))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidWheel {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidWheel)
	}
	if fake.creates != 0 {
		t.Error("no release must be created when validation fails")
	}
}

func TestRun_MissingFile(t *testing.T) {
	dir := t.TempDir()
	runner := NewRunner(newFakeReleaser(), nil)

	_, err := runner.Run(context.Background(), testOptions(dir, filepath.Join(dir, "absent-1.0-py3-none-any.whl")))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.GetCode(err) != errors.ErrCodeFileNotFound {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestRun_RepoConflict(t *testing.T) {
	dir := t.TempDir()
	p := writeWheel(t, dir, "demo-1.0.0-py3-none-any.whl", "data")

	m := manifest.New()
	m.Repo = "someone/else"
	if err := m.Save(filepath.Join(dir, "wheels.json")); err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(newFakeReleaser(), nil)
	_, err := runner.Run(context.Background(), testOptions(dir, p))
	if err == nil {
		t.Fatal("expected repo conflict error")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidInput {
		t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestRun_RepoFromManifest(t *testing.T) {
	dir := t.TempDir()
	p := writeWheel(t, dir, "demo-1.0.0-py3-none-any.whl", "data")

	m := manifest.New()
	m.Repo = "recorded/repo"
	if err := m.Save(filepath.Join(dir, "wheels.json")); err != nil {
		t.Fatal(err)
	}

	opts := testOptions(dir, p)
	opts.Repo = ""

	runner := NewRunner(newFakeReleaser(), nil)
	res, err := runner.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Repo != "recorded/repo" {
		t.Errorf("resolved repo = %q, want recorded/repo", res.Repo)
	}
}

func TestRun_NoRepoAnywhere(t *testing.T) {
	dir := t.TempDir()
	p := writeWheel(t, dir, "demo-1.0.0-py3-none-any.whl", "data")

	opts := testOptions(dir, p)
	opts.Repo = ""

	runner := NewRunner(newFakeReleaser(), nil)
	if _, err := runner.Run(context.Background(), opts); err == nil {
		t.Fatal("expected error when no repo is configured")
	}
}

func TestRun_RequiresTagAndWheels(t *testing.T) {
	runner := NewRunner(newFakeReleaser(), nil)

	if _, err := runner.Run(context.Background(), Options{Wheels: []string{"x.whl"}}); err == nil {
		t.Error("expected error for missing tag")
	}
	if _, err := runner.Run(context.Background(), Options{Tag: "v1"}); err == nil {
		t.Error("expected error for empty wheel list")
	}
}

func TestRun_UploadFailureAborts(t *testing.T) {
	dir := t.TempDir()
	p := writeWheel(t, dir, "demo-1.0.0-py3-none-any.whl", "data")

	fake := newFakeReleaser()
	fake.failUp = true

	runner := NewRunner(fake, nil)
	_, err := runner.Run(context.Background(), testOptions(dir, p))
	if err == nil {
		t.Fatal("expected upload error")
	}

	// The manifest must not record a wheel that failed to upload.
	m, err := manifest.Load(filepath.Join(dir, "wheels.json"))
	if err != nil {
		t.Fatal(err)
	}
	if m.Count() != 0 {
		t.Errorf("manifest count = %d, want 0 after failed upload", m.Count())
	}
}
