// Package site renders the static find-links index from a wheel manifest.
//
// The output is a plain directory tree servable by any static web host:
//
//	dist/
//	  index.html          all packages, all wheels (find-links root)
//	  gloss-rs/
//	    index.html        wheels for one package
//
// Each wheel is an anchor whose href points at the release asset, with the
// sha256 of the file carried in the URL fragment so pip verifies downloads:
//
//	<a href="https://.../gloss_rs-0.8.0-py3-none-any.whl#sha256=...">gloss_rs-0.8.0-py3-none-any.whl</a>
//
// The tree satisfies pip's page-scraping convention: `GET /<package>/`
// returns a page listing that package's wheels, and the root page lists
// everything so `pip install --no-index --find-links <site-root> pkg==ver`
// resolves without touching a package index.
//
// Output is deterministic: packages are sorted lexicographically and entries
// by (version, filename), so an unchanged manifest renders to byte-identical
// files on every run.
package site

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/knaebel/wheelhouse/pkg/errors"
	"github.com/knaebel/wheelhouse/pkg/manifest"
	"github.com/knaebel/wheelhouse/pkg/observability"
)

// Builder renders a manifest into a static site directory.
type Builder struct {
	Title   string // Page title for the root index
	BaseURL string // Public site URL shown in the pip usage hint (optional)
}

// pageWheel is one rendered wheel link.
type pageWheel struct {
	Filename string
	Href     string
	Version  string
	Size     string
}

// pagePackage groups the wheels of one package.
type pagePackage struct {
	Name   string
	Wheels []pageWheel
}

type indexData struct {
	Title    string
	BaseURL  string
	Packages []pagePackage
}

type packageData struct {
	Title   string
	Package pagePackage
}

// Build renders the manifest into outDir and returns the number of wheels
// written. The directory is removed and fully recreated on every run; the
// site is a derived artifact with no state of its own.
func (b *Builder) Build(ctx context.Context, m *manifest.Manifest, outDir string) (int, error) {
	start := time.Now()
	count, pages, err := b.build(m, outDir)
	observability.Site().OnBuildComplete(ctx, outDir, pages, count, time.Since(start), err)
	return count, err
}

func (b *Builder) build(m *manifest.Manifest, outDir string) (count, pages int, err error) {
	if m.Count() > 0 {
		if err := errors.ValidateRepo(m.Repo); err != nil {
			return 0, 0, errors.Wrap(errors.ErrCodeInvalidManifest, err, "manifest must include a non-empty repo field")
		}
	}
	m.Sort()

	packages := b.collect(m)

	if err := os.RemoveAll(outDir); err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInternal, err, "clear %s", outDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInternal, err, "create %s", outDir)
	}

	title := b.Title
	if title == "" {
		title = "Python Wheels"
	}

	if err := renderFile(filepath.Join(outDir, "index.html"), indexTemplate, indexData{
		Title:    title,
		BaseURL:  b.BaseURL,
		Packages: packages,
	}); err != nil {
		return 0, 0, err
	}
	pages = 1

	for _, pkg := range packages {
		dir := filepath.Join(outDir, pkg.Name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, 0, errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
		}
		if err := renderFile(filepath.Join(dir, "index.html"), packageTemplate, packageData{
			Title:   title,
			Package: pkg,
		}); err != nil {
			return 0, 0, err
		}
		count += len(pkg.Wheels)
		pages++
	}
	return count, pages, nil
}

// collect converts the manifest into render-ready page data in stable order.
func (b *Builder) collect(m *manifest.Manifest) []pagePackage {
	var packages []pagePackage
	for _, name := range m.PackageNames() {
		pkg := pagePackage{Name: name}
		for _, e := range m.Packages[name] {
			href := m.DownloadURL(e)
			if e.SHA256 != "" {
				href = fmt.Sprintf("%s#sha256=%s", href, e.SHA256)
			}
			pkg.Wheels = append(pkg.Wheels, pageWheel{
				Filename: e.Filename,
				Href:     href,
				Version:  e.Version,
				Size:     humanBytes(e.SizeBytes),
			})
		}
		packages = append(packages, pkg)
	}
	return packages
}

func renderFile(path string, tmpl *template.Template, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "render %s", path)
	}
	return nil
}

// humanBytes formats a byte count with a single decimal place, except for
// plain bytes which render as integers ("734 B", "1.2 KB", "3.4 MB").
func humanBytes(value int64) string {
	suffixes := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(value)
	for i, suffix := range suffixes {
		if size < 1024 || i == len(suffixes)-1 {
			if suffix == "B" {
				return fmt.Sprintf("%d B", int64(size))
			}
			return fmt.Sprintf("%.1f %s", size, suffix)
		}
		size /= 1024
	}
	return fmt.Sprintf("%d B", value)
}
