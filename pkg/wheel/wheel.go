// Package wheel parses Python wheel filenames and normalizes package names.
//
// Wheel filenames follow the convention defined by the binary distribution
// format spec:
//
//	<name>-<version>[-<build>]-<python tag>-<abi tag>-<platform tag>.whl
//
// Package names are normalized per PEP 503: lowercased, with runs of
// hyphens, underscores, and dots collapsed to a single hyphen. Normalization
// is idempotent, so normalized names can be re-normalized safely.
package wheel

import (
	"regexp"
	"strings"

	"github.com/knaebel/wheelhouse/pkg/errors"
)

// filenameRegex matches wheel filenames per the binary distribution format.
// The name segment is matched lazily so that versions and tags, which cannot
// contain hyphens, bind correctly.
var filenameRegex = regexp.MustCompile(
	`^(?P<name>.+?)-(?P<version>[^-]+)(?:-(?P<build>\d[^-]*))?-(?P<python>[^-]+)-(?P<abi>[^-]+)-(?P<platform>[^-]+)\.whl$`,
)

// normalizeRegex matches runs of PEP 503 separator characters.
var normalizeRegex = regexp.MustCompile(`[-_.]+`)

// Wheel holds the components parsed from a wheel filename.
type Wheel struct {
	Filename string // Original filename (e.g., "gloss_rs-0.8.0-py3-none-any.whl")
	Name     string // Normalized package name (e.g., "gloss-rs")
	Version  string // Version string as written (e.g., "0.8.0")
	Build    string // Optional build tag (empty if absent)
	Python   string // Python tag (e.g., "py3")
	ABI      string // ABI tag (e.g., "none")
	Platform string // Platform tag (e.g., "any")
}

// Parse extracts the package name, version, and tags from a wheel filename.
// The name component is returned in normalized form.
//
// Returns an INVALID_WHEEL error if the filename does not match the wheel
// naming convention. The filename must be a bare name, not a path.
func Parse(filename string) (*Wheel, error) {
	m := filenameRegex.FindStringSubmatch(filename)
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidWheel, "unrecognized wheel filename: %s", filename)
	}

	w := &Wheel{Filename: filename}
	for i, group := range filenameRegex.SubexpNames() {
		switch group {
		case "name":
			w.Name = Normalize(m[i])
		case "version":
			w.Version = m[i]
		case "build":
			w.Build = m[i]
		case "python":
			w.Python = m[i]
		case "abi":
			w.ABI = m[i]
		case "platform":
			w.Platform = m[i]
		}
	}

	if err := errors.ValidatePythonPackageName(w.Name); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWheel, err, "invalid package name in %s", filename)
	}
	return w, nil
}

// Normalize converts a package name to its canonical form per PEP 503:
// lowercase, with runs of "-", "_", and "." collapsed to a single "-".
// Normalize is idempotent.
func Normalize(name string) string {
	return strings.ToLower(normalizeRegex.ReplaceAllString(name, "-"))
}
