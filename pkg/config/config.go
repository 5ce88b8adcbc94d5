// Package config loads optional wheelhouse.toml configuration.
//
// Every field has a working default, so the file is only needed to override
// paths or site presentation:
//
//	repo = "owner/name"
//	manifest = "wheels.json"
//	output = "dist"
//
//	[site]
//	title = "Python Wheels"
//	base_url = "https://whl.example.dev/"
//
// Command-line flags take precedence over file values.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/knaebel/wheelhouse/pkg/errors"
	"github.com/knaebel/wheelhouse/pkg/manifest"
)

// DefaultFilename is the config file looked up in the working directory.
const DefaultFilename = "wheelhouse.toml"

// Site holds presentation settings for the generated index.
type Site struct {
	Title   string `toml:"title"`
	BaseURL string `toml:"base_url"`
}

// Config holds tool-wide settings.
type Config struct {
	Repo     string `toml:"repo"`
	Manifest string `toml:"manifest"`
	Output   string `toml:"output"`
	Site     Site   `toml:"site"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Manifest: manifest.DefaultName,
		Output:   "dist",
		Site: Site{
			Title: "Python Wheels",
		},
	}
}

// Load reads the config file at path, falling back to defaults for any field
// the file omits. A missing file is not an error; a malformed file or an
// invalid repo value is an INVALID_CONFIG error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	if cfg.Manifest == "" {
		cfg.Manifest = manifest.DefaultName
	}
	if cfg.Output == "" {
		cfg.Output = "dist"
	}
	if cfg.Repo != "" {
		if err := errors.ValidateRepo(cfg.Repo); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "bad repo in %s", path)
		}
	}
	if cfg.Site.BaseURL != "" {
		if err := errors.ValidateURL(cfg.Site.BaseURL); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "bad site.base_url in %s", path)
		}
	}
	return cfg, nil
}
