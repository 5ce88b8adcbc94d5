// Package cli implements the wheelhouse command-line interface.
package cli

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/knaebel/wheelhouse/pkg/buildinfo"
	"github.com/knaebel/wheelhouse/pkg/config"
	"github.com/knaebel/wheelhouse/pkg/errors"
	"github.com/knaebel/wheelhouse/pkg/httputil"
	"github.com/knaebel/wheelhouse/pkg/integrations/github"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "wheelhouse"

	// defaultCacheTTL is how long cached GitHub release lookups stay fresh.
	defaultCacheTTL = 15 * time.Minute
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Wheelhouse publishes Python wheels to GitHub releases and builds a pip index",
		Long:         `Wheelhouse turns a GitHub repository into a lightweight Python package index: it uploads wheel files as release assets, records them in a JSON manifest, and generates a static site that pip can consume via --find-links.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", config.DefaultFilename, "path to the config file")

	// Register all subcommands
	root.AddCommand(c.publishCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.manifestCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// loadConfig reads the config file named by --config. A missing file yields
// the built-in defaults, so running without a wheelhouse.toml is fine.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("config loaded", "path", c.configPath, "repo", cfg.Repo)
	return cfg, nil
}

// newGitHubClient builds the release client from the GITHUB_TOKEN environment
// variable. Release lookups are cached on disk under the app cache directory.
func (c *CLI) newGitHubClient() (*github.Client, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, errors.New(errors.ErrCodeUnauthorized, "GITHUB_TOKEN not set")
	}

	dir, err := httputil.DefaultDir()
	if err != nil {
		// Fall back to an uncached client rather than failing the command.
		c.Logger.Warn("cache directory unavailable, running uncached", "err", err)
		return github.NewClientWithCache(token, nil), nil
	}
	cache, err := httputil.NewCache(dir, defaultCacheTTL)
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return github.NewClientWithCache(token, nil), nil
	}
	return github.NewClientWithCache(token, cache), nil
}
