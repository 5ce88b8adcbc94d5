package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knaebel/wheelhouse/pkg/manifest"
	"github.com/knaebel/wheelhouse/pkg/site"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	manifest string // manifest path override
	output   string // output directory override
	title    string // root index title override
	baseURL  string // public site URL override
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the static pip index from the manifest",
		Long: `Generate the static HTML index from the wheel manifest.

The output directory is replaced wholesale, so it always mirrors exactly
what the manifest records. The result works with pip's --find-links:

  pip install <package> --find-links <site-url>

Examples:
  wheelhouse generate
  wheelhouse generate --manifest wheels.json --output public
  wheelhouse generate --base-url https://example.github.io/wheels/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			manifestPath := cfg.Manifest
			if cmd.Flags().Changed("manifest") {
				manifestPath = opts.manifest
			}
			output := cfg.Output
			if cmd.Flags().Changed("output") {
				output = opts.output
			}
			title := cfg.Site.Title
			if cmd.Flags().Changed("title") {
				title = opts.title
			}
			baseURL := cfg.Site.BaseURL
			if cmd.Flags().Changed("base-url") {
				baseURL = opts.baseURL
			}

			m, err := manifest.Load(manifestPath)
			if err != nil {
				return err
			}

			builder := &site.Builder{Title: title, BaseURL: baseURL}
			count, err := builder.Build(cmd.Context(), m, output)
			if err != nil {
				return err
			}

			printSuccess("Generated index for %d wheels across %d packages", count, len(m.PackageNames()))
			printFile(output)
			printNextStep("Preview the index", fmt.Sprintf("wheelhouse serve --dir %s", output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.manifest, "manifest", "m", "", "manifest file path")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory")
	cmd.Flags().StringVar(&opts.title, "title", "", "root index title")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "public URL of the site, shown in the pip hint")

	return cmd
}
