package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knaebel/wheelhouse/pkg/publish"
)

// publishOpts holds the command-line flags for the publish command.
type publishOpts struct {
	tag      string // release tag (required)
	title    string // release title, defaults to the tag
	notes    string // release notes body
	repo     string // owner/name override
	manifest string // manifest path override
	output   string // site output directory override
	skipSite bool   // skip regenerating the static site
}

// publishCommand creates the publish command.
func (c *CLI) publishCommand() *cobra.Command {
	var opts publishOpts

	cmd := &cobra.Command{
		Use:   "publish --tag <tag> <wheel>...",
		Short: "Upload wheels to a GitHub release and record them in the manifest",
		Long: `Upload wheel files as assets of a GitHub release, record them in the
JSON manifest, and regenerate the static index.

The release is created if it does not exist yet. Wheels already recorded
under the same tag are skipped, so re-running after an interrupted publish
is safe. Requires the GITHUB_TOKEN environment variable.

Examples:
  wheelhouse publish --tag v0.8.0 dist/*.whl
  wheelhouse publish --tag v0.8.0 --repo owner/name --notes "Bugfix release" pkg.whl
  wheelhouse publish --tag v0.8.0 --skip-site pkg.whl`,
		Args: cobra.MinimumNArgs(1),
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
			repo := opts.repo
			if repo == "" {
				repo = cfg.Repo
			}

			client, err := c.newGitHubClient()
			if err != nil {
				return err
			}

			spin := newSpinner(cmd.Context(), fmt.Sprintf("Publishing %d wheels", len(args)))
			spin.Start()

			runner := publish.NewRunner(client, c.Logger)
			res, err := runner.Run(cmd.Context(), publish.Options{
				Tag:          opts.tag,
				Title:        opts.title,
				Notes:        opts.notes,
				Repo:         repo,
				ManifestPath: manifestPath,
				Wheels:       args,
				SkipSite:     opts.skipSite,
				Output:       output,
				SiteTitle:    cfg.Site.Title,
				SiteBaseURL:  cfg.Site.BaseURL,
			})
			spin.Stop()
			if err != nil {
				return err
			}

			switch {
			case res.Published == 0 && res.Skipped > 0:
				printInfo("Nothing to do, all %d wheels already published under %s", res.Skipped, opts.tag)
			case res.Skipped > 0:
				printSuccess("Published %d wheels to %s (%d already present)", res.Published, res.Repo, res.Skipped)
			default:
				printSuccess("Published %d wheels to %s", res.Published, res.Repo)
			}
			printDetail("Release: %s", opts.tag)
			printFile(manifestPath)
			if res.SiteCount >= 0 {
				printFile(output)
				printNextStep("Preview the index", fmt.Sprintf("wheelhouse serve --dir %s", output))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.tag, "tag", "t", "", "release tag (required)")
	cmd.Flags().StringVar(&opts.title, "title", "", "release title (defaults to the tag)")
	cmd.Flags().StringVar(&opts.notes, "notes", "", "release notes body")
	cmd.Flags().StringVarP(&opts.repo, "repo", "r", "", "GitHub repository as owner/name")
	cmd.Flags().StringVarP(&opts.manifest, "manifest", "m", "", "manifest file path")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "site output directory")
	cmd.Flags().BoolVar(&opts.skipSite, "skip-site", false, "do not regenerate the static site")
	_ = cmd.MarkFlagRequired("tag")

	return cmd
}
