package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knaebel/wheelhouse/pkg/manifest"
)

// manifestCommand creates the manifest inspection command.
func (c *CLI) manifestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Inspect and validate the wheel manifest",
	}

	cmd.AddCommand(c.manifestShowCommand())
	cmd.AddCommand(c.manifestValidateCommand())

	return cmd
}

// manifestShowCommand creates the "manifest show" subcommand.
func (c *CLI) manifestShowCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the manifest contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.manifestPath(cmd, path)
			if err != nil {
				return err
			}
			m, err := manifest.Load(path)
			if err != nil {
				return err
			}

			printKeyValue("Repository", valueOr(m.Repo, "(not set)"))
			printKeyValue("Packages", fmt.Sprintf("%d", len(m.PackageNames())))
			printKeyValue("Wheels", fmt.Sprintf("%d", m.Count()))

			for _, name := range m.PackageNames() {
				fmt.Println()
				printInfo("%s", name)
				for _, e := range m.Packages[name] {
					printDetail("%s  %s  (%s)", e.Version, e.Filename, e.ReleaseTag)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "manifest", "m", "", "manifest file path")
	return cmd
}

// manifestValidateCommand creates the "manifest validate" subcommand.
func (c *CLI) manifestValidateCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the manifest for structural problems",
		Long: `Check the manifest for structural problems: malformed JSON, missing
required fields, package keys that are not normalized, and duplicate
filenames. Exits non-zero if the manifest is invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.manifestPath(cmd, path)
			if err != nil {
				return err
			}
			m, err := manifest.Load(path)
			if err != nil {
				return err
			}
			printSuccess("Manifest is valid")
			printDetail("%d wheels across %d packages", m.Count(), len(m.PackageNames()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "manifest", "m", "", "manifest file path")
	return cmd
}

// manifestPath resolves the manifest path from the flag or the config file.
func (c *CLI) manifestPath(cmd *cobra.Command, flagValue string) (string, error) {
	if cmd.Flags().Changed("manifest") {
		return flagValue, nil
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.Manifest, nil
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
