package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/yardbook/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Yardbook places golf holes onto yardage book pages",
		Long: `Yardbook rotates, scales and positions every hole of a course drawing so it
fits the page of a yardage book, and copies each green into an enlarged detail
view. Documents are JSON scene trees; results render to SVG, PDF and JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/yardbook/config.toml)")

	root.AddCommand(c.placeCommand())
	root.AddCommand(c.measureCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
