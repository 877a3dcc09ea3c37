package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The configuration is loaded in PersistentPreRunE, so every subcommand sees
// c.Config with files and environment applied. Callers that wrap
// PersistentPreRunE must chain to the original.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Waterfall lays out and renders bridge charts",
		Long:         `Waterfall turns a sequence of deltas, or layered programme data, into bridge (waterfall) charts. It prepares bars, lays them out and renders SVG, JSON, PNG, PDF and Graphviz output, and can serve live chart sessions over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().String("config", "", "config file (default ~/.config/waterfall/config.yaml)")
	_ = c.viper.BindPFlag("config", root.PersistentFlags().Lookup("config"))

	root.AddCommand(c.prepareCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
