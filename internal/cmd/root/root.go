// Package root provides the root command for the mintconv CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mintconv/internal/cmd/completion"
	"github.com/open-cli-collective/mintconv/internal/cmd/configcmd"
	"github.com/open-cli-collective/mintconv/internal/cmd/convert"
	initcmd "github.com/open-cli-collective/mintconv/internal/cmd/init"
	"github.com/open-cli-collective/mintconv/internal/cmd/links"
	"github.com/open-cli-collective/mintconv/internal/cmd/mv"
	"github.com/open-cli-collective/mintconv/internal/cmd/tokens"
	"github.com/open-cli-collective/mintconv/internal/version"
)

// NewCmdRoot creates the root command for mintconv.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mintconv",
		Short: "Convert extended Markdown documentation to Mintlify",
		Long: `mintconv converts documentation written in an extended Markdown dialect
(content tabs, admonitions, language-conditional blocks, heading anchors)
into Mintlify Markdown.

Get started by running: mintconv init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/mintconv/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: table, json, plain (default: output_format from config, else table)")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "log every document")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "log errors only")

	cmd.SetVersionTemplate(version.String() + "\n")

	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(convert.NewCmdConvert())
	cmd.AddCommand(tokens.NewCmdTokens())
	cmd.AddCommand(links.NewCmdLinks())
	cmd.AddCommand(mv.NewCmdMv())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
