// Package configcmd provides config management commands.
package configcmd

import (
	"github.com/spf13/cobra"
)

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage mintconv configuration",
		Long:  `Commands for viewing, checking, and clearing mintconv configuration.`,
	}

	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdTest())
	cmd.AddCommand(NewCmdClear())

	return cmd
}

// flagValues reads the global flags shared by the config subcommands.
func flagValues(cmd *cobra.Command) (configPath string, noColor bool) {
	configPath, _ = cmd.Flags().GetString("config")
	noColor, _ = cmd.Flags().GetBool("no-color")
	return configPath, noColor
}
