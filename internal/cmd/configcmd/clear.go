package configcmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mintconv/internal/config"
)

// envVars lists the environment variables that override the config file.
var envVars = []string{"MINTCONV_SOURCE_DIR", "MINTCONV_OUTPUT_DIR", "MINTCONV_JOBS"}

// NewCmdClear creates the config clear command.
func NewCmdClear() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove stored configuration",
		Long:  `Delete the mintconv configuration file. Environment variables will still be used if set.`,
		Example: `  # Clear config
  mintconv config clear`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, noColor := flagValues(cmd)
			return runClear(config.ResolvePath(configPath), noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runClear(configPath string, noColor bool, w io.Writer) error {
	if noColor {
		color.NoColor = true
	}

	err := os.Remove(configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove config file: %w", err)
	}

	green := color.New(color.FgGreen)
	if err != nil {
		_, _ = green.Fprintln(w, "✓ No config file to remove")
	} else {
		_, _ = green.Fprintf(w, "✓ Configuration cleared from %s\n", configPath)
	}

	var active []string
	for _, v := range envVars {
		if os.Getenv(v) != "" {
			active = append(active, v)
		}
	}
	if len(active) > 0 {
		_, _ = color.New(color.Faint).Fprintf(w, "\nNote: Environment variables will still be used: %s\n", strings.Join(active, ", "))
	}

	return nil
}
