package configcmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mintconv/internal/batch"
	"github.com/open-cli-collective/mintconv/internal/config"
)

// NewCmdTest creates the config test command.
func NewCmdTest() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Check the configured directories",
		Long: `Check that the configuration is valid, that source_dir exists and holds
documents, and that output_dir can be created.`,
		Example: `  # Check configuration
  mintconv config test`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, noColor := flagValues(cmd)
			return runTest(config.ResolvePath(configPath), noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runTest(configPath string, noColor bool, w io.Writer) error {
	if noColor {
		color.NoColor = true
	}

	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w (run 'mintconv init' to configure)", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w (run 'mintconv init' to configure)", err)
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	info, err := os.Stat(cfg.SourceDir)
	if err != nil || !info.IsDir() {
		_, _ = red.Fprintf(w, "✗ Source directory not found: %s\n", cfg.SourceDir)
		return fmt.Errorf("source directory %s does not exist", cfg.SourceDir)
	}

	jobs, err := batch.Discover(cfg.SourceDir, cfg.Include, cfg.Exclude)
	if err != nil {
		_, _ = red.Fprintf(w, "✗ Cannot scan source directory: %v\n", err)
		return err
	}
	_, _ = green.Fprintf(w, "✓ Source directory %s holds %d documents\n", cfg.SourceDir, len(jobs))

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		_, _ = red.Fprintf(w, "✗ Output directory not writable: %s\n", cfg.OutputDir)
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	_, _ = green.Fprintf(w, "✓ Output directory %s is ready\n", cfg.OutputDir)

	return nil
}
