package configcmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mintconv/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the effective mintconv configuration with the source of each value.`,
		Example: `  # Show current config
  mintconv config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, noColor := flagValues(cmd)
			return runShow(config.ResolvePath(configPath), noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runShow(configPath string, noColor bool, w io.Writer) error {
	if noColor {
		color.NoColor = true
	}

	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	// source is the env var that supplied value, "config" when the file
	// did, and "default" otherwise.
	printField := func(label, value, fileValue, envVar string) {
		_, _ = bold.Fprintf(w, "%-14s", label+":")
		if value == "" {
			_, _ = dim.Fprintln(w, "-")
			return
		}
		fmt.Fprint(w, value)

		source := "default"
		switch {
		case envVar != "" && os.Getenv(envVar) != "" && value == os.Getenv(envVar):
			source = envVar
		case fileErr == nil && fileValue == value:
			source = "config"
		}
		_, _ = dim.Fprintf(w, "  (source: %s)\n", source)
	}

	fileJobs := ""
	if fileCfg.Jobs != 0 {
		fileJobs = strconv.Itoa(fileCfg.Jobs)
	}

	printField("Source dir", cfg.SourceDir, fileCfg.SourceDir, "MINTCONV_SOURCE_DIR")
	printField("Output dir", cfg.OutputDir, fileCfg.OutputDir, "MINTCONV_OUTPUT_DIR")
	printField("Output ext", cfg.OutputExt, fileCfg.OutputExt, "")
	printField("Jobs", strconv.Itoa(cfg.Jobs), fileJobs, "MINTCONV_JOBS")
	printField("Include", strings.Join(cfg.Include, ", "), strings.Join(fileCfg.Include, ", "), "")
	printField("Exclude", strings.Join(cfg.Exclude, ", "), strings.Join(fileCfg.Exclude, ", "), "")
	printField("Link suffixes", strings.Join(cfg.DropLinkSuffixes, ", "), strings.Join(fileCfg.DropLinkSuffixes, ", "), "")

	fmt.Fprintln(w)
	_, _ = dim.Fprintf(w, "Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}
