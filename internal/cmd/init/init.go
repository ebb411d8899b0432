// Package init provides the init command for mintconv.
package init

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mintconv/internal/config"
)

type initOptions struct {
	sourceDir  string
	outputDir  string
	jobs       int
	noInput    bool
	force      bool
	configPath string
	stdout     io.Writer
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize mintconv configuration",
		Long: `Initialize mintconv for a documentation project.

This command will guide you through choosing the source directory holding
your documents and the directory Mintlify output is written to. The
configuration will be saved to ~/.config/mintconv/config.yml unless
--config is given.`,
		Example: `  # Interactive setup
  mintconv init

  # Non-interactive setup
  mintconv init --source-dir docs --output-dir site --no-input`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.stdout = cmd.OutOrStdout()
			return runInit(opts)
		},
	}

	cmd.Flags().StringVar(&opts.sourceDir, "source-dir", "", "Directory holding the source documents")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory converted documents are written to")
	cmd.Flags().IntVar(&opts.jobs, "jobs", config.DefaultJobs, "Documents converted in parallel")
	cmd.Flags().BoolVar(&opts.noInput, "no-input", false, "Do not prompt; use flag values only")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing configuration without asking")

	return cmd
}

func runInit(opts *initOptions) error {
	configPath := config.ResolvePath(opts.configPath)

	if _, err := os.Stat(configPath); err == nil && !opts.force {
		if opts.noInput {
			return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", configPath)
		}
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(opts.stdout, "Initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{
		SourceDir: opts.sourceDir,
		OutputDir: opts.outputDir,
		Jobs:      opts.jobs,
	}

	if !opts.noInput {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if info, err := os.Stat(cfg.SourceDir); err != nil || !info.IsDir() {
		fmt.Fprintf(opts.stdout, "Warning: source directory %s does not exist yet\n", cfg.SourceDir)
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Fprintf(opts.stdout, "\nConfiguration saved to %s\n", configPath)
	fmt.Fprintln(opts.stdout, "\nYou're all set! Try running:")
	fmt.Fprintln(opts.stdout, "  mintconv convert --project --dry-run")
	fmt.Fprintln(opts.stdout, "  mintconv links")

	return nil
}

func promptConfig(cfg *config.Config) error {
	jobs := strconv.Itoa(cfg.Jobs)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Source directory").
				Description("Where your Markdown documents live").
				Placeholder("docs").
				Value(&cfg.SourceDir).
				Validate(required("source directory")),

			huh.NewInput().
				Title("Output directory").
				Description("Where converted .mdx files are written").
				Placeholder("site").
				Value(&cfg.OutputDir).
				Validate(required("output directory")),

			huh.NewInput().
				Title("Parallel jobs").
				Description("Documents converted at the same time").
				Value(&jobs).
				Validate(validateJobs),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	n, err := strconv.Atoi(jobs)
	if err != nil {
		return err
	}
	cfg.Jobs = n
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateJobs(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return errors.New("jobs must be a positive number")
	}
	return nil
}
