// Package mv provides the mv command.
package mv

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mintconv/internal/batch"
	"github.com/open-cli-collective/mintconv/internal/config"
	"github.com/open-cli-collective/mintconv/internal/logger"
	"github.com/open-cli-collective/mintconv/internal/view"
)

type mvOptions struct {
	root   string
	dryRun bool

	configPath string
	output     string
	noColor    bool
	verbose    bool
	quiet      bool

	stdout io.Writer
	stderr io.Writer
}

// NewCmdMv creates the mv command.
func NewCmdMv() *cobra.Command {
	opts := &mvOptions{}

	cmd := &cobra.Command{
		Use:   "mv <old> <new>",
		Short: "Move a document and update links to it",
		Long: `Move a document within the documentation tree and rewrite every
relative link that pointed at it. Links inside the moved document are
adjusted for its new directory as well. Both .md and .mdx documents are
scanned.

The tree defaults to the configured source_dir.`,
		Example: `  # Move a page into a new section
  mintconv mv docs/setup.md docs/guide/setup.md

  # Preview the link changes without touching any file
  mintconv mv docs/setup.md docs/guide/setup.md --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.verbose, _ = cmd.Flags().GetBool("verbose")
			opts.quiet, _ = cmd.Flags().GetBool("quiet")
			opts.stdout = cmd.OutOrStdout()
			opts.stderr = cmd.ErrOrStderr()
			return runMv(args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.root, "root", "", "Documentation tree to update (default: source_dir from config)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show the link changes without moving or writing anything")

	return cmd
}

func runMv(oldPath, newPath string, opts *mvOptions) error {
	cfg, err := config.LoadWithEnv(config.ResolvePath(opts.configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.output == "" {
		opts.output = cfg.OutputFormat
	}
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}
	root := opts.root
	if root == "" {
		root = cfg.SourceDir
	}
	if root == "" {
		return errors.New("no --root given and no source_dir configured")
	}

	log := logger.ForFlags(opts.stderr, opts.verbose, opts.quiet)
	moved, err := batch.Move(oldPath, newPath, batch.MoveOptions{Root: root, DryRun: opts.dryRun}, log)
	if err != nil {
		return err
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.stdout)

	if renderer.Format() == view.FormatJSON {
		if moved == nil {
			moved = []batch.MovedLink{}
		}
		return renderer.RenderJSON(moved)
	}

	if len(moved) > 0 {
		rows := make([][]string, 0, len(moved))
		for _, m := range moved {
			rows = append(rows, []string{m.File, m.Old, m.New})
		}
		renderer.RenderTable([]string{"FILE", "OLD", "NEW"}, rows)
	}
	if renderer.Format() == view.FormatPlain {
		return nil
	}
	if opts.dryRun {
		renderer.Warning(fmt.Sprintf("Dry run: would move %s to %s and update %d links", oldPath, newPath, len(moved)))
		return nil
	}
	renderer.Success(fmt.Sprintf("Moved %s to %s, updated %d links", oldPath, newPath, len(moved)))
	return nil
}
