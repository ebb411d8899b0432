// Package links provides the links command.
package links

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mintconv/internal/batch"
	"github.com/open-cli-collective/mintconv/internal/config"
	"github.com/open-cli-collective/mintconv/internal/logger"
	"github.com/open-cli-collective/mintconv/internal/view"
	"github.com/open-cli-collective/mintconv/pkg/md"
)

type linksOptions struct {
	exclude []string

	configPath string
	output     string
	noColor    bool
	verbose    bool
	quiet      bool

	stdout io.Writer
	stderr io.Writer
}

// BrokenLink is a relative link whose target does not exist.
type BrokenLink struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Link string `json:"link"`
}

// NewCmdLinks creates the links command.
func NewCmdLinks() *cobra.Command {
	opts := &linksOptions{}

	cmd := &cobra.Command{
		Use:   "links [dir]",
		Short: "Report broken relative links",
		Long: `Scan a documentation tree and report relative links whose target does
not exist. A link resolves when the target exists as written, with a
.md or .mdx suffix, or as a directory holding an index.md.

Links inside code blocks and raw HTML are ignored. With no directory the
configured source_dir is scanned. The command exits non-zero when any
broken link is found.`,
		Example: `  # Check the configured source tree
  mintconv links

  # Check a tree, skipping generated reference pages
  mintconv links docs --exclude reference`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.verbose, _ = cmd.Flags().GetBool("verbose")
			opts.quiet, _ = cmd.Flags().GetBool("quiet")
			opts.stdout = cmd.OutOrStdout()
			opts.stderr = cmd.ErrOrStderr()

			root := ""
			if len(args) == 1 {
				root = args[0]
			}
			return runLinks(root, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "Skip documents and directories matching these globs")

	return cmd
}

func runLinks(root string, opts *linksOptions) error {
	cfg, err := config.LoadWithEnv(config.ResolvePath(opts.configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Exclude = append(cfg.Exclude, opts.exclude...)
	if err := cfg.ValidateOptions(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if opts.output == "" {
		opts.output = cfg.OutputFormat
	}
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}
	if root == "" {
		root = cfg.SourceDir
	}
	if root == "" {
		return errors.New("no directory given and no source_dir configured")
	}
	log := logger.ForFlags(opts.stderr, opts.verbose, opts.quiet)

	jobs, err := batch.Discover(root, cfg.Include, cfg.Exclude)
	if err != nil {
		return err
	}

	var broken []BrokenLink
	var parseFailures int
	for _, job := range jobs {
		found, err := checkDocument(job)
		if err != nil {
			log.DocumentFailed(job.Source, err)
			parseFailures++
			continue
		}
		broken = append(broken, found...)
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.stdout)

	if renderer.Format() == view.FormatJSON {
		if broken == nil {
			broken = []BrokenLink{}
		}
		if err := renderer.RenderJSON(broken); err != nil {
			return err
		}
	} else {
		if len(broken) > 0 {
			rows := make([][]string, 0, len(broken))
			for _, b := range broken {
				rows = append(rows, []string{b.File, strconv.Itoa(b.Line), b.Link})
			}
			renderer.RenderTable([]string{"FILE", "LINE", "LINK"}, rows)
		}
		if renderer.Format() == view.FormatTable {
			if len(broken) == 0 {
				renderer.Success(fmt.Sprintf("No broken links found in %d documents", len(jobs)))
			} else {
				renderer.Warning(fmt.Sprintf("%d broken links found.", len(broken)))
			}
		}
	}

	switch {
	case len(broken) > 0:
		return fmt.Errorf("%d broken links found", len(broken))
	case parseFailures > 0:
		return fmt.Errorf("%d documents could not be parsed", parseFailures)
	}
	return nil
}

// checkDocument parses one document and returns its unresolvable links.
func checkDocument(job batch.Job) ([]BrokenLink, error) {
	data, err := os.ReadFile(job.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	doc, err := md.Parse(string(data))
	if err != nil {
		var perr *md.ParseError
		if errors.As(err, &perr) {
			return nil, perr.WithFile(job.Source)
		}
		return nil, err
	}
	links, err := md.ExtractLinks(doc)
	if err != nil {
		return nil, err
	}

	var broken []BrokenLink
	for _, link := range links {
		if !md.IsRelativeLink(link.Destination) {
			continue
		}
		target, _, _ := strings.Cut(link.Destination, "#")
		if target == "" {
			continue
		}
		if !resolves(filepath.Join(filepath.Dir(job.Source), filepath.FromSlash(target))) {
			broken = append(broken, BrokenLink{File: job.Rel, Line: link.Line, Link: link.Destination})
		}
	}
	return broken, nil
}

func resolves(target string) bool {
	for _, candidate := range []string{target, target + ".md", target + ".mdx"} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return true
		}
	}
	_, err := os.Stat(filepath.Join(target, "index.md"))
	return err == nil
}
