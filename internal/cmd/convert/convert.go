// Package convert provides the convert command.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mintconv/internal/batch"
	"github.com/open-cli-collective/mintconv/internal/config"
	"github.com/open-cli-collective/mintconv/internal/logger"
	"github.com/open-cli-collective/mintconv/internal/view"
)

type convertOptions struct {
	outDir    string
	project   bool
	dryRun    bool
	diff      bool
	jobs      int
	include   []string
	exclude   []string
	failFast  bool
	keepLinks bool

	configPath string
	output     string
	noColor    bool
	verbose    bool
	quiet      bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewCmdConvert creates the convert command.
func NewCmdConvert() *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert [paths...]",
		Short: "Convert documents to Mintlify Markdown",
		Long: `Convert documents written in the extended Markdown dialect (tabs,
admonitions, conditional blocks, heading anchors) to Mintlify Markdown.

Each path may be a file or a directory. Directories are scanned for .md
files and mirrored under the output directory. With no paths the document
is read from stdin and written to stdout.`,
		Example: `  # Convert a single document to stdout
  mintconv convert < docs/index.md

  # Convert a tree
  mintconv convert docs --out-dir site

  # Convert the configured source_dir into output_dir
  mintconv convert --project

  # Preview what would change
  mintconv convert docs -d site --dry-run --diff`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.verbose, _ = cmd.Flags().GetBool("verbose")
			opts.quiet, _ = cmd.Flags().GetBool("quiet")
			opts.stdin = cmd.InOrStdin()
			opts.stdout = cmd.OutOrStdout()
			opts.stderr = cmd.ErrOrStderr()
			return runConvert(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "d", "", "Output directory (default: output_dir from config)")
	cmd.Flags().BoolVarP(&opts.project, "project", "p", false, "Convert the configured source_dir")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Convert without writing any files")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "Show a unified diff against existing output")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "Documents converted in parallel (default: jobs from config)")
	cmd.Flags().StringSliceVar(&opts.include, "include", nil, "Only convert documents matching these globs")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "Skip documents and directories matching these globs")
	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "Stop at the first document that fails")
	cmd.Flags().BoolVar(&opts.keepLinks, "keep-links", false, "Keep .md/.mdx suffixes on relative links")

	return cmd
}

func runConvert(ctx context.Context, args []string, opts *convertOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadWithEnv(config.ResolvePath(opts.configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Include = append(cfg.Include, opts.include...)
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
	log := logger.ForFlags(opts.stderr, opts.verbose, opts.quiet)
	log.ConfigLoaded(config.ResolvePath(opts.configPath), cfg.SourceDir, cfg.OutputDir)

	bopts := batch.Options{
		OutputDir:    firstNonEmpty(opts.outDir, cfg.OutputDir),
		OutputExt:    cfg.OutputExt,
		Jobs:         cfg.Jobs,
		DryRun:       opts.dryRun,
		Diff:         opts.diff,
		KeepLinks:    opts.keepLinks,
		LinkSuffixes: cfg.DropLinkSuffixes,
		FailFast:     opts.failFast,
	}
	if opts.jobs > 0 {
		bopts.Jobs = opts.jobs
	}
	converter := batch.NewConverter(bopts)
	converter.SetLogger(log)

	if opts.project {
		if cfg.SourceDir == "" {
			return errors.New("no source_dir configured (run 'mintconv init' to configure)")
		}
		args = append(args, cfg.SourceDir)
	}

	if len(args) == 0 {
		return convertStream(converter, opts)
	}

	if bopts.OutputDir == "" {
		return errors.New("no output directory: pass --out-dir or set output_dir in the config")
	}

	var jobs []batch.Job
	for _, arg := range args {
		found, err := collectJobs(arg, bopts.OutputDir, cfg.Include, cfg.Exclude)
		if err != nil {
			return err
		}
		jobs = append(jobs, found...)
	}
	if len(jobs) == 0 {
		log.Warn("no documents found", "paths", strings.Join(args, ","))
		return nil
	}

	if err := converter.CheckDests(jobs); err != nil {
		return err
	}

	report, runErr := converter.Run(ctx, jobs)
	if err := renderReport(report, opts); err != nil {
		return err
	}
	if errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if runErr != nil {
		return fmt.Errorf("%d of %d documents failed", len(report.Failed()), len(jobs))
	}
	return nil
}

// convertStream converts stdin to stdout.
func convertStream(converter *batch.Converter, opts *convertOptions) error {
	data, err := io.ReadAll(opts.stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	out, _, err := converter.Convert(string(data), "<stdin>")
	if err != nil {
		return err
	}
	_, err = io.WriteString(opts.stdout, out)
	return err
}

// collectJobs expands a file or directory argument into jobs. A directory
// scan skips the output directory when it lies inside the scanned tree.
func collectJobs(arg, outDir string, include, exclude []string) ([]batch.Job, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", arg, err)
	}
	if !info.IsDir() {
		return []batch.Job{{Source: arg, Rel: filepath.Base(arg)}}, nil
	}

	if rel, err := filepath.Rel(arg, outDir); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		exclude = append(exclude, filepath.ToSlash(rel))
	}
	return batch.Discover(arg, include, exclude)
}

type resultView struct {
	Source         string `json:"source"`
	Dest           string `json:"dest"`
	Title          string `json:"title,omitempty"`
	Status         string `json:"status"`
	LinksRewritten int    `json:"links_rewritten"`
	Error          string `json:"error,omitempty"`
	Diff           string `json:"diff,omitempty"`
}

func status(res batch.Result, dryRun bool) string {
	switch {
	case res.Err != nil:
		return "failed"
	case res.Skipped:
		return "skipped"
	case !res.Changed:
		return "unchanged"
	case dryRun:
		return "would write"
	default:
		return "written"
	}
}

func renderReport(report *batch.Report, opts *convertOptions) error {
	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.stdout)

	views := make([]resultView, 0, len(report.Results))
	for _, res := range report.Results {
		v := resultView{
			Source:         res.Source,
			Dest:           res.Dest,
			Title:          res.Title,
			Status:         status(res, opts.dryRun),
			LinksRewritten: res.LinksRewritten,
			Diff:           res.Diff,
		}
		if res.Err != nil {
			v.Error = res.Err.Error()
		}
		views = append(views, v)
	}

	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(views)
	}

	for _, v := range views {
		if v.Diff != "" {
			renderer.RenderText(v.Diff)
		}
	}

	headers := []string{"SOURCE", "DEST", "TITLE", "STATUS"}
	var rows [][]string
	for _, v := range views {
		rows = append(rows, []string{v.Source, v.Dest, view.Truncate(v.Title, 40), v.Status})
	}
	renderer.RenderTable(headers, rows)

	if renderer.Format() == view.FormatPlain {
		return nil
	}
	for _, v := range views {
		if v.Error != "" {
			renderer.Error(v.Error)
		}
	}
	if failed := len(report.Failed()); failed == 0 {
		renderer.Success(fmt.Sprintf("Converted %d documents", report.Converted()))
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
