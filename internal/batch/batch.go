// Package batch converts trees of documents to Mintlify Markdown.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"golang.org/x/sync/errgroup"

	"github.com/open-cli-collective/mintconv/internal/logger"
	"github.com/open-cli-collective/mintconv/pkg/md"
)

// ErrDestConflict is returned when two jobs map to the same output file.
var ErrDestConflict = errors.New("output path conflict")

// Job is one document to convert.
type Job struct {
	// Source is the path the document is read from.
	Source string
	// Rel is the slash-separated path relative to the source root. The
	// output path mirrors it under the output directory.
	Rel string
}

// Options controls a batch run.
type Options struct {
	OutputDir    string
	OutputExt    string
	Jobs         int
	DryRun       bool
	Diff         bool
	KeepLinks    bool
	LinkSuffixes []string
	FailFast     bool
}

// Result records the outcome for a single document.
type Result struct {
	Source         string `json:"source"`
	Dest           string `json:"dest"`
	Title          string `json:"title,omitempty"`
	Changed        bool   `json:"changed"`
	Skipped        bool   `json:"skipped,omitempty"`
	LinksRewritten int    `json:"links_rewritten"`
	Diff           string `json:"diff,omitempty"`
	Err            error  `json:"-"`
}

// Report summarizes a batch run. Results are in job order.
type Report struct {
	Results  []Result
	Duration time.Duration
}

// Converted returns the number of documents converted without error.
func (r *Report) Converted() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil && !res.Skipped {
			n++
		}
	}
	return n
}

// Failed returns the results that carry an error.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// Err joins every per-document error, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, res.Err)
	}
	return errors.Join(errs...)
}

// Converter runs conversion jobs concurrently.
type Converter struct {
	opts   Options
	logger *logger.Logger
}

// NewConverter creates a converter. Zero option values fall back to the
// defaults of a single worker and the .mdx extension.
func NewConverter(opts Options) *Converter {
	if opts.Jobs <= 0 {
		opts.Jobs = 1
	}
	if opts.OutputExt == "" {
		opts.OutputExt = ".mdx"
	}
	if len(opts.LinkSuffixes) == 0 {
		opts.LinkSuffixes = md.DefaultLinkSuffixes
	}
	return &Converter{opts: opts, logger: logger.Discard()}
}

// SetLogger sets the logger used for per-document progress.
func (c *Converter) SetLogger(l *logger.Logger) {
	c.logger = l
}

// Convert turns one document into its Mintlify form, dropping link suffixes
// unless KeepLinks is set. name is attached to parse errors.
func (c *Converter) Convert(source, name string) (string, []md.LinkChange, error) {
	out, err := md.ToMint(source, name)
	if err != nil {
		return "", nil, err
	}
	if c.opts.KeepLinks {
		return out, nil, nil
	}
	out, changes := md.DropLinkSuffixes(out, c.opts.LinkSuffixes...)
	return out, changes, nil
}

// CheckDests reports jobs that would write the same output file. Two path
// arguments whose documents share a relative path map to one destination.
func (c *Converter) CheckDests(jobs []Job) error {
	seen := make(map[string]string, len(jobs))
	var errs []error
	for _, job := range jobs {
		dest := c.destPath(job.Rel)
		if prev, ok := seen[dest]; ok {
			errs = append(errs, fmt.Errorf("%w: %s and %s both write %s", ErrDestConflict, prev, job.Source, dest))
			continue
		}
		seen[dest] = job.Source
	}
	return errors.Join(errs...)
}

// Run converts jobs with at most Options.Jobs documents in flight. Once ctx
// is cancelled no further documents are started and the remaining jobs are
// reported as skipped. With FailFast the first failure cancels the run and is
// returned; otherwise every failure is returned joined. Jobs that collide on
// a destination are rejected before anything is written.
func (c *Converter) Run(ctx context.Context, jobs []Job) (*Report, error) {
	if err := c.CheckDests(jobs); err != nil {
		return nil, err
	}
	start := time.Now()
	results := make([]Result, len(jobs))
	for i, job := range jobs {
		results[i] = Result{Source: job.Source, Dest: c.destPath(job.Rel), Skipped: true}
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if c.opts.FailFast {
		runCtx, cancel = context.WithCancel(ctx)
		defer cancel()
	}

	var g errgroup.Group
	g.SetLimit(c.opts.Jobs)

	for i, job := range jobs {
		if runCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if runCtx.Err() != nil {
				return nil
			}
			res := c.convertOne(job)
			results[i] = res
			if res.Err != nil {
				c.logger.DocumentFailed(job.Source, res.Err)
				if c.opts.FailFast {
					cancel()
					return res.Err
				}
			}
			return nil
		})
	}
	firstErr := g.Wait()

	report := &Report{Results: results, Duration: time.Since(start)}
	for _, res := range results {
		if res.Skipped {
			c.logger.DocumentSkipped(res.Source, "run cancelled")
		}
	}
	c.logger.BatchCompleted(report.Converted(), len(report.Failed()), report.Duration)

	if c.opts.FailFast {
		return report, firstErr
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, report.Err()
}

func (c *Converter) convertOne(job Job) Result {
	res := Result{Source: job.Source, Dest: c.destPath(job.Rel)}

	data, err := os.ReadFile(job.Source)
	if err != nil {
		res.Err = fmt.Errorf("failed to read file: %w", err)
		return res
	}

	out, changes, err := c.Convert(string(data), job.Source)
	if err != nil {
		res.Err = err
		return res
	}
	res.LinksRewritten = len(changes)
	if len(changes) > 0 {
		c.logger.LinksRewritten(job.Source, len(changes))
	}

	title, err := outputTitle(out)
	if err != nil {
		res.Err = err
		return res
	}
	res.Title = title

	existing, err := os.ReadFile(res.Dest)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		res.Err = fmt.Errorf("failed to read existing output: %w", err)
		return res
	}
	res.Changed = err != nil || string(existing) != out

	if c.opts.Diff && res.Changed {
		res.Diff = UnifiedDiff(job.Rel, string(existing), out)
	}

	if !c.opts.DryRun && res.Changed {
		if err := writeOutput(res.Dest, out); err != nil {
			res.Err = err
			return res
		}
	}

	c.logger.DocumentConverted(job.Source, res.Dest, res.Changed)
	return res
}

func (c *Converter) destPath(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel)) + c.opts.OutputExt
	return filepath.Join(c.opts.OutputDir, filepath.FromSlash(rel))
}

func writeOutput(dest, content string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(dest, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// outputTitle reads the title from a converted document's front matter.
// Documents without front matter have no title.
func outputTitle(out string) (string, error) {
	var meta struct {
		Title string `yaml:"title"`
	}
	if _, err := frontmatter.Parse(strings.NewReader(out), &meta); err != nil {
		return "", fmt.Errorf("failed to parse output front matter: %w", err)
	}
	return meta.Title, nil
}

// UnifiedDiff renders the change from old to new as a unified diff labelled
// with name. It returns "" when the texts are equal.
func UnifiedDiff(name, old, new string) string {
	if old == new {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(name), old, new)
	return fmt.Sprint(gotextdiff.ToUnified("a/"+name, "b/"+name, old, edits))
}
