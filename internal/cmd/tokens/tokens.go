// Package tokens provides the tokens command, a debugging aid that dumps the
// token stream of a document.
package tokens

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/mintconv/internal/config"
	"github.com/open-cli-collective/mintconv/internal/view"
	"github.com/open-cli-collective/mintconv/pkg/md"
)

type tokensOptions struct {
	configPath string
	output     string
	noColor    bool
	maxWidth   int
	stdin      io.Reader
	stdout     io.Writer
}

// NewCmdTokens creates the tokens command.
func NewCmdTokens() *cobra.Command {
	opts := &tokensOptions{}

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Show the token stream of a document",
		Long: `Tokenize a document and print one row per token with its line,
indentation, kind and value. Pass "-" to read from stdin.`,
		Example: `  # Inspect how a document is tokenized
  mintconv tokens docs/index.md

  # As JSON
  mintconv tokens docs/index.md --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdin = cmd.InOrStdin()
			opts.stdout = cmd.OutOrStdout()
			return runTokens(args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.maxWidth, "width", 60, "Truncate values to this many bytes in table output")

	return cmd
}

func runTokens(path string, opts *tokensOptions) error {
	if opts.output == "" {
		cfg, err := config.LoadWithEnv(config.ResolvePath(opts.configPath))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		opts.output = cfg.OutputFormat
	}
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(opts.stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	toks := md.Tokenize(string(data))

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.stdout)

	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(toks)
	}

	rows := make([][]string, 0, len(toks))
	for _, tok := range toks {
		value := tok.Value
		if renderer.Format() == view.FormatTable && opts.maxWidth > 0 {
			value = view.Truncate(value, opts.maxWidth)
		}
		rows = append(rows, []string{
			strconv.Itoa(tok.Line),
			strconv.Itoa(tok.Indent),
			tok.Kind.String(),
			value,
		})
	}
	renderer.RenderTable([]string{"LINE", "INDENT", "KIND", "VALUE"}, rows)
	return nil
}
