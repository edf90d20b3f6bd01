package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/mdx"
	"github.com/roach88/mdx/internal/harness"
	"github.com/roach88/mdx/internal/queryspec"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Output         string // output file path
	CRLF           bool
	SkipProperties bool
	HeadColumns    int
	TailColumns    int
	HeadRows       int
	TailRows       int
}

// RenderResult holds the rendered query for JSON output.
type RenderResult struct {
	File string `json:"file"`
	Cube string `json:"cube"`
	MDX  string `json:"mdx"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <query.cue>",
		Short: "Render a CUE query definition to MDX",
		Long: `Render a CUE query definition to an MDX statement.

The query file is compiled, checked against the query schema, and
rendered to MDX text. By default the MDX is written to stdout so it
can be piped straight into other tools.

Exit codes:
  0 - Query rendered
  1 - Query is invalid
  2 - Command error (file not found, write failure, etc.)

Examples:
  mdx render ./queries/sales.cue
  mdx render ./queries/sales.cue --crlf -o sales.mdx
  mdx render ./queries/sales.cue --head-columns 10 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&opts.CRLF, "crlf", false, "join MDX lines with CRLF")
	cmd.Flags().BoolVar(&opts.SkipProperties, "skip-properties", false, "omit DIMENSION PROPERTIES clauses")
	cmd.Flags().IntVar(&opts.HeadColumns, "head-columns", 0, "limit the column axis to its first N members")
	cmd.Flags().IntVar(&opts.TailColumns, "tail-columns", 0, "limit the column axis to its last N members")
	cmd.Flags().IntVar(&opts.HeadRows, "head-rows", 0, "limit the row axis to its first N members")
	cmd.Flags().IntVar(&opts.TailRows, "tail-rows", 0, "limit the row axis to its last N members")

	return cmd
}

func runRender(opts *RenderOptions, queryFile string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	def, err := queryspec.CompileFile(queryFile)
	if err != nil {
		return outputQueryError(formatter, err)
	}
	formatter.VerboseLog("Compiled %s: cube %s, %d axis(es)", queryFile, def.Cube, len(def.Axes))

	text, err := def.Render(buildRenderOptions(opts)...)
	if err != nil {
		return outputQueryError(formatter, err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(text), 0644); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("%s: writing output file: %v", ErrCodeWriteFailed, err))
		}
	}

	return outputRenderSuccess(formatter, RenderResult{File: queryFile, Cube: def.Cube, MDX: text}, opts.Output)
}

// buildRenderOptions converts command flags to render options.
func buildRenderOptions(opts *RenderOptions) []mdx.RenderOption {
	var ropts []mdx.RenderOption
	if opts.CRLF {
		ropts = append(ropts, mdx.WithCRLF())
	}
	if opts.SkipProperties {
		ropts = append(ropts, mdx.WithSkipProperties())
	}
	if opts.HeadColumns > 0 {
		ropts = append(ropts, mdx.WithHeadColumns(opts.HeadColumns))
	}
	if opts.TailColumns > 0 {
		ropts = append(ropts, mdx.WithTailColumns(opts.TailColumns))
	}
	if opts.HeadRows > 0 {
		ropts = append(ropts, mdx.WithHeadRows(opts.HeadRows))
	}
	if opts.TailRows > 0 {
		ropts = append(ropts, mdx.WithTailRows(opts.TailRows))
	}
	return ropts
}

// outputRenderSuccess outputs the rendered query.
func outputRenderSuccess(formatter *OutputFormatter, result RenderResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote MDX to %s\n", outputFile)
		return nil
	}

	fmt.Fprintln(formatter.Writer, result.MDX)
	return nil
}

// outputQueryError reports a compile or render failure for a single query.
// Missing files are command-level errors (exit code 2); everything else
// means the query itself is invalid (exit code 1).
func outputQueryError(formatter *OutputFormatter, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", ErrCodeNotFound, err.Error()))
	}

	code := mapErrorClassToCode(harness.ClassifyError(err))
	_ = formatter.Error(code, err.Error(), nil)
	return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", code, err.Error()))
}

// mapErrorClassToCode maps a query failure class to an error code.
func mapErrorClassToCode(class string) string {
	switch class {
	case harness.ErrorClassCompile:
		return ErrCodeQueryCompile
	case harness.ErrorClassConstruction:
		return ErrCodeQueryConstruction
	case harness.ErrorClassStructural:
		return ErrCodeQueryStructural
	default:
		return ErrCodeGeneric
	}
}
