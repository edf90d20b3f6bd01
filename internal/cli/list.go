package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mdx/internal/catalog"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Database string
}

// QuerySummary is one catalog entry in list output.
type QuerySummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Cube       string `json:"cube"`
	CreatedSeq int64  `json:"created_seq"`
}

// ListResult holds the catalog listing.
type ListResult struct {
	Queries []QuerySummary `json:"queries"`
	Count   int            `json:"count"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cataloged queries",
		Long: `List all queries stored in the catalog.

Entries are ordered by save sequence, oldest first.

Examples:
  mdx list --db ./catalog.db
  mdx list --db ./catalog.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite catalog (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cat, err := catalog.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open catalog", err)
	}
	defer cat.Close()

	entries, err := cat.List(context.Background())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list queries", err)
	}

	if formatter.Format == "json" {
		summaries := make([]QuerySummary, len(entries))
		for i, e := range entries {
			summaries[i] = QuerySummary{
				ID:         e.ID,
				Name:       e.Name,
				Cube:       e.Cube,
				CreatedSeq: e.CreatedSeq,
			}
		}
		return formatter.Success(ListResult{Queries: summaries, Count: len(summaries)})
	}

	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "No queries saved.")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(formatter.Writer, "[%d] %s  %s  (cube: %s)\n", e.CreatedSeq, e.ID, e.Name, e.Cube)
	}
	return nil
}
