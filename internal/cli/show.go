package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mdx/internal/catalog"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	ByName   bool
}

// QueryDetail is the full catalog entry in show output.
type QueryDetail struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Cube        string `json:"cube"`
	MDX         string `json:"mdx"`
	ContentHash string `json:"content_hash"`
	CreatedSeq  int64  `json:"created_seq"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a cataloged query",
		Long: `Print the MDX stored for a catalog entry.

Looks up by entry ID. With --by-name, looks up the most recently
saved entry with the given name instead. The MDX is written to
stdout so it can be piped straight into other tools.

Examples:
  mdx show 0190a7b2-...-c3d4 --db ./catalog.db
  mdx show sales-by-region --db ./catalog.db --by-name
  mdx show sales-by-region --db ./catalog.db --by-name --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite catalog (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().BoolVar(&opts.ByName, "by-name", false, "look up by query name instead of id")

	return cmd
}

func runShow(opts *ShowOptions, key string, cmd *cobra.Command) error {
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

	ctx := context.Background()
	var entry catalog.Entry
	if opts.ByName {
		entry, err = cat.GetByName(ctx, key)
	} else {
		entry, err = cat.Get(ctx, key)
	}
	if errors.Is(err, sql.ErrNoRows) {
		_ = formatter.Error(ErrCodeEntryNotFound, fmt.Sprintf("query not found: %s", key), nil)
		return NewExitError(ExitFailure, fmt.Sprintf("%s: query not found: %s", ErrCodeEntryNotFound, key))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read catalog", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(QueryDetail{
			ID:          entry.ID,
			Name:        entry.Name,
			Cube:        entry.Cube,
			MDX:         entry.MDX,
			ContentHash: entry.ContentHash,
			CreatedSeq:  entry.CreatedSeq,
		})
	}

	// Metadata goes to stderr so stdout stays piping-clean
	formatter.VerboseLog("id: %s", entry.ID)
	formatter.VerboseLog("name: %s  cube: %s  seq: %d", entry.Name, entry.Cube, entry.CreatedSeq)
	fmt.Fprintln(formatter.Writer, entry.MDX)
	return nil
}
