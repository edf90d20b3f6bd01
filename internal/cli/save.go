package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mdx/internal/catalog"
	"github.com/roach88/mdx/internal/queryspec"
)

// SaveOptions holds flags for the save command.
type SaveOptions struct {
	*RootOptions
	Database string
	Name     string
}

// SavedQuery holds the catalog entry returned by the save command.
type SavedQuery struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Cube        string `json:"cube"`
	ContentHash string `json:"content_hash"`
	CreatedSeq  int64  `json:"created_seq"`
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "save <query.cue>",
		Short: "Render a query and store it in the catalog",
		Long: `Render a CUE query definition and store the MDX in the catalog.

The catalog is a SQLite database created on first use. Saving the
same name and MDX text again returns the existing entry instead of
inserting a duplicate.

Examples:
  mdx save ./queries/sales.cue --db ./catalog.db
  mdx save ./queries/sales.cue --db ./catalog.db --name q4-sales
  mdx save ./queries/sales.cue --db ./catalog.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite catalog (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Name, "name", "", "catalog name (default: query file name)")

	return cmd
}

func runSave(opts *SaveOptions, queryFile string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	def, err := queryspec.CompileFile(queryFile)
	if err != nil {
		return outputQueryError(formatter, err)
	}

	text, err := def.Render()
	if err != nil {
		return outputQueryError(formatter, err)
	}

	name := opts.Name
	if name == "" {
		base := filepath.Base(queryFile)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	cat, err := catalog.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open catalog", err)
	}
	defer cat.Close()

	formatter.VerboseLog("Saving %s as %q", queryFile, name)

	entry, err := cat.Save(context.Background(), name, def.Cube, text)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, fmt.Sprintf("failed to save query: %v", err), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: failed to save query: %v", ErrCodeDatabase, err))
	}

	return outputSaveSuccess(formatter, entry)
}

// outputSaveSuccess outputs the saved catalog entry.
func outputSaveSuccess(formatter *OutputFormatter, entry catalog.Entry) error {
	if formatter.Format == "json" {
		return formatter.Success(SavedQuery{
			ID:          entry.ID,
			Name:        entry.Name,
			Cube:        entry.Cube,
			ContentHash: entry.ContentHash,
			CreatedSeq:  entry.CreatedSeq,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ Saved %s (id %s)\n", entry.Name, entry.ID)
	return nil
}
