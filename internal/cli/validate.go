package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/mdx/internal/harness"
	"github.com/roach88/mdx/internal/queryspec"
)

// ValidationError is one invalid query reported by the validate command.
type ValidationError struct {
	File    string `json:"file"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Checked int               `json:"checked"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <queries-dir>",
		Short: "Validate query definitions without rendering",
		Long: `Validate CUE query definitions without rendering MDX.

Compiles every .cue file in the directory and reports all schema
errors at once. Faster than rendering each query for development
feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, queriesDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	// Handle directory problems before compiling anything
	info, err := os.Stat(queriesDir)
	if os.IsNotExist(err) {
		return outputValidateError(formatter, ErrCodeNotFound, fmt.Sprintf("query directory not found: %s", queriesDir))
	}
	if err != nil {
		return outputValidateError(formatter, ErrCodeNotFound, fmt.Sprintf("failed to access query directory: %v", err))
	}
	if !info.IsDir() {
		return outputValidateError(formatter, ErrCodeNotFound, fmt.Sprintf("not a directory: %s", queriesDir))
	}

	results, err := queryspec.LoadDir(queriesDir, queryspec.LoadModeCollectAll)
	if err != nil {
		return outputValidateError(formatter, ErrCodeNoFiles, err.Error())
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", len(results), queriesDir)

	var validationErrors []ValidationError
	for _, res := range results {
		if res.Err != nil {
			validationErrors = append(validationErrors, toValidationError(res.Path, res.Err))
			continue
		}
		formatter.VerboseLog("Compiled %s: cube %s", res.Path, res.Definition.Cube)
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors, len(results))
	}

	return outputValidateSuccess(formatter, len(results))
}

// toValidationError converts a per-file compile error to a validation error.
func toValidationError(path string, err error) ValidationError {
	verr := ValidationError{
		File:    path,
		Message: err.Error(),
		Code:    mapErrorClassToCode(harness.ClassifyError(err)),
	}

	var compileErr *queryspec.CompileError
	if errors.As(err, &compileErr) {
		verr.Field = compileErr.Field
		verr.Message = compileErr.Message
		if compileErr.Pos.IsValid() {
			verr.Line = compileErr.Pos.Line()
		}
	}

	return verr
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, checked int) error {
	if formatter.Format == "json" {
		result := ValidationResult{Valid: true, Checked: checked}
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, "✓ All queries valid")
	return nil
}

// outputValidateError outputs a single directory-level error.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	// Directory problems are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs per-file validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []ValidationError, checked int) error {
	if formatter.Format == "json" {
		result := ValidationResult{
			Valid:   false,
			Checked: checked,
			Errors:  errs,
		}

		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Invalid queries = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, verr := range errs {
		if verr.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d\n", verr.File, verr.Line)
		} else {
			fmt.Fprintln(formatter.Writer, verr.File)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", verr.Code, verr.Message)
	}

	// Invalid queries = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
