package harness

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/mdx"
	"github.com/roach88/mdx/internal/queryspec"
)

// Error classes a scenario can expect.
const (
	// ErrorClassCompile covers everything that fails before a builder
	// exists: unreadable files, CUE errors, definition validation.
	ErrorClassCompile = "compile"

	// ErrorClassConstruction covers sticky builder argument errors.
	ErrorClassConstruction = "construction"

	// ErrorClassStructural covers query shape errors found at render.
	ErrorClassStructural = "structural"
)

// ClassifyError maps an error to its scenario error class, or "" for
// nil.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}
	if mdx.IsStructuralError(err) {
		return ErrorClassStructural
	}
	if mdx.IsConstructionError(err) {
		return ErrorClassConstruction
	}
	return ErrorClassCompile
}

// RenderScenario compiles the scenario's query file and renders it with
// the scenario's options.
func RenderScenario(s *Scenario) (string, error) {
	def, err := queryspec.CompileFile(s.Query)
	if err != nil {
		return "", err
	}
	return def.Render(s.renderOptions()...)
}

func (s *Scenario) renderOptions() []mdx.RenderOption {
	var opts []mdx.RenderOption
	if s.Options.CRLF {
		opts = append(opts, mdx.WithCRLF())
	}
	if s.Options.SkipProperties {
		opts = append(opts, mdx.WithSkipProperties())
	}
	if s.Options.HeadColumns > 0 {
		opts = append(opts, mdx.WithHeadColumns(s.Options.HeadColumns))
	}
	if s.Options.TailColumns > 0 {
		opts = append(opts, mdx.WithTailColumns(s.Options.TailColumns))
	}
	if s.Options.HeadRows > 0 {
		opts = append(opts, mdx.WithHeadRows(s.Options.HeadRows))
	}
	if s.Options.TailRows > 0 {
		opts = append(opts, mdx.WithTailRows(s.Options.TailRows))
	}
	return opts
}

// Verify runs the scenario outside the testing framework, comparing the
// rendered query against the golden file in goldenDir. A nil return
// means the scenario passed.
func Verify(s *Scenario, goldenDir string) error {
	got, err := RenderScenario(s)

	if s.WantError != "" {
		if err == nil {
			return fmt.Errorf("expected %s error, query rendered", s.WantError)
		}
		if class := ClassifyError(err); class != s.WantError {
			return fmt.Errorf("expected %s error, got %s: %w", s.WantError, class, err)
		}
		return nil
	}

	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	goldenPath := filepath.Join(goldenDir, s.GoldenName()+".golden")
	want, err := os.ReadFile(goldenPath)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("golden file not found: %s", goldenPath)
	}
	if err != nil {
		return fmt.Errorf("failed to read golden file: %w", err)
	}

	if got != string(want) {
		return fmt.Errorf("rendered query does not match %s:\n--- want\n%s\n--- got\n%s",
			goldenPath, want, got)
	}
	return nil
}
