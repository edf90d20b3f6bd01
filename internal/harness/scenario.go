package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one golden-file verification case.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario verifies.
	Description string `yaml:"description"`

	// Query is the path to the CUE query definition, relative to the
	// scenario file location.
	Query string `yaml:"query"`

	// Options are the render options applied to the query.
	Options Options `yaml:"options,omitempty"`

	// Golden names the golden fixture holding the expected query text.
	// Defaults to Name.
	Golden string `yaml:"golden,omitempty"`

	// WantError, when non-empty, marks the scenario as expecting a
	// failure of that class instead of a golden match. One of
	// "compile", "construction" or "structural".
	WantError string `yaml:"wantError,omitempty"`
}

// Options mirror the render options of the query builder.
type Options struct {
	CRLF           bool `yaml:"crlf,omitempty"`
	SkipProperties bool `yaml:"skipProperties,omitempty"`
	HeadColumns    int  `yaml:"headColumns,omitempty"`
	TailColumns    int  `yaml:"tailColumns,omitempty"`
	HeadRows       int  `yaml:"headRows,omitempty"`
	TailRows       int  `yaml:"tailRows,omitempty"`
}

// GoldenName returns the golden fixture name, defaulting to the
// scenario name.
func (s *Scenario) GoldenName() string {
	if s.Golden != "" {
		return s.Golden
	}
	return s.Name
}

// LoadScenario reads and parses a scenario YAML file. The query path is
// resolved relative to the scenario file location.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "wanterror:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the query path relative to the scenario file BEFORE
	// validation, so the existence check sees the real path.
	if scenario.Query != "" && !filepath.IsAbs(scenario.Query) {
		scenario.Query = filepath.Join(filepath.Dir(path), scenario.Query)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Query == "" {
		return fmt.Errorf("query is required")
	}
	if _, err := os.Stat(s.Query); os.IsNotExist(err) {
		return fmt.Errorf("query file not found: %s", s.Query)
	}

	switch s.WantError {
	case "", ErrorClassCompile, ErrorClassConstruction, ErrorClassStructural:
	default:
		return fmt.Errorf("unknown wantError class %q", s.WantError)
	}

	for _, count := range []struct {
		name  string
		value int
	}{
		{"headColumns", s.Options.HeadColumns},
		{"tailColumns", s.Options.TailColumns},
		{"headRows", s.Options.HeadRows},
		{"tailRows", s.Options.TailRows},
	} {
		if count.value < 0 {
			return fmt.Errorf("options.%s must be non-negative, got %d", count.name, count.value)
		}
	}

	return nil
}

// FindScenarioFiles walks the directory and returns all .yaml and .yml
// file paths.
func FindScenarioFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
