package queryspec

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadMode controls how errors are handled during query loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll compiles every file, recording errors per file.
	LoadModeCollectAll
)

// FileResult pairs one query file with its compiled definition or its
// compile error.
type FileResult struct {
	Path       string
	Definition *Definition
	Err        error
}

// LoadDir compiles every .cue file under dir, walking subdirectories.
// Results come back in walk order, which is lexical and stable.
//
// In fail-fast mode the first compile failure is returned as the error
// alongside the results gathered so far. In collect-all mode compile
// failures stay in the per-file results and the returned error covers
// directory problems only.
func LoadDir(dir string, mode LoadMode) ([]FileResult, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("query directory not found: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access query directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	files, err := FindQueryFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan query directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	results := make([]FileResult, 0, len(files))
	for _, path := range files {
		def, err := CompileFile(path)
		results = append(results, FileResult{Path: path, Definition: def, Err: err})
		if err != nil && mode == LoadModeFailFast {
			return results, err
		}
	}
	return results, nil
}

// FindQueryFiles walks the directory and returns all .cue file paths.
func FindQueryFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
