package catalog

import (
	"path/filepath"
	"testing"
)

// createTestCatalog creates a file-backed catalog in a temp dir.
func createTestCatalog(t *testing.T, opts ...Option) *Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")
	c, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}
