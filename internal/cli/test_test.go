package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesGolden = "SELECT {[MEASURE].[MEASURE].[AMOUNT]} ON 0\nFROM [SALES]"

// setupScenarioDir builds a scenario tree with one passing scenario:
//
//	root/queries/sales.cue
//	root/scenarios/sales_basic.yaml
//	root/golden/sales-basic.golden
func setupScenarioDir(t *testing.T) (scenariosDir, goldenDir string) {
	t.Helper()

	root := t.TempDir()
	queriesDir := filepath.Join(root, "queries")
	scenariosDir = filepath.Join(root, "scenarios")
	goldenDir = filepath.Join(root, "golden")
	require.NoError(t, os.MkdirAll(queriesDir, 0755))
	require.NoError(t, os.MkdirAll(scenariosDir, 0755))
	require.NoError(t, os.MkdirAll(goldenDir, 0755))

	writeQuery(t, queriesDir, "sales.cue", salesQuery)

	scenario := `name: sales-basic
description: Measure column on the Sales cube.
query: ../queries/sales.cue
`
	require.NoError(t, os.WriteFile(filepath.Join(scenariosDir, "sales_basic.yaml"), []byte(scenario), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(goldenDir, "sales-basic.golden"), []byte(salesGolden), 0644))

	return scenariosDir, goldenDir
}

func TestTestCommandAllPass(t *testing.T) {
	scenariosDir, goldenDir := setupScenarioDir(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{scenariosDir, "--golden-dir", goldenDir})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "✓ sales-basic")
	assert.Contains(t, output, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, output, "✓ All scenarios passed")
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	scenariosDir, goldenDir := setupScenarioDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(goldenDir, "sales-basic.golden"), []byte("SELECT nothing"), 0644))

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{scenariosDir, "--golden-dir", goldenDir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 scenario(s) failed")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	output := buf.String()
	assert.Contains(t, output, "✗ sales-basic")
	assert.Contains(t, output, "does not match")
	assert.Contains(t, output, "Test Summary: 0 passed, 1 failed, 1 total")
}

func TestTestCommandWantErrorScenario(t *testing.T) {
	scenariosDir, goldenDir := setupScenarioDir(t)

	queriesDir := filepath.Join(filepath.Dir(scenariosDir), "queries")
	writeQuery(t, queriesDir, "bad.cue", `axes: [{sets: [{dimension: "Product"}]}]`)

	scenario := `name: bad-query
description: Missing cube must fail to compile.
query: ../queries/bad.cue
wantError: "compile"
`
	require.NoError(t, os.WriteFile(filepath.Join(scenariosDir, "bad_query.yaml"), []byte(scenario), 0644))

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{scenariosDir, "--golden-dir", goldenDir})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "✓ bad-query")
	assert.Contains(t, output, "Test Summary: 2 passed, 0 failed, 2 total")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/scenarios"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenarios directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	scenariosDir := t.TempDir()

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{scenariosDir})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	scenariosDir := t.TempDir()

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{scenariosDir})

	err := cmd.Execute()
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
}

func TestTestCommandDefaultGoldenDir(t *testing.T) {
	root := t.TempDir()
	queriesDir := filepath.Join(root, "queries")
	scenariosDir := filepath.Join(root, "scenarios")
	goldenDir := filepath.Join(scenariosDir, "golden")
	require.NoError(t, os.MkdirAll(queriesDir, 0755))
	require.NoError(t, os.MkdirAll(goldenDir, 0755))

	writeQuery(t, queriesDir, "sales.cue", salesQuery)
	scenario := `name: sales-basic
description: Measure column on the Sales cube.
query: ../queries/sales.cue
`
	require.NoError(t, os.WriteFile(filepath.Join(scenariosDir, "sales_basic.yaml"), []byte(scenario), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(goldenDir, "sales-basic.golden"), []byte(salesGolden), 0644))

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{scenariosDir})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ All scenarios passed")
}

func TestTestCommandFilter(t *testing.T) {
	scenariosDir, goldenDir := setupScenarioDir(t)

	// Second scenario that would fail; the filter keeps it out of the run
	scenario := `name: broken
description: Golden file does not exist.
query: ../queries/sales.cue
golden: no-such-golden
`
	require.NoError(t, os.WriteFile(filepath.Join(scenariosDir, "broken.yaml"), []byte(scenario), 0644))

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{scenariosDir, "--golden-dir", goldenDir, "--filter", "sales_*"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommandLoadError(t *testing.T) {
	scenariosDir, goldenDir := setupScenarioDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(scenariosDir, "mangled.yaml"), []byte("name: [unclosed"), 0644))

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{scenariosDir, "--golden-dir", goldenDir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 scenario(s) failed")

	output := buf.String()
	assert.Contains(t, output, "✗ mangled.yaml")
	assert.Contains(t, output, "Load error")
}

func TestTestCommandJSON(t *testing.T) {
	scenariosDir, goldenDir := setupScenarioDir(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{scenariosDir, "--golden-dir", goldenDir})

	err := cmd.Execute()
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)

	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["total"])
	assert.Equal(t, float64(1), data["passed"])
}

func TestTestCommandJSONFailure(t *testing.T) {
	scenariosDir, goldenDir := setupScenarioDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(goldenDir, "sales-basic.golden"), []byte("SELECT nothing"), 0644))

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{scenariosDir, "--golden-dir", goldenDir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "error", response.Status)
	require.NotNil(t, response.Error)
	assert.Equal(t, ErrCodeScenarioFail, response.Error.Code)
}

func TestTestCommandUpdate(t *testing.T) {
	scenariosDir, goldenDir := setupScenarioDir(t)
	require.NoError(t, os.Remove(filepath.Join(goldenDir, "sales-basic.golden")))

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{scenariosDir, "--golden-dir", goldenDir, "--update"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ sales-basic (golden updated)")

	written, err := os.ReadFile(filepath.Join(goldenDir, "sales-basic.golden"))
	require.NoError(t, err)
	assert.Equal(t, salesGolden, string(written))

	// The regenerated golden passes a plain run
	buf.Reset()
	cmd = NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{scenariosDir, "--golden-dir", goldenDir})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ All scenarios passed")
}

func TestTestHelpText(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "golden")
	assert.Contains(t, output, "--update")
	assert.Contains(t, output, "--filter")
	assert.Contains(t, output, "scenarios-dir")
}

func TestFilterScenarios(t *testing.T) {
	files := []string{
		"scenarios/sales_basic.yaml",
		"scenarios/sales_crlf.yaml",
		"scenarios/regions.yaml",
	}

	matched, err := filterScenarios(files, "sales_*")
	require.NoError(t, err)
	assert.Equal(t, []string{"scenarios/sales_basic.yaml", "scenarios/sales_crlf.yaml"}, matched)

	matched, err = filterScenarios(files, "")
	require.NoError(t, err)
	assert.Equal(t, files, matched)

	_, err = filterScenarios(files, "[bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}
