// Package harness provides golden-file verification for rendered
// queries.
//
// Scenarios are YAML files that name a CUE query definition, the render
// options to apply, and either a golden fixture holding the expected
// query text or the class of error the render is expected to fail with.
//
// # Scenario Format
//
//	name: leaves-by-pattern
//	description: "Leaf regions matching N*, measures on columns"
//	query: ../queries/leaves_by_pattern.cue
//	options:
//	  crlf: false
//	  headColumns: 0
//	golden: leaves-by-pattern
//	wantError: ""
//
// The query path is resolved relative to the scenario file. golden
// defaults to the scenario name. wantError takes "compile",
// "construction" or "structural"; when set, the golden is ignored and
// the scenario passes only if the render fails with that class.
//
// # Usage
//
// Inside a test, Run asserts against goldie-managed fixtures:
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/leaves.yaml")
//	if err != nil {
//	    t.Fatal(err)
//	}
//	harness.Run(t, scenario)
//
// Outside a test, Verify compares against the golden file on disk and
// returns the mismatch as an error.
package harness
