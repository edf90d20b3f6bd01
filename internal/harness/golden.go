package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Run executes a scenario inside a test. Golden scenarios assert the
// rendered query against testdata/golden/{golden}.golden; error
// scenarios assert the error class instead.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func Run(t *testing.T, s *Scenario) {
	t.Helper()

	got, err := RenderScenario(s)

	if s.WantError != "" {
		if err == nil {
			t.Fatalf("scenario %s: expected %s error, query rendered:\n%s", s.Name, s.WantError, got)
		}
		if class := ClassifyError(err); class != s.WantError {
			t.Fatalf("scenario %s: expected %s error, got %s: %v", s.Name, s.WantError, class, err)
		}
		return
	}

	if err != nil {
		t.Fatalf("scenario %s: render failed: %v", s.Name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.GoldenName(), []byte(got))
}
