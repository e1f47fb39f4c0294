package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/fluxcore/internal/ir"
)

// Snapshot renders r as canonical JSON. Keys are sorted and the output
// has no trailing newline, so it is stable across runs.
func Snapshot(name string, r *Result) ([]byte, error) {
	steps := make([]any, len(r.Steps))
	for i, s := range r.Steps {
		m := map[string]any{
			"seq":      s.Seq,
			"action":   s.Action,
			"payload":  s.Payload,
			"event":    string(s.Event),
			"version":  s.Version,
			"notified": s.Notified,
			"state":    s.State,
		}
		if s.Name != "" {
			m["name"] = s.Name
		}
		if s.Err != nil {
			m["error"] = s.Err.Error()
		}
		steps[i] = m
	}
	return ir.MarshalCanonical(map[string]any{
		"scenario": name,
		"steps":    steps,
	})
}

// RunWithGolden runs sc, fails t on unmet expectations and compares the
// snapshot with testdata/golden/<sc.Name>.golden.
func RunWithGolden[S any](t *testing.T, sc Scenario[S]) *Result {
	t.Helper()

	result, err := Run(context.Background(), sc)
	if err != nil {
		t.Fatalf("run scenario %s: %v", sc.Name, err)
	}
	for _, e := range result.Errors {
		t.Error(e)
	}

	AssertGolden(t, sc.Name, result)
	return result
}

// AssertGolden compares an existing result with its golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		t.Fatalf("snapshot %s: %v", name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
