package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/obsparse/internal/ir"
	"github.com/roach88/obsparse/internal/parseerr"
)

// Snapshot captures every case outcome of a scenario run.
type Snapshot struct {
	ScenarioName string
	Cases        []CaseResult
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON
// serialization. Mismatches are left out so a failing run still compares
// its outcomes.
func (s *Snapshot) toCanonicalMap() map[string]any {
	cases := make([]any, len(s.Cases))
	for i, c := range s.Cases {
		m := map[string]any{
			"name":    c.Name,
			"surface": c.Surface,
			"input":   c.Input,
		}
		if c.Values != nil {
			m["values"] = c.Values
			m["fingerprint"] = c.Fingerprint
		}
		if len(c.Errors) > 0 {
			errs := make([]any, len(c.Errors))
			for j, e := range c.Errors {
				errs[j] = errorMap(e)
			}
			m["errors"] = errs
		}
		cases[i] = m
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"cases":         cases,
	}
}

func errorMap(e *parseerr.Error) map[string]any {
	m := map[string]any{"code": string(e.Code)}
	put := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	putList := func(k string, vs []string) {
		if len(vs) == 0 {
			return
		}
		out := make([]any, len(vs))
		for i, v := range vs {
			out[i] = v
		}
		m[k] = out
	}
	put("field", e.Field)
	put("value", e.Value)
	put("type", e.Type)
	put("permission", e.Permission)
	putList("allowed", e.Allowed)
	putList("suggestions", e.Suggestions)
	if e.Min != nil {
		m["min"] = e.Min
	}
	if e.Max != nil {
		m["max"] = e.Max
	}
	if len(e.Candidates) > 0 {
		ids := make([]any, len(e.Candidates))
		for i, id := range e.Candidates {
			ids[i] = id
		}
		m["candidates"] = ids
	}
	return m
}

// RunWithGolden executes a scenario and compares its outcomes against
// testdata/golden/{scenario.Name}.golden. It also fails t when a case misses
// its expectation.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Errorf("%s: %s", scenario.Name, msg)
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := SnapshotJSON(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}

// SnapshotJSON renders the canonical golden snapshot of a scenario result.
func SnapshotJSON(scenarioName string, result *Result) ([]byte, error) {
	snapshot := Snapshot{ScenarioName: scenarioName, Cases: result.Cases}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}
