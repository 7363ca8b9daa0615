package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/estate/internal/canonical"
)

// GoldenDir is where golden traces live, relative to the test's package.
const GoldenDir = "testdata/golden"

// Snapshot encodes a trace as canonical JSON for golden comparison. The
// output is independent of map iteration order and of wall time.
func Snapshot(scenarioName, sessionID string, trace []TraceEvent) ([]byte, error) {
	events := make([]any, len(trace))
	for i, e := range trace {
		m := map[string]any{
			"type":  e.Type,
			"seq":   e.Seq,
			"at_ms": e.AtMs,
		}
		if e.Action != "" {
			m["action"] = e.Action
		}
		if e.Args != nil {
			m["args"] = e.Args
		}
		if e.Result != nil {
			m["result"] = e.Result
		}
		if e.Message != "" {
			m["message"] = e.Message
		}
		if e.Kind != "" {
			m["kind"] = e.Kind
		}
		if e.Generation != 0 {
			m["generation"] = int64(e.Generation)
		}
		events[i] = m
	}

	snap := map[string]any{
		"scenario_name": scenarioName,
		"trace":         events,
	}
	if sessionID != "" {
		snap["session_id"] = sessionID
	}
	return canonical.Marshal(snap)
}

// RunWithGolden runs a scenario and compares its trace with
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(s)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, s.Name, s.SessionID, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's trace with its golden file.
func AssertGolden(t *testing.T, scenarioName, sessionID string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, sessionID, result.Trace)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
