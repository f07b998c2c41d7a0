package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/xrq/internal/xr"
)

// Snapshot captures the outcome of a scenario for golden comparison.
type Snapshot struct {
	ScenarioName string   `json:"scenario_name"`
	Output       xr.XR    `json:"output"`
	Error        string   `json:"error"`
	Warnings     []string `json:"warnings"`
}

// NewSnapshot builds the snapshot of a result.
func NewSnapshot(name string, r *Result) Snapshot {
	s := Snapshot{
		ScenarioName: name,
		Output:       r.Output,
		Warnings:     r.Warnings,
	}
	if r.Err != nil {
		s.Error = errorCode(r.Err)
	}
	return s
}

// MarshalSnapshot encodes a snapshot as canonical JSON.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	return xr.MarshalCanonical(s)
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
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
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(NewSnapshot(scenarioName, result))
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
