// Package testutil provides shared test infrastructure: golden scenario
// datasets and float assertions.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/golden.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one scenario run against the default household.
type GoldenTestCase struct {
	Name string `json:"name"`
	// Scenario is a file name under testdata/scenarios.
	Scenario string        `json:"scenario"`
	Metrics  GoldenMetrics `json:"metrics"`
}

// GoldenMetrics are the expected totals of a golden run.
type GoldenMetrics struct {
	EndHours   float64 `json:"end_hours"`
	ConsumedWh float64 `json:"consumed_wh"`
	ProducedWh float64 `json:"produced_wh"`
	// Per-model energy, keyed by model id. Models not listed must total zero.
	ModelWh     map[string]float64 `json:"model_wh"`
	FinalStates map[string]string  `json:"final_states,omitempty"`
}

// TestdataDir returns the repository testdata directory, resolved relative to
// this source file: sim/internal/testutil/ → testdata/.
func TestdataDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata")
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(TestdataDir(t), "golden.json"))
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}
	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	return &dataset
}

// ScenarioPath returns the path of a golden scenario file.
func ScenarioPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(TestdataDir(t), "scenarios", name)
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
