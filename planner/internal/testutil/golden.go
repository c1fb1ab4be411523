// Package testutil provides shared test infrastructure for the festival-sim planner.
// It holds the golden dataset types and assertion helpers used across planner/
// test packages.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/golden.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one integer-stream input with its expected optimum.
type GoldenTestCase struct {
	Name            string     `json:"name"`
	Input           string     `json:"input"`    // whitespace integer stream
	Strategy        string     `json:"strategy"` // sweep strategy to run
	MaxSatisfaction int64      `json:"max_satisfaction"`
	StageChanges    int        `json:"stage_changes"`
	Schedule        [][3]int64 `json:"schedule"` // (performance, arrival, departure)
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: planner/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from planner/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "golden.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}
