package scenario

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/festival-sim/planner"
)

func TestLoadScenario_Example(t *testing.T) {
	// GIVEN the bundled two-stage scenario
	s, err := LoadScenario(filepath.Join("..", "..", "examples", "two-stages.yaml"))
	require.NoError(t, err)

	// WHEN built and optimized
	m, err := s.Model()
	require.NoError(t, err)
	res, err := planner.Optimize(m, planner.Options{})
	require.NoError(t, err)

	// THEN names survive and the combo steers the schedule
	assert.Equal(t, "headliner", m.Performances[2].Name)
	assert.Equal(t, int64(4630), res.MaxSatisfaction)
	assert.Equal(t, []int{0, 1, 2}, res.Schedule.IDs())
}

func TestDecodeScenario_UnknownField_Rejected(t *testing.T) {
	_, err := DecodeScenario(strings.NewReader("version: \"1\"\nmax_stage_change: 2\n"))
	assert.Error(t, err)
}

func TestDecodeScenario_DefaultsVersion(t *testing.T) {
	s, err := DecodeScenario(strings.NewReader("stages: [a]\ndistances: [[0]]\n"))
	require.NoError(t, err)
	assert.Equal(t, "1", s.Version)
	assert.NoError(t, s.Validate())
}

func TestScenario_Validate(t *testing.T) {
	valid := func() *Scenario {
		return &Scenario{
			Version:   "1",
			Stages:    []string{"a", "b"},
			Distances: [][]int64{{0, 3}, {3, 0}},
			Performances: []PerformanceSpec{
				{Name: "x", Stage: 0, Start: 0, End: 10, Base: 1},
				{Stage: 1, Start: 5, End: 15, Base: 1},
			},
			Combos: []ComboSpec{{From: 0, To: 1, Bonus: 4}},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(s *Scenario)
	}{
		{"version", func(s *Scenario) { s.Version = "2" }},
		{"negative budget", func(s *Scenario) { s.MaxStageChanges = -1 }},
		{"missing row", func(s *Scenario) { s.Distances = s.Distances[:1] }},
		{"short row", func(s *Scenario) { s.Distances[1] = []int64{3} }},
		{"negative walk", func(s *Scenario) { s.Distances[0][1] = -3 }},
		{"unknown stage", func(s *Scenario) { s.Performances[1].Stage = 2 }},
		{"empty interval", func(s *Scenario) { s.Performances[0].End = 0 }},
		{"negative growth", func(s *Scenario) { s.Performances[0].Growth = -1 }},
		{"combo id", func(s *Scenario) { s.Combos[0].To = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := s.Validate()
			assert.True(t, errors.Is(err, ErrInvalidScenario), "got %v", err)
			_, err = s.Model()
			assert.Error(t, err)
		})
	}
}

func TestFromModel_WriteAndReload(t *testing.T) {
	// GIVEN a model converted to a scenario and written as YAML
	var buf bytes.Buffer
	require.NoError(t, FromModel(planner.DemoModel()).Write(&buf))

	// WHEN decoded again
	s, err := DecodeScenario(&buf)
	require.NoError(t, err)
	m, err := s.Model()
	require.NoError(t, err)

	// THEN the model is unchanged and stages got generated names
	assert.Equal(t, []string{"stage-0", "stage-1"}, s.Stages)
	assert.Equal(t, planner.DemoModel(), m)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
