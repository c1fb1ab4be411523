package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/festival-sim/planner"
)

// ErrInvalidScenario indicates a YAML scenario that fails validation.
var ErrInvalidScenario = errors.New("scenario: invalid scenario")

// Scenario is the YAML form of a festival model.
// Loaded from YAML via LoadScenario(path).
type Scenario struct {
	Version         string            `yaml:"version"`
	MaxStageChanges int               `yaml:"max_stage_changes"`
	Stages          []string          `yaml:"stages"`    // stage names; len = S
	Distances       [][]int64         `yaml:"distances"` // S x S travel times
	Performances    []PerformanceSpec `yaml:"performances"`
	Combos          []ComboSpec       `yaml:"combos,omitempty"`
}

// PerformanceSpec is one catalog entry. Its id is its position in the list.
type PerformanceSpec struct {
	Name   string `yaml:"name,omitempty"`
	Stage  int    `yaml:"stage"`
	Start  int64  `yaml:"start"`
	End    int64  `yaml:"end"`
	Base   int64  `yaml:"base"`
	Growth int64  `yaml:"growth"`
}

// ComboSpec awards Bonus for watching performance To immediately after From.
type ComboSpec struct {
	From  int   `yaml:"from"`
	To    int   `yaml:"to"`
	Bonus int64 `yaml:"bonus"`
}

var validVersions = map[string]bool{"": true, "1": true}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return DecodeScenario(bytes.NewReader(data))
}

// DecodeScenario parses a YAML scenario with strict field checking.
func DecodeScenario(r io.Reader) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if s.Version == "" {
		s.Version = "1"
	}
	return &s, nil
}

// Validate checks that all fields in the scenario are valid.
func (s *Scenario) Validate() error {
	if !validVersions[s.Version] {
		return fmt.Errorf("unknown version %q; valid: 1: %w", s.Version, ErrInvalidScenario)
	}
	if s.MaxStageChanges < 0 {
		return fmt.Errorf("max_stage_changes must be non-negative, got %d: %w", s.MaxStageChanges, ErrInvalidScenario)
	}
	if len(s.Distances) != len(s.Stages) {
		return fmt.Errorf("distances has %d rows for %d stages: %w", len(s.Distances), len(s.Stages), ErrInvalidScenario)
	}
	for a, row := range s.Distances {
		if len(row) != len(s.Stages) {
			return fmt.Errorf("distances[%d] has %d columns for %d stages: %w", a, len(row), len(s.Stages), ErrInvalidScenario)
		}
		for b, v := range row {
			if v < 0 {
				return fmt.Errorf("distances[%d][%d] must be non-negative, got %d: %w", a, b, v, ErrInvalidScenario)
			}
		}
	}
	for i, p := range s.Performances {
		if err := validatePerformance(&p, i, len(s.Stages)); err != nil {
			return err
		}
	}
	for i, c := range s.Combos {
		if c.From < 0 || c.From >= len(s.Performances) || c.To < 0 || c.To >= len(s.Performances) {
			return fmt.Errorf("combos[%d]: performance ids (%d, %d) outside [0, %d): %w",
				i, c.From, c.To, len(s.Performances), ErrInvalidScenario)
		}
	}
	return nil
}

func validatePerformance(p *PerformanceSpec, idx, stages int) error {
	prefix := fmt.Sprintf("performances[%d]", idx)
	if p.Name != "" {
		prefix = fmt.Sprintf("performances[%d] (%s)", idx, p.Name)
	}
	if p.Stage < 0 || p.Stage >= stages {
		return fmt.Errorf("%s: stage %d outside [0, %d): %w", prefix, p.Stage, stages, ErrInvalidScenario)
	}
	if p.Start >= p.End {
		return fmt.Errorf("%s: start %d must be before end %d: %w", prefix, p.Start, p.End, ErrInvalidScenario)
	}
	if p.Growth < 0 {
		return fmt.Errorf("%s: growth must be non-negative, got %d: %w", prefix, p.Growth, ErrInvalidScenario)
	}
	return nil
}

// Model validates the scenario and builds the planner model.
func (s *Scenario) Model() (*planner.Model, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	perfs := make([]planner.Performance, len(s.Performances))
	for i, p := range s.Performances {
		perfs[i] = planner.Performance{
			Name:   p.Name,
			Stage:  p.Stage,
			Start:  p.Start,
			End:    p.End,
			Base:   p.Base,
			Growth: p.Growth,
		}
	}
	combos := make([]planner.Combo, len(s.Combos))
	for i, c := range s.Combos {
		combos[i] = planner.Combo{From: c.From, To: c.To, Bonus: c.Bonus}
	}
	m, err := planner.NewModel(len(s.Stages), s.MaxStageChanges, s.Distances, perfs, combos)
	if err != nil {
		return nil, fmt.Errorf("building model: %w", err)
	}
	return m, nil
}

// FromModel converts a model to a scenario. Stages are named "stage-<index>".
func FromModel(m *planner.Model) *Scenario {
	s := &Scenario{
		Version:         "1",
		MaxStageChanges: m.MaxChanges,
		Stages:          make([]string, m.Stages),
		Distances:       make([][]int64, m.Stages),
		Performances:    make([]PerformanceSpec, len(m.Performances)),
	}
	for a := range s.Stages {
		s.Stages[a] = fmt.Sprintf("stage-%d", a)
		s.Distances[a] = append([]int64(nil), m.Distance[a]...)
	}
	for i, p := range m.Performances {
		s.Performances[i] = PerformanceSpec{Name: p.Name, Stage: p.Stage, Start: p.Start, End: p.End, Base: p.Base, Growth: p.Growth}
	}
	for _, c := range m.ComboList() {
		s.Combos = append(s.Combos, ComboSpec{From: c.From, To: c.To, Bonus: c.Bonus})
	}
	return s
}

// Write encodes the scenario as YAML.
func (s *Scenario) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding scenario: %w", err)
	}
	return enc.Close()
}
