// Formats optimization results for the terminal and for files:
// the plain text layout, JSON and YAML.

package planner

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/festival-sim/planner/trace"
)

// Output formats accepted by Report.Write.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var validFormats = map[string]bool{FormatText: true, FormatJSON: true, FormatYAML: true}

// IsValidFormat returns true if the given string names an output format.
func IsValidFormat(format string) bool {
	return validFormats[format]
}

// FormatSchedule renders visits as "[id: arrival-departure, ...]".
func FormatSchedule(s Schedule) string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = fmt.Sprintf("%d: %d-%d", v.Performance, v.Arrival, v.Departure)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// PrintSummary writes the maximum and the schedule in the plain text layout.
func PrintSummary(w io.Writer, total int64, s Schedule) error {
	_, err := fmt.Fprintf(w, "Maximum satisfaction points achievable\n%d\nSchedule: %s\n", total, FormatSchedule(s))
	return err
}

// Print writes the result in the plain text layout.
func (r *Result) Print(w io.Writer) error {
	return PrintSummary(w, r.MaxSatisfaction, r.Schedule)
}

// ReportVisit is one schedule stop with its catalog context.
type ReportVisit struct {
	Performance  int    `json:"performance" yaml:"performance"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	Stage        int    `json:"stage" yaml:"stage"`
	Arrival      int64  `json:"arrival" yaml:"arrival"`
	Departure    int64  `json:"departure" yaml:"departure"`
	Satisfaction int64  `json:"satisfaction" yaml:"satisfaction"`
	Bonus        int64  `json:"bonus" yaml:"bonus"`
}

// Report is the serializable form of a Result.
type Report struct {
	MaxSatisfaction int64          `json:"max_satisfaction" yaml:"max_satisfaction"`
	StageChanges    int            `json:"stage_changes" yaml:"stage_changes"`
	MaxChanges      int            `json:"max_changes" yaml:"max_changes"`
	Strategy        Strategy       `json:"strategy" yaml:"strategy"`
	Sweeps          int            `json:"sweeps" yaml:"sweeps"`
	Schedule        []ReportVisit  `json:"schedule" yaml:"schedule"`
	Trace           *trace.Summary `json:"trace,omitempty" yaml:"trace,omitempty"`
}

// NewReport builds a Report for r, which must come from optimizing m.
func NewReport(m *Model, r *Result) *Report {
	rep := &Report{
		MaxSatisfaction: r.MaxSatisfaction,
		StageChanges:    r.StageChanges,
		MaxChanges:      m.MaxChanges,
		Strategy:        r.Strategy,
		Sweeps:          r.Sweeps,
		Schedule:        make([]ReportVisit, len(r.Schedule)),
	}
	for i, v := range r.Schedule {
		p := m.Performances[v.Performance]
		rep.Schedule[i] = ReportVisit{
			Performance:  v.Performance,
			Name:         p.Name,
			Stage:        p.Stage,
			Arrival:      v.Arrival,
			Departure:    v.Departure,
			Satisfaction: v.Satisfaction,
			Bonus:        v.Bonus,
		}
	}
	return rep
}

// Write renders the report in the given format.
func (rep *Report) Write(w io.Writer, format string) error {
	switch format {
	case FormatText:
		s := make(Schedule, len(rep.Schedule))
		for i, v := range rep.Schedule {
			s[i] = Visit{Performance: v.Performance, Arrival: v.Arrival, Departure: v.Departure}
		}
		return PrintSummary(w, rep.MaxSatisfaction, s)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q; valid: text, json, yaml", format)
	}
}

// Save writes the report as indented JSON to path.
func (rep *Report) Save(path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	logrus.Debugf("Successfully wrote report to '%s'", path)
	return nil
}
