package trace

// Summary aggregates statistics from a RelaxationTrace.
type Summary struct {
	TotalTransitions int             `json:"total_transitions" yaml:"total_transitions"`
	Improvements     int             `json:"improvements" yaml:"improvements"`
	Sweeps           int             `json:"sweeps" yaml:"sweeps"`
	ByOutcome        map[Outcome]int `json:"by_outcome" yaml:"by_outcome"` // outcome → count
	MaxCandidate     int64           `json:"max_candidate" yaml:"max_candidate"`
}

// Summarize computes aggregate statistics from a RelaxationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(rt *RelaxationTrace) *Summary {
	summary := &Summary{
		ByOutcome: make(map[Outcome]int),
	}
	if rt == nil {
		return summary
	}

	summary.TotalTransitions = len(rt.Records)
	seenCandidate := false
	for _, r := range rt.Records {
		summary.ByOutcome[r.Outcome]++
		if r.Outcome == OutcomeImproved {
			summary.Improvements++
		}
		if r.Sweep+1 > summary.Sweeps {
			summary.Sweeps = r.Sweep + 1
		}
		if r.Outcome == OutcomeImproved || r.Outcome == OutcomeKept {
			if !seenCandidate || r.Candidate > summary.MaxCandidate {
				summary.MaxCandidate = r.Candidate
				seenCandidate = true
			}
		}
	}
	return summary
}
