// Package trace provides relaxation-trace recording for DP optimization analysis.
// This package has no dependencies on planner/; it stores pure data types.
package trace

// Outcome classifies what happened to one attempted transition.
type Outcome string

const (
	// OutcomeImproved means the candidate replaced the target cell.
	OutcomeImproved Outcome = "improved"
	// OutcomeKept means the transition was feasible but did not beat the target cell.
	OutcomeKept Outcome = "kept"
	// OutcomeLate means the watcher would arrive after the target performance ends.
	OutcomeLate Outcome = "late"
	// OutcomeBudget means the stage change would exceed the budget.
	OutcomeBudget Outcome = "budget"
	// OutcomeNoWatch means the target performance would leave no time to watch.
	OutcomeNoWatch Outcome = "no-watch"
)

// RelaxationRecord captures a single attempted transition (From, FromChanges) -> (To, ToChanges).
// Arrival, Gain and Candidate are zero for transitions skipped before evaluation.
type RelaxationRecord struct {
	Sweep       int
	From        int
	FromChanges int
	To          int
	ToChanges   int
	Arrival     int64 // watch start at To
	Gain        int64 // satisfaction at To plus combo bonus
	Candidate   int64 // total value offered to (To, ToChanges)
	Outcome     Outcome
}
