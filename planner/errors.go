package planner

import "errors"

// Sentinel errors returned by the engine. Callers match them with errors.Is;
// returned errors usually wrap them with the offending field or transition.
var (
	// ErrInvalidModel indicates a shape or range violation in the model inputs.
	ErrInvalidModel = errors.New("planner: invalid model")

	// ErrOverflow indicates that a satisfaction value does not fit in int64.
	ErrOverflow = errors.New("planner: int64 overflow")

	// ErrInvalidInterval indicates a watch interval with end before start.
	ErrInvalidInterval = errors.New("planner: watch interval ends before it starts")

	// ErrInfeasible indicates a schedule that breaks timing or the stage-change budget.
	ErrInfeasible = errors.New("planner: infeasible schedule")

	// ErrCorruptTable indicates a back-pointer walk that did not reach a start state.
	ErrCorruptTable = errors.New("planner: corrupt dp table")
)
