// Package planner provides the schedule optimization engine for festival-sim.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - model.go: Performance catalog, stage distance matrix, combo bonuses, validation
//   - satisfaction.go: the hype integral for watching one performance over an interval
//   - optimizer.go: the (performance, stage-changes) DP table and its relaxation sweeps
//   - schedule.go: back-pointer walk that turns the DP table into a Schedule
//
// # Architecture
//
// Data flows strictly forward:
//
//	Model (NewModel) -> Optimize (uses Satisfaction) -> reconstruct -> Report
//
// Sub-packages:
//   - planner/scenario/: input formats (whitespace integer stream, strict YAML scenario)
//   - planner/trace/: relaxation trace recording
//
// # Sweep Strategies
//
// Every feasible transition moves to a performance with a strictly later End, so the
// transition graph is acyclic. StrategyEndTime relaxes sources in End order and is exact
// in one pass. StrategyFixedPoint repeats index-order sweeps until nothing improves.
// StrategyIndexOrder is a single index-order pass and can miss chains that visit a
// higher-indexed performance before a lower-indexed one. When such a chain leaves a
// back-pointer to a cell that improved later, Optimize reports ErrCorruptTable.
//
// All state lives in the Model and the per-run table; nothing is package-global.
package planner
