package planner

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/festival-sim/planner/trace"
)

// Strategy selects the order in which DP sources are relaxed.
type Strategy string

const (
	// StrategyEndTime relaxes sources in ascending End order (ties by ID). Exact in one pass.
	StrategyEndTime Strategy = "end-time"
	// StrategyFixedPoint repeats index-order sweeps until no cell improves.
	StrategyFixedPoint Strategy = "fixed-point"
	// StrategyIndexOrder is a single pass over sources by ID. It can miss chains that
	// visit a higher-indexed performance before a lower-indexed one.
	StrategyIndexOrder Strategy = "index-order"
)

var validStrategies = map[Strategy]bool{
	StrategyEndTime:    true,
	StrategyFixedPoint: true,
	StrategyIndexOrder: true,
	"":                 true, // empty defaults to end-time
}

// IsValidStrategy returns true if the given string names a sweep strategy.
func IsValidStrategy(s string) bool {
	return validStrategies[Strategy(s)]
}

// Options configures one optimization run.
type Options struct {
	Strategy Strategy               // empty = StrategyEndTime
	Trace    *trace.RelaxationTrace // nil = no tracing
}

// State is a DP key: a path ending at Performance having used exactly Changes stage changes.
type State struct {
	Performance int
	Changes     int
}

// cell is one DP table entry. An unreached cell carries no value; prev == nil on a
// reached cell means the path starts there.
type cell struct {
	reached bool
	value   int64
	arrival int64
	prev    *State
}

// Result is the outcome of Optimize.
type Result struct {
	MaxSatisfaction int64
	StageChanges    int
	Terminal        *State // nil when the catalog is empty
	Schedule        Schedule
	Strategy        Strategy
	Sweeps          int
}

type optimizer struct {
	m      *Model
	budget int // highest k that can be consumed: min(K, P-1)
	cells  [][]cell
	trace  *trace.RelaxationTrace
	sweep  int
}

// Optimize computes the schedule with maximum total satisfaction for m.
func Optimize(m *Model, opts Options) (*Result, error) {
	if m == nil {
		return nil, fmt.Errorf("nil model: %w", ErrInvalidModel)
	}
	strategy := opts.Strategy
	if strategy == "" {
		strategy = StrategyEndTime
	}
	if !IsValidStrategy(string(strategy)) {
		return nil, fmt.Errorf("unknown strategy %q; valid: end-time, fixed-point, index-order", strategy)
	}
	if len(m.Performances) == 0 {
		logrus.Debugf("empty catalog; nothing to schedule")
		return &Result{Schedule: Schedule{}, Strategy: strategy}, nil
	}

	o := newOptimizer(m, opts.Trace)
	if err := o.seed(); err != nil {
		return nil, err
	}
	sweeps, err := o.run(strategy)
	if err != nil {
		return nil, err
	}

	terminal := o.best()
	schedule, err := o.reconstruct(terminal)
	if err != nil {
		return nil, err
	}
	best := o.cells[terminal.Performance][terminal.Changes].value
	total, err := schedule.Total()
	if err != nil {
		return nil, err
	}
	// A source improved after it was relaxed leaves its successors pointing at a
	// path worth more than they recorded. Only StrategyIndexOrder can do this.
	if total != best {
		return nil, fmt.Errorf("schedule ending at (%d, %d) sums to %d, table holds %d (stale back-pointer under %s): %w",
			terminal.Performance, terminal.Changes, total, best, strategy, ErrCorruptTable)
	}
	logrus.Debugf("optimized %d performances (budget %d, strategy %s, %d sweeps): max %d ending at (%d, %d)",
		len(m.Performances), o.budget, strategy, sweeps, best, terminal.Performance, terminal.Changes)

	return &Result{
		MaxSatisfaction: best,
		StageChanges:    terminal.Changes,
		Terminal:        &terminal,
		Schedule:        schedule,
		Strategy:        strategy,
		Sweeps:          sweeps,
	}, nil
}

func newOptimizer(m *Model, rt *trace.RelaxationTrace) *optimizer {
	budget := min(m.MaxChanges, len(m.Performances)-1)
	cells := make([][]cell, len(m.Performances))
	for i := range cells {
		cells[i] = make([]cell, budget+1)
	}
	return &optimizer{m: m, budget: budget, cells: cells, trace: rt}
}

// seed fills the base case: every performance watched alone, start to end, at k = 0.
func (o *optimizer) seed() error {
	for i, p := range o.m.Performances {
		value, err := Satisfaction(p, p.Start, p.End)
		if err != nil {
			return fmt.Errorf("base case %d: %w", i, err)
		}
		o.cells[i][0] = cell{reached: true, value: value, arrival: p.Start}
	}
	return nil
}

func (o *optimizer) run(strategy Strategy) (int, error) {
	switch strategy {
	case StrategyEndTime:
		return 1, o.sweepOnce(o.endTimeOrder())
	case StrategyIndexOrder:
		return 1, o.sweepOnce(o.indexOrder())
	default:
		return o.sweepToFixedPoint()
	}
}

func (o *optimizer) indexOrder() []int {
	order := make([]int, len(o.m.Performances))
	for i := range order {
		order[i] = i
	}
	return order
}

func (o *optimizer) endTimeOrder() []int {
	order := o.indexOrder()
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(o.m.Performances[a].End, o.m.Performances[b].End)
	})
	return order
}

func (o *optimizer) sweepOnce(order []int) error {
	for _, i := range order {
		if _, err := o.relaxFrom(i); err != nil {
			return err
		}
	}
	return nil
}

// sweepToFixedPoint repeats index-order sweeps until nothing improves. The transition
// graph is acyclic with paths of at most P performances, so P sweeps always settle it.
func (o *optimizer) sweepToFixedPoint() (int, error) {
	order := o.indexOrder()
	limit := len(order) + 1
	for o.sweep = 0; o.sweep < limit; o.sweep++ {
		changed := false
		for _, i := range order {
			improved, err := o.relaxFrom(i)
			if err != nil {
				return o.sweep + 1, err
			}
			changed = changed || improved
		}
		if !changed {
			return o.sweep + 1, nil
		}
	}
	return limit, fmt.Errorf("no fixed point after %d sweeps: %w", limit, ErrCorruptTable)
}

// relaxFrom extends every reachable (i, k) to every other performance j.
func (o *optimizer) relaxFrom(i int) (bool, error) {
	from := o.m.Performances[i]
	improved := false
	for k := 0; k <= o.budget; k++ {
		src := o.cells[i][k]
		if !src.reached {
			continue
		}
		for j, to := range o.m.Performances {
			if j == i {
				continue
			}
			rec := trace.RelaxationRecord{Sweep: o.sweep, From: i, FromChanges: k, To: j, ToChanges: k}
			overflow := func(err error) error {
				return fmt.Errorf("transition (%d, %d) -> %d: %w", i, k, j, err)
			}

			arrive, ok := addInt64(from.End, o.m.Distance.Between(from.Stage, to.Stage))
			if !ok {
				return improved, overflow(ErrOverflow)
			}
			if arrive > to.End {
				rec.Outcome = trace.OutcomeLate
				o.trace.Record(rec)
				continue
			}

			change := 0
			if from.Stage != to.Stage {
				change = 1
			}
			rec.ToChanges = k + change
			if k+change > o.budget {
				rec.Outcome = trace.OutcomeBudget
				o.trace.Record(rec)
				continue
			}

			watchStart := max(arrive, to.Start)
			if to.End-watchStart <= 0 {
				rec.Outcome = trace.OutcomeNoWatch
				o.trace.Record(rec)
				continue
			}

			watched, err := Satisfaction(to, watchStart, to.End)
			if err != nil {
				return improved, overflow(err)
			}
			gain, ok := addInt64(watched, o.m.Combos.Bonus(i, j))
			if !ok {
				return improved, overflow(ErrOverflow)
			}
			candidate, ok := addInt64(src.value, gain)
			if !ok {
				return improved, overflow(ErrOverflow)
			}
			rec.Arrival, rec.Gain, rec.Candidate = watchStart, gain, candidate

			dst := &o.cells[j][k+change]
			if dst.reached && candidate <= dst.value {
				rec.Outcome = trace.OutcomeKept
				o.trace.Record(rec)
				continue
			}
			*dst = cell{reached: true, value: candidate, arrival: watchStart, prev: &State{Performance: i, Changes: k}}
			improved = true
			rec.Outcome = trace.OutcomeImproved
			o.trace.Record(rec)
		}
	}
	return improved, nil
}

// best scans (i asc, k asc) and keeps the first strictly greater value.
// The base cases guarantee at least one reached cell.
func (o *optimizer) best() State {
	var terminal State
	found := false
	var bestValue int64
	for i := range o.cells {
		for k, c := range o.cells[i] {
			if !c.reached {
				continue
			}
			if !found || c.value > bestValue {
				terminal, bestValue, found = State{Performance: i, Changes: k}, c.value, true
			}
		}
	}
	return terminal
}
