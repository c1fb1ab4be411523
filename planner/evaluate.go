package planner

import "fmt"

// Evaluation is an independent recomputation of a schedule.
type Evaluation struct {
	Total        int64
	StageChanges int
	Visits       Schedule // input visits with Satisfaction and Bonus filled
}

// PlanVisits derives the earliest arrival at each performance of an ordered id list:
// the first is watched from its Start, each next one from max(prev.End + walk, Start).
// The result is not checked for feasibility; pass it to Evaluate.
func PlanVisits(m *Model, ids []int) (Schedule, error) {
	visits := make(Schedule, 0, len(ids))
	for idx, id := range ids {
		if id < 0 || id >= len(m.Performances) {
			return nil, fmt.Errorf("visit %d: performance %d outside [0, %d): %w", idx, id, len(m.Performances), ErrInfeasible)
		}
		p := m.Performances[id]
		arrival := p.Start
		if idx > 0 {
			prev := m.Performances[ids[idx-1]]
			arrive, ok := addInt64(prev.End, m.Distance.Between(prev.Stage, p.Stage))
			if !ok {
				return nil, fmt.Errorf("visit %d: arrival: %w", idx, ErrOverflow)
			}
			arrival = max(arrive, p.Start)
		}
		visits = append(visits, Visit{Performance: id, Arrival: arrival, Departure: p.End})
	}
	return visits, nil
}

// Evaluate checks that visits form a feasible schedule for m and recomputes its total
// from the evaluator and combo bonuses alone.
func Evaluate(m *Model, visits []Visit) (*Evaluation, error) {
	checked := make(Schedule, len(visits))
	copy(checked, visits)
	changes := 0
	for idx, v := range checked {
		if v.Performance < 0 || v.Performance >= len(m.Performances) {
			return nil, fmt.Errorf("visit %d: performance %d outside [0, %d): %w", idx, v.Performance, len(m.Performances), ErrInfeasible)
		}
		p := m.Performances[v.Performance]
		switch {
		case v.Departure != p.End:
			return nil, fmt.Errorf("visit %d: departure %d, performance %d ends at %d: %w", idx, v.Departure, p.ID, p.End, ErrInfeasible)
		case v.Arrival < p.Start:
			return nil, fmt.Errorf("visit %d: arrival %d before performance %d starts at %d: %w", idx, v.Arrival, p.ID, p.Start, ErrInfeasible)
		case v.Arrival >= p.End:
			return nil, fmt.Errorf("visit %d: arrival %d leaves no time before %d: %w", idx, v.Arrival, p.End, ErrInfeasible)
		}
		if idx == 0 {
			continue
		}
		prev := m.Performances[checked[idx-1].Performance]
		walk := m.Distance.Between(prev.Stage, p.Stage)
		earliest, ok := addInt64(prev.End, walk)
		if !ok {
			return nil, fmt.Errorf("visit %d: arrival: %w", idx, ErrOverflow)
		}
		if v.Arrival < earliest {
			return nil, fmt.Errorf("visit %d: arrival %d before %d (performance %d ends at %d, walk %d): %w",
				idx, v.Arrival, earliest, prev.ID, prev.End, walk, ErrInfeasible)
		}
		if prev.Stage != p.Stage {
			changes++
		}
	}
	if changes > m.MaxChanges {
		return nil, fmt.Errorf("%d stage changes exceed budget %d: %w", changes, m.MaxChanges, ErrInfeasible)
	}
	if err := fillBreakdown(m, checked); err != nil {
		return nil, err
	}
	total, err := checked.Total()
	if err != nil {
		return nil, err
	}
	return &Evaluation{Total: total, StageChanges: changes, Visits: checked}, nil
}
