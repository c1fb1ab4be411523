package planner

import (
	"fmt"
	"slices"
)

// Visit is one stop of a schedule. Departure is always the performance's End.
type Visit struct {
	Performance  int
	Arrival      int64 // watch start
	Departure    int64
	Satisfaction int64 // evaluator output for [Arrival, Departure)
	Bonus        int64 // combo bonus for arriving from the previous visit
}

// Schedule is an ordered sequence of visits in chronological order.
type Schedule []Visit

// IDs returns the performance ids of the schedule in order.
func (s Schedule) IDs() []int {
	ids := make([]int, len(s))
	for i, v := range s {
		ids[i] = v.Performance
	}
	return ids
}

// Total sums satisfaction and bonuses over the schedule.
func (s Schedule) Total() (int64, error) {
	var total int64
	for i, v := range s {
		var ok bool
		if total, ok = addInt64(total, v.Satisfaction); !ok {
			return 0, fmt.Errorf("schedule total at visit %d: %w", i, ErrOverflow)
		}
		if total, ok = addInt64(total, v.Bonus); !ok {
			return 0, fmt.Errorf("schedule total at visit %d: %w", i, ErrOverflow)
		}
	}
	return total, nil
}

// StageChanges counts consecutive visits on different stages.
func (s Schedule) StageChanges(m *Model) int {
	changes := 0
	for i := 1; i < len(s); i++ {
		if m.Performances[s[i-1].Performance].Stage != m.Performances[s[i].Performance].Stage {
			changes++
		}
	}
	return changes
}

// reconstruct walks back-pointers from terminal to the start of the path and returns the
// visits in chronological order with their satisfaction breakdown.
func (o *optimizer) reconstruct(terminal State) (Schedule, error) {
	var visits Schedule
	for cur, steps := &terminal, 0; cur != nil; steps++ {
		if steps >= len(o.m.Performances) {
			return nil, fmt.Errorf("back-pointer walk from (%d, %d) exceeds %d steps: %w",
				terminal.Performance, terminal.Changes, len(o.m.Performances), ErrCorruptTable)
		}
		c := o.cells[cur.Performance][cur.Changes]
		if !c.reached {
			return nil, fmt.Errorf("back-pointer to unreached state (%d, %d): %w",
				cur.Performance, cur.Changes, ErrCorruptTable)
		}
		visits = append(visits, Visit{
			Performance: cur.Performance,
			Arrival:     c.arrival,
			Departure:   o.m.Performances[cur.Performance].End,
		})
		cur = c.prev
	}
	slices.Reverse(visits)
	if err := fillBreakdown(o.m, visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// fillBreakdown sets Satisfaction and Bonus on each visit.
func fillBreakdown(m *Model, visits Schedule) error {
	for idx := range visits {
		v := &visits[idx]
		sat, err := Satisfaction(m.Performances[v.Performance], v.Arrival, v.Departure)
		if err != nil {
			return fmt.Errorf("visit %d: %w", idx, err)
		}
		v.Satisfaction = sat
		v.Bonus = 0
		if idx > 0 {
			v.Bonus = m.Combos.Bonus(visits[idx-1].Performance, v.Performance)
		}
	}
	return nil
}
