package planner

import "fmt"

// HypeAt returns the instantaneous hype of p at time t: Base + Growth*(t - Start).
func HypeAt(p Performance, t int64) (int64, error) {
	since, ok := subInt64(t, p.Start)
	if !ok {
		return 0, fmt.Errorf("hype of performance %d at %d: %w", p.ID, t, ErrOverflow)
	}
	grown, ok := mulInt64(p.Growth, since)
	if !ok {
		return 0, fmt.Errorf("hype of performance %d at %d: %w", p.ID, t, ErrOverflow)
	}
	hype, ok := addInt64(p.Base, grown)
	if !ok {
		return 0, fmt.Errorf("hype of performance %d at %d: %w", p.ID, t, ErrOverflow)
	}
	return hype, nil
}

// Satisfaction returns the hype accumulated by watching p over [watchStart, watchEnd):
//
//	duration*startHype + growth*duration*(duration-1)/2
//
// where startHype = HypeAt(p, watchStart). This is the arithmetic-progression sum of the
// hype over each unit interval. Callers clamp watchStart to p.Start or later.
func Satisfaction(p Performance, watchStart, watchEnd int64) (int64, error) {
	if watchEnd < watchStart {
		return 0, fmt.Errorf("performance %d: [%d, %d): %w", p.ID, watchStart, watchEnd, ErrInvalidInterval)
	}
	overflow := func(step string) error {
		return fmt.Errorf("satisfaction of performance %d over [%d, %d): %s: %w",
			p.ID, watchStart, watchEnd, step, ErrOverflow)
	}

	duration, ok := subInt64(watchEnd, watchStart)
	if !ok {
		return 0, overflow("duration")
	}
	startHype, err := HypeAt(p, watchStart)
	if err != nil {
		return 0, overflow("start hype")
	}
	flat, ok := mulInt64(duration, startHype)
	if !ok {
		return 0, overflow("duration*start_hype")
	}
	ramp, ok := mulInt64(p.Growth, duration)
	if !ok {
		return 0, overflow("growth*duration")
	}
	if ramp, ok = mulInt64(ramp, duration-1); !ok {
		return 0, overflow("growth*duration*(duration-1)")
	}
	total, ok := addInt64(flat, ramp/2)
	if !ok {
		return 0, overflow("sum")
	}
	return total, nil
}
