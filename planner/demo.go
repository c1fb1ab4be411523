package planner

// DemoModel returns the fixed four-performance festival used by the demo command.
// P0 and P3 play on stage 0, P1 and P2 on stage 1, five time units apart.
func DemoModel() *Model {
	m, err := NewModel(2, 1,
		[][]int64{{0, 5}, {5, 0}},
		[]Performance{
			{Name: "P0", Stage: 0, Start: 0, End: 30, Base: 10, Growth: 2},
			{Name: "P1", Stage: 1, Start: 20, End: 50, Base: 15, Growth: 1},
			{Name: "P2", Stage: 1, Start: 60, End: 90, Base: 20, Growth: 3},
			{Name: "P3", Stage: 0, Start: 40, End: 70, Base: 25, Growth: 1},
		},
		nil,
	)
	if err != nil {
		panic(err) // static input
	}
	return m
}

// DemoSchedule returns the fixed demonstration schedule P0 -> P3 -> P2.
func DemoSchedule() Schedule {
	return Schedule{
		{Performance: 0, Arrival: 0, Departure: 30},
		{Performance: 3, Arrival: 40, Departure: 70},
		{Performance: 2, Arrival: 75, Departure: 90},
	}
}
