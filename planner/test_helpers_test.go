package planner

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// mustModel builds a model or fails the test.
func mustModel(t *testing.T, stages, k int, distance [][]int64, perfs []Performance, combos []Combo) *Model {
	t.Helper()
	m, err := NewModel(stages, k, distance, perfs, combos)
	require.NoError(t, err)
	return m
}

// bruteForce enumerates every feasible path and returns the best total.
// It shares no code with the optimizer beyond the evaluator.
func bruteForce(t *testing.T, m *Model) int64 {
	t.Helper()
	var best int64
	found := false
	var extend func(last, changes int, total int64)
	extend = func(last, changes int, total int64) {
		if !found || total > best {
			best, found = total, true
		}
		from := m.Performances[last]
		for j, to := range m.Performances {
			if j == last {
				continue
			}
			arrive := from.End + m.Distance[from.Stage][to.Stage]
			if arrive > to.End {
				continue
			}
			next := changes
			if from.Stage != to.Stage {
				next++
			}
			if next > m.MaxChanges {
				continue
			}
			watchStart := max(arrive, to.Start)
			if to.End-watchStart <= 0 {
				continue
			}
			gain, err := Satisfaction(to, watchStart, to.End)
			require.NoError(t, err)
			extend(j, next, total+gain+m.Combos.Bonus(last, j))
		}
	}
	for i, p := range m.Performances {
		v, err := Satisfaction(p, p.Start, p.End)
		require.NoError(t, err)
		extend(i, 0, v)
	}
	return best
}

// randomModel builds a small model from a seeded generator.
func randomModel(t *testing.T, rng *rand.Rand) *Model {
	t.Helper()
	stages := 1 + rng.Intn(3)
	distance := make([][]int64, stages)
	for a := range distance {
		distance[a] = make([]int64, stages)
		for b := range distance[a] {
			if a != b {
				distance[a][b] = int64(rng.Intn(12))
			}
		}
	}
	perfs := make([]Performance, 1+rng.Intn(7))
	for i := range perfs {
		start := int64(rng.Intn(80))
		perfs[i] = Performance{
			Stage:  rng.Intn(stages),
			Start:  start,
			End:    start + 1 + int64(rng.Intn(30)),
			Base:   int64(rng.Intn(20)),
			Growth: int64(rng.Intn(4)),
		}
	}
	var combos []Combo
	for c := rng.Intn(4); c > 0; c-- {
		combos = append(combos, Combo{
			From:  rng.Intn(len(perfs)),
			To:    rng.Intn(len(perfs)),
			Bonus: int64(rng.Intn(60) - 10),
		})
	}
	return mustModel(t, stages, rng.Intn(4), distance, perfs, combos)
}

// reversedChain is three back-to-back performances on one stage whose ids run
// against time: performance 2 plays first, performance 0 last.
func reversedChain(t *testing.T) *Model {
	t.Helper()
	return mustModel(t, 1, 0, [][]int64{{0}}, []Performance{
		{Stage: 0, Start: 20, End: 30, Base: 1},
		{Stage: 0, Start: 10, End: 20, Base: 1},
		{Stage: 0, Start: 0, End: 10, Base: 1},
	}, nil)
}

// splitStageChain is the reversed chain with the earliest performance moved to a
// second stage, zero walk, and a budget of one change.
func splitStageChain(t *testing.T) *Model {
	t.Helper()
	return mustModel(t, 2, 1, [][]int64{{0, 0}, {0, 0}}, []Performance{
		{Stage: 1, Start: 20, End: 30, Base: 1},
		{Stage: 1, Start: 10, End: 20, Base: 1},
		{Stage: 0, Start: 0, End: 10, Base: 1},
	}, nil)
}
