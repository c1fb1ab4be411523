package planner

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/festival-sim/planner/trace"
)

func TestOptimize_SinglePerformance_BaseCase(t *testing.T) {
	// GIVEN one performance on one stage with K=0 and no combos
	m := mustModel(t, 1, 0, [][]int64{{0}}, []Performance{{Stage: 0, Start: 0, End: 30, Base: 10, Growth: 2}}, nil)

	// WHEN optimized
	res, err := Optimize(m, Options{})

	// THEN the base case wins with the whole broadcast watched
	require.NoError(t, err)
	assert.Equal(t, int64(1170), res.MaxSatisfaction)
	assert.Equal(t, Schedule{{Performance: 0, Arrival: 0, Departure: 30, Satisfaction: 1170}}, res.Schedule)
	assert.Equal(t, &State{Performance: 0, Changes: 0}, res.Terminal)
	assert.Equal(t, StrategyEndTime, res.Strategy)
}

func TestOptimize_EmptyCatalog_ZeroSatisfaction(t *testing.T) {
	m := mustModel(t, 0, 0, nil, nil, nil)
	res, err := Optimize(m, Options{})
	require.NoError(t, err)
	assert.Zero(t, res.MaxSatisfaction)
	assert.Empty(t, res.Schedule)
	assert.Nil(t, res.Terminal)
}

func TestOptimize_DemoCatalog_FindsDemoSchedule(t *testing.T) {
	res, err := Optimize(DemoModel(), Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(3645), res.MaxSatisfaction)
	assert.Equal(t, []int{0, 3, 2}, res.Schedule.IDs())
	assert.Equal(t, 1, res.StageChanges)
}

func TestOptimize_MatchesBruteForce_RandomModels(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 0; n < 300; n++ {
		m := randomModel(t, rng)
		want := bruteForce(t, m)
		for _, s := range []Strategy{StrategyEndTime, StrategyFixedPoint} {
			res, err := Optimize(m, Options{Strategy: s})
			require.NoError(t, err, "model %d strategy %s", n, s)
			require.Equal(t, want, res.MaxSatisfaction, "model %d strategy %s: %+v", n, s, m)
		}
	}
}

func TestOptimize_ReconstructedTotalEqualsMaximum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 200; n++ {
		m := randomModel(t, rng)
		res, err := Optimize(m, Options{})
		require.NoError(t, err)

		// Recompute independently from the visits alone
		ev, err := Evaluate(m, res.Schedule)
		require.NoError(t, err, "model %d schedule %v", n, res.Schedule)
		assert.Equal(t, res.MaxSatisfaction, ev.Total, "model %d", n)
		assert.Equal(t, res.StageChanges, ev.StageChanges, "model %d", n)
	}
}

func TestOptimize_ComboBonusAppliedOncePerConsecutivePair(t *testing.T) {
	// GIVEN two back-to-back performances on different stages and a directed bonus B
	for _, bonus := range []int64{0, 1, 17, 5000} {
		m := mustModel(t, 2, 1, twoStageDistance(), []Performance{
			{Stage: 0, Start: 0, End: 30, Base: 10, Growth: 2},
			{Stage: 1, Start: 30, End: 60, Base: 5, Growth: 1},
		}, []Combo{{From: 0, To: 1, Bonus: bonus}})

		// WHEN optimized
		res, err := Optimize(m, Options{})
		require.NoError(t, err)

		// THEN the reported max equals evaluator outputs plus B exactly once
		require.Equal(t, []int{0, 1}, res.Schedule.IDs())
		first, _ := Satisfaction(m.Performances[0], 0, 30)
		second, _ := Satisfaction(m.Performances[1], 35, 60)
		assert.Equal(t, first+second+bonus, res.MaxSatisfaction, "bonus %d", bonus)
		assert.Equal(t, bonus, res.Schedule[1].Bonus)
		assert.Zero(t, res.Schedule[0].Bonus)
	}
}

func TestOptimize_ZeroBudget_NeverChangesStage(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for n := 0; n < 200; n++ {
		m, err := randomModel(t, rng).WithMaxChanges(0)
		require.NoError(t, err)
		res, err := Optimize(m, Options{})
		require.NoError(t, err)
		for i := 1; i < len(res.Schedule); i++ {
			prev := m.Performances[res.Schedule[i-1].Performance]
			cur := m.Performances[res.Schedule[i].Performance]
			require.Equal(t, prev.Stage, cur.Stage, "model %d visit %d", n, i)
		}
		assert.Zero(t, res.StageChanges)
	}
}

func TestOptimize_MaximumNonDecreasingInBudget(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for n := 0; n < 100; n++ {
		m := randomModel(t, rng)
		var prev int64
		for k := 0; k <= 5; k++ {
			mk, err := m.WithMaxChanges(k)
			require.NoError(t, err)
			res, err := Optimize(mk, Options{})
			require.NoError(t, err)
			if k > 0 {
				require.GreaterOrEqual(t, res.MaxSatisfaction, prev, "model %d k %d", n, k)
			}
			prev = res.MaxSatisfaction
		}
	}
}

func TestOptimize_UnreachablePerformance_HasNoOutgoingTransitions(t *testing.T) {
	// GIVEN a far stage: anything on stage 1 can never reach stage 0 in time
	m := mustModel(t, 2, 2, [][]int64{{0, 1}, {1000, 0}}, []Performance{
		{Stage: 1, Start: 0, End: 10, Base: 1},
		{Stage: 0, Start: 20, End: 40, Base: 2},
		{Stage: 0, Start: 0, End: 10, Base: 2},
	}, nil)
	rt := trace.NewRelaxationTrace(trace.LevelRelaxations)

	// WHEN optimized with tracing
	_, err := Optimize(m, Options{Trace: rt})
	require.NoError(t, err)

	// THEN every transition out of performance 0 toward stage 0 is late
	for _, r := range rt.Records {
		if r.From == 0 {
			assert.Equal(t, trace.OutcomeLate, r.Outcome, "%+v", r)
		}
	}
}

func TestOptimize_RemovingUnselectedPerformance_KeepsMaximum(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for n := 0; n < 100; n++ {
		m := randomModel(t, rng)
		res, err := Optimize(m, Options{})
		require.NoError(t, err)
		selected := map[int]bool{}
		for _, id := range res.Schedule.IDs() {
			selected[id] = true
		}
		for id := range m.Performances {
			if selected[id] {
				continue
			}
			reduced, err := m.Without(id)
			require.NoError(t, err)
			got, err := Optimize(reduced, Options{})
			require.NoError(t, err)
			require.Equal(t, res.MaxSatisfaction, got.MaxSatisfaction, "model %d without %d", n, id)
		}
	}
}

func TestOptimize_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for n := 0; n < 50; n++ {
		m := randomModel(t, rng)
		first, err := Optimize(m, Options{})
		require.NoError(t, err)
		second, err := Optimize(m, Options{})
		require.NoError(t, err)
		assert.Equal(t, first, second, "model %d", n)
	}
}

func TestOptimize_ReversedChain_EndTimeAndFixedPointFindChain(t *testing.T) {
	for _, s := range []Strategy{StrategyEndTime, StrategyFixedPoint} {
		res, err := Optimize(reversedChain(t), Options{Strategy: s})
		require.NoError(t, err, s)
		assert.Equal(t, int64(30), res.MaxSatisfaction, s)
		assert.Equal(t, []int{2, 1, 0}, res.Schedule.IDs(), s)
	}
}

func TestOptimize_ReversedChain_IndexOrderDetectsStaleBackPointer(t *testing.T) {
	// GIVEN a chain relaxed in id order: performance 1 improves after it already fed 0
	_, err := Optimize(reversedChain(t), Options{Strategy: StrategyIndexOrder})

	// THEN reconstruction notices the path and the table disagree
	assert.True(t, errors.Is(err, ErrCorruptTable), "got %v", err)
}

func TestOptimize_SplitStageChain_IndexOrderMissesOptimum(t *testing.T) {
	m := splitStageChain(t)

	exact, err := Optimize(m, Options{Strategy: StrategyEndTime})
	require.NoError(t, err)
	naive, err := Optimize(m, Options{Strategy: StrategyIndexOrder})
	require.NoError(t, err)

	assert.Equal(t, int64(30), exact.MaxSatisfaction)
	assert.Equal(t, 1, exact.StageChanges)
	assert.Equal(t, int64(20), naive.MaxSatisfaction)
	assert.Equal(t, []int{1, 0}, naive.Schedule.IDs())
}

func TestOptimize_FixedPoint_CountsSweeps(t *testing.T) {
	res, err := Optimize(reversedChain(t), Options{Strategy: StrategyFixedPoint})
	require.NoError(t, err)
	// sweep 1 reaches 1 via 2, sweep 2 reaches 0 via 1, sweep 3 confirms
	assert.Equal(t, 3, res.Sweeps)
}

func TestOptimize_HugeBudget_ClampsTable(t *testing.T) {
	m, err := DemoModel().WithMaxChanges(math.MaxInt32)
	require.NoError(t, err)
	res, err := Optimize(m, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(3720), res.MaxSatisfaction)
	assert.Equal(t, 3, res.StageChanges)
}

func TestOptimize_Overflow_ReturnsError(t *testing.T) {
	big := int64(math.MaxInt64/2 + 1)
	m := mustModel(t, 1, 0, [][]int64{{0}}, []Performance{
		{Stage: 0, Start: 0, End: 1, Base: big},
		{Stage: 0, Start: 1, End: 2, Base: big},
	}, nil)
	_, err := Optimize(m, Options{})
	assert.True(t, errors.Is(err, ErrOverflow), "got %v", err)
}

func TestOptimize_InvalidOptions(t *testing.T) {
	_, err := Optimize(DemoModel(), Options{Strategy: "greedy"})
	assert.Error(t, err)

	_, err = Optimize(nil, Options{})
	assert.True(t, errors.Is(err, ErrInvalidModel))
}

func TestOptimize_Trace_RecordsEveryOutcome(t *testing.T) {
	// GIVEN the demo catalog with K=0 so stage changes hit the budget
	m, err := DemoModel().WithMaxChanges(0)
	require.NoError(t, err)
	rt := trace.NewRelaxationTrace(trace.LevelRelaxations)

	// WHEN optimized with tracing
	res, err := Optimize(m, Options{Trace: rt})
	require.NoError(t, err)

	// THEN late, budget and improved outcomes all appear and the best candidate is the max
	summary := trace.Summarize(rt)
	assert.Positive(t, summary.ByOutcome[trace.OutcomeLate])
	assert.Positive(t, summary.ByOutcome[trace.OutcomeBudget])
	assert.Positive(t, summary.Improvements)
	assert.Equal(t, res.MaxSatisfaction, summary.MaxCandidate)
}

func TestOptimize_NilTrace_NoRecording(t *testing.T) {
	rt := trace.NewRelaxationTrace(trace.LevelNone)
	_, err := Optimize(DemoModel(), Options{Trace: rt})
	require.NoError(t, err)
	assert.Empty(t, rt.Records)
}
