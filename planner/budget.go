package planner

import "fmt"

// BudgetPoint is the optimum for one stage-change budget.
type BudgetPoint struct {
	MaxChanges      int   `json:"max_changes" yaml:"max_changes"`
	MaxSatisfaction int64 `json:"max_satisfaction" yaml:"max_satisfaction"`
	StageChanges    int   `json:"stage_changes" yaml:"stage_changes"` // changes used by the optimum
}

// SweepBudget optimizes m for every budget k = 0..min(K, P-1). Larger budgets cannot be
// consumed by any path, so their optimum equals the last point. The MaxSatisfaction
// sequence is non-decreasing.
func SweepBudget(m *Model, opts Options) ([]BudgetPoint, error) {
	highest := min(m.MaxChanges, max(len(m.Performances)-1, 0))
	points := make([]BudgetPoint, 0, highest+1)
	for k := 0; k <= highest; k++ {
		mk, err := m.WithMaxChanges(k)
		if err != nil {
			return nil, err
		}
		res, err := Optimize(mk, Options{Strategy: opts.Strategy})
		if err != nil {
			return nil, fmt.Errorf("budget %d: %w", k, err)
		}
		points = append(points, BudgetPoint{MaxChanges: k, MaxSatisfaction: res.MaxSatisfaction, StageChanges: res.StageChanges})
	}
	return points, nil
}
