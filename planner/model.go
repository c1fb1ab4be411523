package planner

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
)

// Performance is one broadcast in the festival catalog.
type Performance struct {
	ID     int    // 0-based position in input order
	Name   string // optional label, empty for stream input
	Stage  int    // index into the distance matrix
	Start  int64  // own broadcast start (inclusive)
	End    int64  // own broadcast end (exclusive), Start < End
	Base   int64  // hype at Start
	Growth int64  // hype increase per time unit since Start, >= 0
}

// DistanceMatrix holds travel times between stages: d[a][b] is the time from a to b.
type DistanceMatrix [][]int64

// Between returns the travel time from stage a to stage b.
func (d DistanceMatrix) Between(a, b int) int64 {
	return d[a][b]
}

// Pair is a directed (previous, next) performance pair.
type Pair struct {
	From int
	To   int
}

// ComboBonus maps directed performance pairs to the bonus for watching them back to back.
// Pairs that are not present carry no bonus.
type ComboBonus map[Pair]int64

// Bonus returns the bonus for watching to immediately after from.
func (c ComboBonus) Bonus(from, to int) int64 {
	return c[Pair{From: from, To: to}]
}

// Combo is one combo entry as it appears in the input.
type Combo struct {
	From  int
	To    int
	Bonus int64
}

// Model is the validated, immutable input of one optimization run.
type Model struct {
	Stages       int            // stage count S
	MaxChanges   int            // stage-change budget K
	Distance     DistanceMatrix // S x S
	Performances []Performance  // catalog; Performances[i].ID == i
	Combos       ComboBonus
}

// NewModel validates the inputs and builds a Model. Performance IDs are reassigned
// to their position in perfs. Duplicate combos keep the last bonus.
func NewModel(stages, maxChanges int, distance [][]int64, perfs []Performance, combos []Combo) (*Model, error) {
	if stages < 0 {
		return nil, fmt.Errorf("stage count must be non-negative, got %d: %w", stages, ErrInvalidModel)
	}
	if maxChanges < 0 {
		return nil, fmt.Errorf("max stage changes must be non-negative, got %d: %w", maxChanges, ErrInvalidModel)
	}
	dist, err := buildDistance(stages, distance)
	if err != nil {
		return nil, err
	}

	catalog := make([]Performance, len(perfs))
	for i, p := range perfs {
		p.ID = i
		if err := validatePerformance(p, stages); err != nil {
			return nil, err
		}
		catalog[i] = p
	}

	bonus := make(ComboBonus, len(combos))
	for i, c := range combos {
		if c.From < 0 || c.From >= len(catalog) || c.To < 0 || c.To >= len(catalog) {
			return nil, fmt.Errorf("combos[%d]: performance ids (%d, %d) outside [0, %d): %w",
				i, c.From, c.To, len(catalog), ErrInvalidModel)
		}
		key := Pair{From: c.From, To: c.To}
		if c.From == c.To {
			logrus.Warnf("combos[%d]: self pair (%d, %d) can never apply", i, c.From, c.To)
		}
		if prev, dup := bonus[key]; dup {
			logrus.Warnf("combos[%d]: duplicate pair (%d, %d); bonus %d replaces %d", i, c.From, c.To, c.Bonus, prev)
		}
		bonus[key] = c.Bonus
	}

	return &Model{
		Stages:       stages,
		MaxChanges:   maxChanges,
		Distance:     dist,
		Performances: catalog,
		Combos:       bonus,
	}, nil
}

func buildDistance(stages int, distance [][]int64) (DistanceMatrix, error) {
	if len(distance) != stages {
		return nil, fmt.Errorf("distance matrix has %d rows, want %d: %w", len(distance), stages, ErrInvalidModel)
	}
	dist := make(DistanceMatrix, stages)
	for a, row := range distance {
		if len(row) != stages {
			return nil, fmt.Errorf("distance[%d] has %d columns, want %d: %w", a, len(row), stages, ErrInvalidModel)
		}
		dist[a] = make([]int64, stages)
		for b, v := range row {
			if v < 0 {
				return nil, fmt.Errorf("distance[%d][%d] must be non-negative, got %d: %w", a, b, v, ErrInvalidModel)
			}
			dist[a][b] = v
		}
		if row[a] != 0 {
			logrus.Warnf("distance[%d][%d] = %d; staying on a stage costs travel time", a, a, row[a])
		}
	}
	return dist, nil
}

func validatePerformance(p Performance, stages int) error {
	prefix := fmt.Sprintf("performances[%d]", p.ID)
	if p.Stage < 0 || p.Stage >= stages {
		return fmt.Errorf("%s: stage %d outside [0, %d): %w", prefix, p.Stage, stages, ErrInvalidModel)
	}
	if p.Start >= p.End {
		return fmt.Errorf("%s: start %d must be before end %d: %w", prefix, p.Start, p.End, ErrInvalidModel)
	}
	if p.Growth < 0 {
		return fmt.Errorf("%s: growth must be non-negative, got %d: %w", prefix, p.Growth, ErrInvalidModel)
	}
	if _, ok := subInt64(p.End, p.Start); !ok {
		return fmt.Errorf("%s: broadcast length: %w", prefix, ErrOverflow)
	}
	return nil
}

// WithMaxChanges returns a shallow copy of the model with a different stage-change budget.
func (m *Model) WithMaxChanges(k int) (*Model, error) {
	if k < 0 {
		return nil, fmt.Errorf("max stage changes must be non-negative, got %d: %w", k, ErrInvalidModel)
	}
	cp := *m
	cp.MaxChanges = k
	return &cp, nil
}

// Without returns a copy of the model with performance id removed from the catalog.
// Remaining performances are renumbered and combos touching id are dropped.
func (m *Model) Without(id int) (*Model, error) {
	if id < 0 || id >= len(m.Performances) {
		return nil, fmt.Errorf("performance %d outside [0, %d): %w", id, len(m.Performances), ErrInvalidModel)
	}
	renumber := func(old int) int {
		if old > id {
			return old - 1
		}
		return old
	}
	perfs := make([]Performance, 0, len(m.Performances)-1)
	for _, p := range m.Performances {
		if p.ID != id {
			perfs = append(perfs, p)
		}
	}
	combos := make([]Combo, 0, len(m.Combos))
	for _, pair := range m.sortedPairs() {
		if pair.From == id || pair.To == id {
			continue
		}
		combos = append(combos, Combo{From: renumber(pair.From), To: renumber(pair.To), Bonus: m.Combos[pair]})
	}
	return NewModel(m.Stages, m.MaxChanges, m.Distance, perfs, combos)
}

// ComboList returns the combos in (From, To) order.
func (m *Model) ComboList() []Combo {
	pairs := m.sortedPairs()
	out := make([]Combo, len(pairs))
	for i, pair := range pairs {
		out[i] = Combo{From: pair.From, To: pair.To, Bonus: m.Combos[pair]}
	}
	return out
}

func (m *Model) sortedPairs() []Pair {
	pairs := make([]Pair, 0, len(m.Combos))
	for pair := range m.Combos {
		pairs = append(pairs, pair)
	}
	slices.SortFunc(pairs, func(a, b Pair) int {
		if a.From != b.From {
			return cmp.Compare(a.From, b.From)
		}
		return cmp.Compare(a.To, b.To)
	})
	return pairs
}
