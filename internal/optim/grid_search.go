package optim

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/gyrosim/internal/dynamo"
)

// CostFunc scores a parameter set; lower is better. Non-finite costs are
// ignored.
type CostFunc func(p dynamo.Params) float64

type Result struct {
	Params    dynamo.Params
	Cost      float64
	Evaluated int
}

// GridSearch tries every combination of candidate values for the named
// parameters, holding the rest at the base values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, fmt.Errorf("grid of %d params and %d ranges: %w", len(params), len(ranges), dynamo.ErrInvalidConfig)
	}
	var probe dynamo.Params
	for i, name := range params {
		if _, err := probe.Get(name); err != nil {
			return nil, err
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("no candidates for %s: %w", name, dynamo.ErrInvalidConfig)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

func (g *GridSearch) Search(ctx context.Context, base dynamo.Params, cost CostFunc) (Result, error) {
	best := Result{Params: base, Cost: math.Inf(1)}
	if err := g.searchRecursive(ctx, 0, base, cost, &best); err != nil {
		return best, err
	}
	if math.IsInf(best.Cost, 1) {
		return best, fmt.Errorf("no finite cost in %d points: %w", best.Evaluated, dynamo.ErrInvalidConfig)
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current dynamo.Params, cost CostFunc, best *Result) error {
	if depth == len(g.paramNames) {
		if err := ctx.Err(); err != nil {
			return err
		}
		val := cost(current)
		best.Evaluated++
		if !math.IsNaN(val) && val < best.Cost {
			best.Cost = val
			best.Params = current
		}
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := current
		_ = next.Set(name, val)
		if err := g.searchRecursive(ctx, depth+1, next, cost, best); err != nil {
			return err
		}
	}
	return nil
}

// Refine runs rounds of grid searches, each one over points spread across
// one grid step either side of the previous best, clamped to the given
// bounds.
func Refine(ctx context.Context, base dynamo.Params, names []string, lo, hi []float64, points, rounds int, cost CostFunc) (Result, error) {
	if len(lo) != len(names) || len(hi) != len(names) || points < 2 || rounds < 1 {
		return Result{}, fmt.Errorf("refine points=%d rounds=%d: %w", points, rounds, dynamo.ErrInvalidConfig)
	}
	curLo := append([]float64(nil), lo...)
	curHi := append([]float64(nil), hi...)

	var best Result
	total := 0
	for r := 0; r < rounds; r++ {
		ranges := make([][]float64, len(names))
		for i := range names {
			ranges[i] = floats.Span(make([]float64, points), curLo[i], curHi[i])
		}
		g, err := NewGridSearch(names, ranges)
		if err != nil {
			return Result{}, err
		}
		res, err := g.Search(ctx, base, cost)
		total += res.Evaluated
		if err != nil {
			res.Evaluated = total
			return res, err
		}
		best = res
		base = res.Params

		for i, name := range names {
			v, _ := res.Params.Get(name)
			step := (curHi[i] - curLo[i]) / float64(points-1)
			curLo[i] = math.Max(lo[i], v-step)
			curHi[i] = math.Min(hi[i], v+step)
		}
	}
	best.Evaluated = total
	return best, nil
}
