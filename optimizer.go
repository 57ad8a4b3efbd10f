package qaoa

import (
	"context"
	"math"

	"github.com/theapemachine/errnie"
)

// ObjectiveFunc is the function an Optimizer minimizes.
type ObjectiveFunc func(angles []float64) (float64, error)

// Optimum is the best point an optimizer found.
type Optimum struct {
	Angles      []float64
	Value       float64
	Evaluations int
}

/*
Optimizer minimizes an objective over angle vectors of the same length as
initial. Implementations stop early with ctx.Err() when the context ends.
*/
type Optimizer interface {
	Minimize(ctx context.Context, objective ObjectiveFunc, initial []float64) (Optimum, error)
}

/*
GridSearch evaluates the objective on a regular grid of resolution points per
angle over [0, 2π). The first point with the lowest value wins.
*/
type GridSearch struct {
	resolution int
	maxPoints  uint64
}

/*
NewGridSearch creates a grid search.

Parameters:
  - resolution: grid points per angle, at least 1
  - maxPoints: upper bound on the total number of grid points, 0 for no bound

Returns:
  - *GridSearch: the optimizer
  - error: an InvalidArgumentError for a non-positive resolution
*/
func NewGridSearch(resolution int, maxPoints uint64) (*GridSearch, error) {
	if resolution < 1 {
		return nil, invalidArgument("resolution", "must be at least 1, got %d", resolution)
	}

	return &GridSearch{
		resolution: resolution,
		maxPoints:  maxPoints,
	}, nil
}

// Points returns resolution^dims, or an error once it passes the budget.
func (gs *GridSearch) Points(dims int) (uint64, error) {
	limit := gs.maxPoints
	if limit == 0 {
		limit = math.MaxUint64
	}

	points := uint64(1)
	for d := 0; d < dims; d++ {
		if points > limit/uint64(gs.resolution) {
			return 0, &ResourceExhaustedError{
				Resource:  "grid points",
				Limit:     limit,
				Requested: saturatingPow(uint64(gs.resolution), dims),
			}
		}
		points *= uint64(gs.resolution)
	}

	return points, nil
}

// Minimize implements Optimizer.
func (gs *GridSearch) Minimize(ctx context.Context, objective ObjectiveFunc, initial []float64) (Optimum, error) {
	dims := len(initial)
	if dims == 0 {
		return Optimum{}, invalidArgument("initial", "no angles to optimize")
	}

	points, err := gs.Points(dims)
	if err != nil {
		return Optimum{}, err
	}

	errnie.Info("GridSearch - %d angles, %d points", dims, points)

	step := 2 * math.Pi / float64(gs.resolution)
	index := make([]int, dims)
	angles := make([]float64, dims)

	best := Optimum{Value: math.Inf(1)}

	for p := uint64(0); p < points; p++ {
		if err := ctx.Err(); err != nil {
			return best, err
		}

		for d, i := range index {
			angles[d] = float64(i) * step
		}

		value, err := objective(angles)
		if err != nil {
			return best, err
		}
		best.Evaluations++

		if value < best.Value {
			best.Value = value
			best.Angles = append(best.Angles[:0], angles...)
		}

		// Odometer increment, last angle fastest.
		for d := dims - 1; d >= 0; d-- {
			index[d]++
			if index[d] < gs.resolution {
				break
			}
			index[d] = 0
		}
	}

	return best, nil
}

func saturatingPow(base uint64, exp int) uint64 {
	result := uint64(1)
	for i := 0; i < exp; i++ {
		if base != 0 && result > math.MaxUint64/base {
			return math.MaxUint64
		}
		result *= base
	}
	return result
}
