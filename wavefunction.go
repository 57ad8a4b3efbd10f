package qaoa

import (
	"math/rand/v2"
)

/*
Evaluator reduces a final register to the expected profit of measuring it.
*/
type Evaluator interface {
	Evaluate(r Register) float64
}

/*
Exact sums |amplitude|²·profit over all basis states, skipping bitstrings that
exceed the capacity.
*/
type Exact struct{}

// Evaluate implements Evaluator.
func (Exact) Evaluate(r Register) float64 {
	var expectation float64
	for _, state := range r {
		if !state.Feasible {
			continue
		}
		expectation += state.Probability() * float64(state.Profit)
	}
	return expectation
}

/*
Sampler estimates the expectation by measuring the register repeatedly. Each
measurement draws a uniform value in [0, 1) and picks the first basis state
whose cumulative probability exceeds it. The generator is explicitly seeded,
so a Sampler reproduces its sequence of estimates.
*/
type Sampler struct {
	samples int
	rng     *rand.Rand
}

/*
NewSampler creates a sampling evaluator.

Parameters:
  - samples: measurements per evaluation, at least 1
  - seed: seed of the PCG generator

Returns:
  - *Sampler: the evaluator
  - error: an InvalidArgumentError for a non-positive sample count
*/
func NewSampler(samples int, seed uint64) (*Sampler, error) {
	if samples < 1 {
		return nil, invalidArgument("samples", "must be at least 1, got %d", samples)
	}

	return &Sampler{
		samples: samples,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Evaluate implements Evaluator.
func (s *Sampler) Evaluate(r Register) float64 {
	if len(r) == 0 {
		return 0
	}

	cumulative := make([]float64, len(r))
	var total float64
	for i, state := range r {
		total += state.Probability()
		cumulative[i] = total
	}

	var expectation float64
	for sample := 0; sample < s.samples; sample++ {
		state := r[s.Measure(cumulative)]
		if state.Feasible {
			expectation += float64(state.Profit)
		}
	}

	return expectation / float64(s.samples)
}

/*
Measure draws one basis index from a cumulative distribution. When rounding
leaves the last cumulative value below the drawn number, the measurement
collapses onto the last state that carries any probability.
*/
func (s *Sampler) Measure(cumulative []float64) int {
	x := s.rng.Float64()

	for i, c := range cumulative {
		if c > x {
			return i
		}
	}

	// Fallback collapse
	for i := len(cumulative) - 1; i > 0; i-- {
		if cumulative[i] > cumulative[i-1] {
			return i
		}
	}
	return 0
}
