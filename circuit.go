package qaoa

import (
	"math/cmplx"
	"time"
)

/*
Circuit is the quasi-adiabatic evolution of fixed depth: an initial state
followed by depth rounds of phase separation and mixing. It carries every
piece of context an evaluation needs, so repeated calls from an optimizer
share nothing but the circuit itself.
*/
type Circuit struct {
	depth     int
	mixer     Mixer
	evaluator Evaluator
	metrics   *Metrics
}

/*
NewCircuit creates a circuit.

Parameters:
  - depth: number of {phase separation, mixing} rounds, at least 1
  - mixer: the QTG or Copula variant
  - evaluator: reduces the final register to an expectation value; nil selects Exact

Returns:
  - *Circuit: the circuit
  - error: an InvalidArgumentError for a non-positive depth or a nil mixer
*/
func NewCircuit(depth int, mixer Mixer, evaluator Evaluator) (*Circuit, error) {
	if depth < 1 {
		return nil, invalidArgument("depth", "must be at least 1, got %d", depth)
	}

	if mixer == nil {
		return nil, invalidArgument("mixer", "must not be nil")
	}

	if evaluator == nil {
		evaluator = Exact{}
	}

	return &Circuit{
		depth:     depth,
		mixer:     mixer,
		evaluator: evaluator,
		metrics:   NewMetrics(),
	}, nil
}

// Depth returns the number of rounds.
func (c *Circuit) Depth() int {
	return c.depth
}

// Metrics returns the evaluation metrics collected by Objective.
func (c *Circuit) Metrics() *Metrics {
	return c.metrics
}

/*
PhaseSeparation multiplies every amplitude by e^{-iγ·profit}. The objective
Hamiltonian is diagonal, so basis states never interact here.
*/
func PhaseSeparation(r Register, gamma float64) {
	for i := range r {
		r[i].Amplitude *= cmplx.Exp(complex(0, -gamma*float64(r[i].Profit)))
	}
}

/*
Evolve runs the circuit for one angle vector. Even positions hold the γ
angles, odd positions the β angles.

Returns:
  - Register: a freshly allocated final state owned by the caller
  - error: an InvalidArgumentError when len(angles) != 2·depth
*/
func (c *Circuit) Evolve(angles []float64) (Register, error) {
	if len(angles) != 2*c.depth {
		return nil, invalidArgument("angles", "expected %d values for depth %d, got %d", 2*c.depth, c.depth, len(angles))
	}

	r := c.mixer.InitialState()

	for j := 0; j < c.depth; j++ {
		PhaseSeparation(r, angles[2*j])

		if err := c.mixer.Mix(r, angles[2*j+1]); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Expectation evolves the circuit and returns the expected profit.
func (c *Circuit) Expectation(angles []float64) (float64, error) {
	r, err := c.Evolve(angles)
	if err != nil {
		return 0, err
	}

	return c.evaluator.Evaluate(r), nil
}

/*
Objective is the function handed to a minimizing optimizer: the negated
expected profit. Every call is recorded in the circuit metrics.
*/
func (c *Circuit) Objective(angles []float64) (float64, error) {
	start := time.Now()

	expectation, err := c.Expectation(angles)
	if err != nil {
		c.metrics.recordEvaluation(start, 0, err)
		return 0, err
	}

	value := -expectation
	c.metrics.recordEvaluation(start, value, nil)
	return value, nil
}
