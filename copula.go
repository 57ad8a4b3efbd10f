package qaoa

import (
	"math"

	"github.com/theapemachine/errnie"
)

// maxCopulaQubits keeps 1<<n and the uint64 bitstring masks well defined.
const maxCopulaQubits = 62

/*
ProbabilityDistribution returns, per item, the inclusion probability the
Copula initial state is biased towards:

	p_i = 1 / (1 + c·exp(-k·(r_i - r_break)))

with c = Σcost / capacity - 1, r_i the profit/cost ratio of item i and
r_break the ratio of the break item. When every item fits, every item is
included with certainty. A free item with profit always fits and is always
included; with zero capacity nothing else fits.
*/
func ProbabilityDistribution(k *Knapsack, steepness float64) []float64 {
	dist := make([]float64, k.Size())

	stop := k.BreakItem()
	if stop < 0 {
		for i := range dist {
			dist[i] = 1
		}
		return dist
	}

	c := float64(k.CostSum())/float64(k.Capacity) - 1
	rStop := k.Items[stop].Ratio()

	for i, item := range k.Items {
		ratio := item.Ratio()

		switch {
		case math.IsInf(ratio, 1):
			dist[i] = 1
		case math.IsInf(c, 1):
			dist[i] = 0
		default:
			dist[i] = clampProb(1 / (1 + c*math.Exp(-steepness*(ratio-rStop))))
		}
	}

	return dist
}

/*
CopulaPairs returns the qubit pairs of one Copula mixing round over n qubits,
as two interleaved passes over the ring of adjacent qubits. The first pass
couples (1,2), (3,4), ... and, for even n, the wrap-around pair (n-1, 0). The
second pass couples (0,1), (2,3), ... and, for odd n, the wrap-around pair.
For n >= 3 every ring edge appears exactly once.
*/
func CopulaPairs(n int) [][2]int {
	if n < 2 {
		return nil
	}

	even := n%2 == 0
	pairs := make([][2]int, 0, n)

	for q := 1; q+1 <= n-1; q += 2 {
		pairs = append(pairs, [2]int{q, q + 1})
	}
	if even {
		pairs = append(pairs, [2]int{n - 1, 0})
	}

	for q := 0; q+1 <= n-1; q += 2 {
		pairs = append(pairs, [2]int{q, q + 1})
	}
	if !even {
		pairs = append(pairs, [2]int{n - 1, 0})
	}

	return pairs
}

/*
CopulaMixer simulates the two-qubit Copula mixer gate by gate on a full
register of 2^n bitstrings. Each pair of adjacent item qubits is rotated out
of the correlated product distribution, phase-shifted, and rotated back in.
*/
type CopulaMixer struct {
	theta    float64
	dist     []float64
	profits  []int64
	feasible []bool
	pairs    [][2]int
}

/*
NewCopulaMixer precomputes the distribution, the modified objective value and
the feasibility of every bitstring.

Parameters:
  - k: the instance; bit b of a basis index refers to k.Items[b]
  - steepness: the hyperparameter k of the probability distribution
  - theta: the copula dependency parameter in [-1, 1]
  - governor: budget for the 2^n states, nil selects the default budget

Returns:
  - *CopulaMixer: the mixer
  - error: InvalidInstanceError, InvalidArgumentError or ResourceExhaustedError
*/
func NewCopulaMixer(k *Knapsack, steepness, theta float64, governor *ResourceGovernor) (*CopulaMixer, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}

	if math.IsNaN(theta) || theta < -1 || theta > 1 {
		return nil, invalidArgument("theta", "must lie in [-1, 1], got %v", theta)
	}

	if math.IsNaN(steepness) || math.IsInf(steepness, 0) {
		return nil, invalidArgument("steepness", "must be finite, got %v", steepness)
	}

	if governor == nil {
		governor = NewResourceGovernor(DefaultMaxNodes, 0)
	}

	n := k.Size()
	if n > maxCopulaQubits {
		return nil, &ResourceExhaustedError{
			Resource:  "copula qubits",
			Limit:     maxCopulaQubits,
			Requested: uint64(n),
		}
	}

	numStates := uint64(1) << uint(n)
	if err := governor.Admit("copula register states", numStates); err != nil {
		return nil, err
	}

	errnie.Info("NewCopulaMixer - qubits %d, states %d, k %v, theta %v", n, numStates, steepness, theta)

	m := &CopulaMixer{
		theta:    theta,
		dist:     ProbabilityDistribution(k, steepness),
		profits:  make([]int64, numStates),
		feasible: make([]bool, numStates),
		pairs:    CopulaPairs(n),
	}

	for idx := uint64(0); idx < numStates; idx++ {
		m.feasible[idx] = k.SolutionCost(idx) <= k.Capacity
		if m.feasible[idx] {
			m.profits[idx] = k.SolutionProfit(idx)
		}
	}

	governor.Observe(0, int(numStates))
	if err := governor.Err(); err != nil {
		return nil, err
	}

	return m, nil
}

// Distribution returns the per-item inclusion probabilities.
func (m *CopulaMixer) Distribution() []float64 {
	return m.dist
}

// Pairs returns the qubit pairs of one mixing round.
func (m *CopulaMixer) Pairs() [][2]int {
	return m.pairs
}

/*
InitialState builds the product state in which bit b of every index is set
with probability dist[b].
*/
func (m *CopulaMixer) InitialState() Register {
	r := make(Register, len(m.profits))

	for idx := range r {
		amplitude := 1.0
		for b, p := range m.dist {
			if idx&(1<<b) != 0 {
				amplitude *= sqrtProb(p)
			} else {
				amplitude *= sqrtProb(1 - p)
			}
		}

		r[idx] = BasisAmplitude{
			Profit:    m.profits[idx],
			Amplitude: complex(amplitude, 0),
			Feasible:  m.feasible[idx],
		}
	}

	return r
}

// Mix implements Mixer.
func (m *CopulaMixer) Mix(r Register, beta float64) error {
	if len(r) != len(m.profits) {
		return invalidArgument("register", "length %d, expected %d", len(r), len(m.profits))
	}

	for _, pair := range m.pairs {
		if err := m.applyTwoCopula(r, pair[0], pair[1], beta); err != nil {
			return err
		}
	}

	return nil
}

// conditionals returns P(q2 | q1) and P(q2 | not q1) under the copula.
func (m *CopulaMixer) conditionals(q1, q2 int) (given, givenNot float64) {
	d1 := m.dist[q1]
	d2 := m.dist[q2]

	given = clampProb(d2 + m.theta*d2*(1-d1)*(1-d2))
	givenNot = clampProb(d2 - m.theta*d1*d2*(1-d2))
	return given, givenNot
}

func (m *CopulaMixer) applyTwoCopula(r Register, q1, q2 int, beta float64) error {
	d1 := m.dist[q1]
	given, givenNot := m.conditionals(q1, q2)

	steps := []func() error{
		func() error { return r.ApplyControlledSingleRotationInverse(q1, q2, false, givenNot) },
		func() error { return r.ApplyControlledSingleRotationInverse(q1, q2, true, given) },
		func() error { return r.ApplySingleRotationInverse(q1, d1) },
		func() error { return r.ApplyPhaseRotation(q1, 2*beta) },
		func() error { return r.ApplyPhaseRotation(q2, 2*beta) },
		func() error { return r.ApplySingleRotation(q1, d1) },
		func() error { return r.ApplyControlledSingleRotation(q1, q2, true, given) },
		func() error { return r.ApplyControlledSingleRotation(q1, q2, false, givenNot) },
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	return nil
}

func clampProb(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
