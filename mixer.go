package qaoa

import (
	"fmt"
	"math/cmplx"
)

// Mode selects the mixing strategy of the circuit.
type Mode int

const (
	ModeQTG Mode = iota
	ModeCopula
)

func (m Mode) String() string {
	switch m {
	case ModeQTG:
		return "qtg"
	case ModeCopula:
		return "copula"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps "qtg" and "copula" onto their Mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "qtg":
		return ModeQTG, nil
	case "copula":
		return ModeCopula, nil
	default:
		return 0, invalidArgument("mode", "unknown mode %q", name)
	}
}

/*
Mixer is one variant of the quasi-adiabatic evolution. It prepares the initial
register and applies the mixing unitary; the phase separation unitary is the
same for every variant.
*/
type Mixer interface {
	// InitialState allocates a fresh register holding the initial state.
	InitialState() Register

	// Mix applies the mixing unitary for angle beta in place.
	Mix(r Register, beta float64) error
}

/*
GroverMixer is the QTG mixer. With |ψ⟩ the state prepared by the tree
generator, it applies U(β) = 1 + (e^{-iβ} - 1)|ψ⟩⟨ψ|, which only needs the
overlap ⟨ψ|φ⟩ and never touches individual qubits.
*/
type GroverMixer struct {
	nodes   []WeightedPath
	weights []float64
}

/*
NewGroverMixer wraps the output of the tree generator.

Returns:
  - *GroverMixer: a mixer over len(nodes) basis states
  - error: an InvalidArgumentError for an empty ensemble
*/
func NewGroverMixer(nodes []WeightedPath) (*GroverMixer, error) {
	if len(nodes) == 0 {
		return nil, invalidArgument("nodes", "empty ensemble")
	}

	weights := make([]float64, len(nodes))
	for i, node := range nodes {
		weights[i] = sqrtProb(node.Probability)
	}

	return &GroverMixer{
		nodes:   nodes,
		weights: weights,
	}, nil
}

// Nodes returns the ensemble the mixer reflects about.
func (m *GroverMixer) Nodes() []WeightedPath {
	return m.nodes
}

// InitialState sets every amplitude to the square root of its sampling probability.
func (m *GroverMixer) InitialState() Register {
	r := make(Register, len(m.nodes))
	for i, node := range m.nodes {
		r[i] = BasisAmplitude{
			Profit:    node.TotalProfit,
			Amplitude: complex(m.weights[i], 0),
			Feasible:  true,
		}
	}
	return r
}

// ScalarProduct returns ⟨ψ|r⟩ for the initial state ψ.
func (m *GroverMixer) ScalarProduct(r Register) complex128 {
	var s complex128
	for i, w := range m.weights {
		s += complex(w, 0) * r[i].Amplitude
	}
	return s
}

// Mix implements Mixer.
func (m *GroverMixer) Mix(r Register, beta float64) error {
	if len(r) != len(m.weights) {
		return invalidArgument("register", "length %d, ensemble has %d states", len(r), len(m.weights))
	}

	factor := (cmplx.Exp(complex(0, -beta)) - 1) * m.ScalarProduct(r)
	for i, w := range m.weights {
		r[i].Amplitude += factor * complex(w, 0)
	}

	return nil
}
