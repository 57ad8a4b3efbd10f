package qaoa

import (
	"math"
	"math/bits"
	"math/cmplx"
)

/*
BasisAmplitude equips one computational basis state, identified through its
profit, with a complex amplitude. Feasible is false only for Copula
bitstrings that exceed the capacity.
*/
type BasisAmplitude struct {
	Profit    int64
	Amplitude complex128
	Feasible  bool
}

// Probability returns the squared modulus of the amplitude.
func (ba BasisAmplitude) Probability() float64 {
	a := cmplx.Abs(ba.Amplitude)
	return a * a
}

/*
Register is a dense state vector. In QTG mode it parallels the list of
feasible paths; in Copula mode index i encodes the bitstring of the item
assignment and the length is a power of two.
*/
type Register []BasisAmplitude

// Clone returns an independent copy.
func (r Register) Clone() Register {
	out := make(Register, len(r))
	copy(out, r)
	return out
}

// Norm returns the total probability mass.
func (r Register) Norm() float64 {
	var total float64
	for _, state := range r {
		total += state.Probability()
	}
	return total
}

// Probabilities returns the squared modulus of every amplitude.
func (r Register) Probabilities() []float64 {
	probs := make([]float64, len(r))
	for i, state := range r {
		probs[i] = state.Probability()
	}
	return probs
}

// Qubits returns log2 of the register length.
func (r Register) Qubits() int {
	return bits.TrailingZeros(uint(len(r)))
}

func (r Register) checkQubit(qubit int) error {
	n := len(r)
	if n == 0 || n&(n-1) != 0 {
		return invalidArgument("register", "length %d is not a power of two", n)
	}

	if qubit < 0 || qubit >= r.Qubits() {
		return invalidArgument("qubit", "%d out of range [0, %d)", qubit, r.Qubits())
	}

	return nil
}

/*
sqrtProb is the boundary between probabilities and amplitudes. Values pushed
slightly outside [0, 1] by rounding, and NaN, are clamped first.
*/
func sqrtProb(p float64) float64 {
	switch {
	case math.IsNaN(p) || p <= 0:
		return 0
	case p >= 1:
		return 1
	default:
		return math.Sqrt(p)
	}
}
