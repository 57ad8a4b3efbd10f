package qaoa

import "math/cmplx"

/*
The gate kernel below acts on bit-indexed registers. Qubit q addresses the
amplitude pairs (j, j + 2^q) inside blocks of size 2^(q+1), where bit q of j
is zero.

The rotation matrix for a probability p is

	R(p) = [ √(1-p)  -√p    ]
	       [ √p       √(1-p) ]

which moves probability p from |0⟩ to |1⟩ when applied to |0⟩. Its inverse is
the transpose.
*/

// ApplySingleRotation applies R(prob) to qubit.
func (r Register) ApplySingleRotation(qubit int, prob float64) error {
	if err := r.checkQubit(qubit); err != nil {
		return err
	}

	r.rotate(qubit, sqrtProb(1-prob), sqrtProb(prob), -1, false)
	return nil
}

// ApplySingleRotationInverse applies the transpose of R(prob) to qubit.
func (r Register) ApplySingleRotationInverse(qubit int, prob float64) error {
	if err := r.checkQubit(qubit); err != nil {
		return err
	}

	r.rotate(qubit, sqrtProb(1-prob), -sqrtProb(prob), -1, false)
	return nil
}

/*
ApplyControlledSingleRotation applies R(prob) to target on the amplitude
pairs whose control bit equals condition.
*/
func (r Register) ApplyControlledSingleRotation(control, target int, condition bool, prob float64) error {
	if err := r.checkControlled(control, target); err != nil {
		return err
	}

	r.rotate(target, sqrtProb(1-prob), sqrtProb(prob), control, condition)
	return nil
}

// ApplyControlledSingleRotationInverse is the inverse of ApplyControlledSingleRotation.
func (r Register) ApplyControlledSingleRotationInverse(control, target int, condition bool, prob float64) error {
	if err := r.checkControlled(control, target); err != nil {
		return err
	}

	r.rotate(target, sqrtProb(1-prob), -sqrtProb(prob), control, condition)
	return nil
}

/*
ApplyPhaseRotation multiplies amplitudes whose qubit bit is 0 by e^{-i·angle}
and those whose bit is 1 by e^{+i·angle}.
*/
func (r Register) ApplyPhaseRotation(qubit int, angle float64) error {
	if err := r.checkQubit(qubit); err != nil {
		return err
	}

	down := cmplx.Exp(complex(0, -angle))
	up := cmplx.Exp(complex(0, angle))

	block := 1 << (qubit + 1)
	flip := 1 << qubit
	for i := 0; i < len(r); i += block {
		for j := i; j < i+flip; j++ {
			r[j].Amplitude *= down
			r[j+flip].Amplitude *= up
		}
	}

	return nil
}

func (r Register) checkControlled(control, target int) error {
	if err := r.checkQubit(target); err != nil {
		return err
	}
	if err := r.checkQubit(control); err != nil {
		return err
	}
	if control == target {
		return invalidArgument("control", "equals target qubit %d", target)
	}
	return nil
}

/*
rotate mixes every amplitude pair of qubit with [[c, -s], [s, c]]. A negative
control selects all pairs, otherwise only pairs whose control bit matches
condition.
*/
func (r Register) rotate(qubit int, c, s float64, control int, condition bool) {
	cc := complex(c, 0)
	sc := complex(s, 0)

	block := 1 << (qubit + 1)
	flip := 1 << qubit
	for i := 0; i < len(r); i += block {
		for j := i; j < i+flip; j++ {
			if control >= 0 && (j&(1<<control) != 0) != condition {
				continue
			}

			a0 := r[j].Amplitude
			a1 := r[j+flip].Amplitude
			r[j].Amplitude = cc*a0 - sc*a1
			r[j+flip].Amplitude = sc*a0 + cc*a1
		}
	}
}
