package qaoa

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestExact(t *testing.T) {
	Convey("Given a register with an infeasible state", t, func() {
		r := Register{
			{Profit: 4, Amplitude: complex(0.6, 0), Feasible: true},
			{Profit: 100, Amplitude: complex(0, 0.8), Feasible: false},
		}

		Convey("It should skip the infeasible state", func() {
			So(Exact{}.Evaluate(r), ShouldAlmostEqual, 0.36*4, 1e-12)
		})
	})
}

func TestSampler(t *testing.T) {
	Convey("Given a register concentrated on one state", t, func() {
		r := Register{
			{Profit: 3, Feasible: true},
			{Profit: 7, Amplitude: 1, Feasible: true},
		}

		sampler, err := NewSampler(50, 42)
		So(err, ShouldBeNil)

		Convey("It should always measure that state", func() {
			So(sampler.Evaluate(r), ShouldEqual, 7.0)
		})
	})

	Convey("Given the scenario after one round", t, func() {
		circuit, err := NewCircuit(1, scenarioMixer(), nil)
		So(err, ShouldBeNil)

		r, err := circuit.Evolve([]float64{1.0, 0.5})
		So(err, ShouldBeNil)

		Convey("When sampling many times", func() {
			sampler, err := NewSampler(200000, 7)
			So(err, ShouldBeNil)

			Convey("It should approach the exact expectation", func() {
				So(sampler.Evaluate(r), ShouldAlmostEqual, Exact{}.Evaluate(r), 0.05)
			})
		})

		Convey("When two samplers share a seed", func() {
			a, err := NewSampler(100, 11)
			So(err, ShouldBeNil)
			b, err := NewSampler(100, 11)
			So(err, ShouldBeNil)

			Convey("It should reproduce the same estimates", func() {
				So(a.Evaluate(r), ShouldEqual, b.Evaluate(r))
				So(a.Evaluate(r), ShouldEqual, b.Evaluate(r))
			})
		})
	})

	Convey("Given a cumulative distribution that lost mass to rounding", t, func() {
		sampler, err := NewSampler(1, 3)
		So(err, ShouldBeNil)

		Convey("It should collapse onto the last state carrying probability", func() {
			for i := 0; i < 100; i++ {
				So(sampler.Measure([]float64{0, 0.3, 0.3}), ShouldEqual, 1)
			}
			So(sampler.Measure([]float64{0, 0}), ShouldEqual, 0)
		})
	})

	Convey("Given a non-positive sample count", t, func() {
		_, err := NewSampler(0, 1)
		So(errors.Is(err, ErrInvalidArgument), ShouldBeTrue)
	})
}
