package qaoa

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/davecgh/go-spew/spew"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRunnerQTG(t *testing.T) {
	Convey("Given a QTG runner with a fine grid", t, func() {
		cfg := NewConfig()
		cfg.GridResolution = 8

		layers := 0
		runner, err := NewRunner(cfg, WithLayerObserver(func(int, []WeightedPath) {
			layers++
		}))
		So(err, ShouldBeNil)

		Convey("When running on the scenario", func() {
			result, err := runner.Run(context.Background(), scenarioKnapsack())
			So(err, ShouldBeNil)
			t.Log(spew.Sdump(result.Distribution))

			Convey("It should report the classical reference values", func() {
				So(result.GreedyValue, ShouldEqual, int64(8))
				So(result.OptimalValue, ShouldEqual, int64(12))
				So(result.OptimalKnown, ShouldBeTrue)
				So(layers, ShouldEqual, 5)
			})

			Convey("It should improve on the initial state", func() {
				So(result.NumStates, ShouldEqual, 8)
				So(len(result.Angles), ShouldEqual, 2)
				So(result.SolutionValue, ShouldAlmostEqual, 8.681530024080072, 1e-9)
				So(result.ApproxRatio, ShouldAlmostEqual, 8.681530024080072/12, 1e-9)
				So(result.Metrics["evaluations"], ShouldEqual, int64(64))
			})

			Convey("It should describe the final distribution", func() {
				var total float64
				for _, entry := range result.Distribution {
					total += entry.Probability
					So(entry.ApproxRatio, ShouldBeBetweenOrEqual, 0, 1)
				}
				So(total, ShouldAlmostEqual, 1.0, 1e-9)
				So(result.Distribution[4].ApproxRatio, ShouldEqual, 1.0)
			})
		})

		Convey("When the instance is not sorted", func() {
			k, err := NewKnapsack(10, []Item{
				{Profit: 2, Cost: 6},
				{Profit: 3, Cost: 3},
				{Profit: 12, Cost: 9},
				{Profit: 5, Cost: 2},
			})
			So(err, ShouldBeNil)

			result, err := runner.Run(context.Background(), k)

			Convey("It should sort a copy and leave the input alone", func() {
				So(err, ShouldBeNil)
				So(result.SolutionValue, ShouldAlmostEqual, 8.681530024080072, 1e-9)
				So(k.Items[0], ShouldResemble, Item{Profit: 2, Cost: 6})
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := runner.Run(ctx, scenarioKnapsack())

			Convey("It should stop the optimizer", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})

		Convey("When the instance is invalid", func() {
			_, err := runner.Run(context.Background(), &Knapsack{Capacity: 3})

			Convey("It should reject it", func() {
				So(errors.Is(err, ErrInvalidInstance), ShouldBeTrue)
			})
		})
	})
}

func TestRunnerCopula(t *testing.T) {
	Convey("Given a Copula runner", t, func() {
		cfg := NewConfig()
		cfg.Mode = "copula"
		cfg.GridResolution = 4

		runner, err := NewRunner(cfg)
		So(err, ShouldBeNil)

		Convey("When running on the scenario", func() {
			result, err := runner.Run(context.Background(), scenarioKnapsack())

			Convey("It should evolve the full register", func() {
				So(err, ShouldBeNil)
				So(result.NumStates, ShouldEqual, 16)
				So(result.State.Norm(), ShouldAlmostEqual, 1.0, 1e-9)
				So(result.SolutionValue, ShouldBeGreaterThanOrEqualTo, 2.7470329492848107-1e-9)
				So(result.OptimalValue, ShouldEqual, int64(12))
			})
		})

		Convey("When the register exceeds the state budget", func() {
			cfg.MaxNodes = 8
			small, err := NewRunner(cfg)
			So(err, ShouldBeNil)

			_, err = small.Run(context.Background(), scenarioKnapsack())

			Convey("It should report the exhausted budget", func() {
				So(errors.Is(err, ErrResourceExhausted), ShouldBeTrue)
			})
		})
	})
}

func TestRunnerSampling(t *testing.T) {
	Convey("Given a runner that samples the expectation", t, func() {
		cfg := NewConfig()
		cfg.Samples = 500
		cfg.Seed = 3
		cfg.GridResolution = 3

		runner, err := NewRunner(cfg)
		So(err, ShouldBeNil)

		result, err := runner.Run(context.Background(), scenarioKnapsack())

		Convey("It should estimate a value within the profit range", func() {
			So(err, ShouldBeNil)
			So(result.SolutionValue, ShouldBeBetweenOrEqual, 0, 12)
		})
	})

	Convey("Given an invalid configuration", t, func() {
		cfg := NewConfig()
		cfg.Mode = "anneal"

		_, err := NewRunner(cfg)
		So(errors.Is(err, ErrInvalidArgument), ShouldBeTrue)
	})
}

func TestRunnerNormalization(t *testing.T) {
	Convey("Given a runner with the default exact solvers", t, func() {
		cfg := NewConfig()
		cfg.GridResolution = 3

		runner, err := NewRunner(cfg)
		So(err, ShouldBeNil)

		Convey("When the capacity is beyond the dynamic programming budget", func() {
			result, err := runner.Run(context.Background(), wideKnapsack())

			Convey("It should still normalize against the optimum", func() {
				So(err, ShouldBeNil)
				So(result.GreedyValue, ShouldEqual, int64(11))
				So(result.OptimalValue, ShouldEqual, int64(14))
				So(result.OptimalKnown, ShouldBeTrue)
				So(result.ApproxRatio, ShouldBeBetweenOrEqual, 0, 1)
			})
		})
	})

	Convey("Given an exact solver that runs out of budget", t, func() {
		cfg := NewConfig()
		cfg.GridResolution = 8

		exhausted := &stubExactSolver{err: &ResourceExhaustedError{
			Resource:  "branch and bound nodes",
			Limit:     1,
			Requested: 2,
		}}

		runner, err := NewRunner(cfg, WithExactSolver(exhausted))
		So(err, ShouldBeNil)

		result, err := runner.Run(context.Background(), scenarioKnapsack())

		Convey("It should keep the emulation and mark the optimum unknown", func() {
			So(err, ShouldBeNil)
			So(exhausted.calls, ShouldEqual, 1)
			So(result.SolutionValue, ShouldAlmostEqual, 8.681530024080072, 1e-9)
			So(result.OptimalKnown, ShouldBeFalse)
			So(result.OptimalValue, ShouldEqual, int64(0))
			So(math.IsNaN(result.ApproxRatio), ShouldBeTrue)

			for _, entry := range result.Distribution {
				So(math.IsNaN(entry.ApproxRatio), ShouldBeTrue)
			}
		})
	})

	Convey("Given an exact solver that fails for another reason", t, func() {
		failure := errors.New("solver broke")
		runner, err := NewRunner(NewConfig(), WithExactSolver(&stubExactSolver{err: failure}))
		So(err, ShouldBeNil)

		_, err = runner.Run(context.Background(), scenarioKnapsack())

		Convey("It should fail the run", func() {
			So(errors.Is(err, failure), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "optimal solution")
		})
	})
}
