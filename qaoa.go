package qaoa

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/theapemachine/errnie"
)

// ApproxRatioProbability pairs the approximation ratio of one basis state with its probability.
type ApproxRatioProbability struct {
	ApproxRatio float64
	Probability float64
}

/*
Result is the outcome of one QAOA run. SolutionValue is the expected profit
at the optimized angles, ApproxRatio relates it to the optimal value, and
Distribution lists every basis state of the final register. When the exact
solver ran out of budget OptimalKnown is false and every ratio is NaN.
*/
type Result struct {
	SolutionValue float64
	Angles        []float64
	State         Register
	NumStates     int
	GreedyValue   int64
	OptimalValue  int64
	OptimalKnown  bool
	ApproxRatio   float64
	Distribution  []ApproxRatioProbability
	Metrics       map[string]interface{}
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithReferenceSolver replaces the integer greedy reference solution.
func WithReferenceSolver(solver ReferenceSolver) RunnerOption {
	return func(r *Runner) {
		r.reference = solver
	}
}

// WithExactSolver replaces the solver chain used for normalization.
func WithExactSolver(solver ExactSolver) RunnerOption {
	return func(r *Runner) {
		r.exact = solver
	}
}

// WithOptimizer replaces the grid search.
func WithOptimizer(optimizer Optimizer) RunnerOption {
	return func(r *Runner) {
		r.optimizer = optimizer
	}
}

// WithLayerObserver forwards every decision tree layer of a QTG run to hook.
func WithLayerObserver(hook LayerHook) RunnerOption {
	return func(r *Runner) {
		r.hook = hook
	}
}

/*
Runner strings the pieces of a full QAOA run together: classical reference
solution, state preparation, angle optimization, final evolution and
normalization against the optimum.
*/
type Runner struct {
	config    *Config
	mode      Mode
	governor  *ResourceGovernor
	reference ReferenceSolver
	exact     ExactSolver
	optimizer Optimizer
	hook      LayerHook
}

/*
NewRunner creates a runner from a validated configuration.

Parameters:
  - config: the run settings, nil selects NewConfig
  - opts: optional replacements for the classical collaborators

Returns:
  - *Runner: the runner
  - error: an InvalidArgumentError from the configuration
*/
func NewRunner(config *Config, opts ...RunnerOption) (*Runner, error) {
	if config == nil {
		config = NewConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	mode, err := ParseMode(config.Mode)
	if err != nil {
		return nil, err
	}

	governor := NewResourceGovernor(config.MaxNodes, config.MaxHeapBytes)

	// Normalization has budgets of its own, separate from the tree generator.
	exact := NewFallbackSolver(
		NewDynamicProgramming(NewResourceGovernor(config.MaxNodes, 0)),
		NewBranchAndBound(config.MaxExactNodes),
	)

	r := &Runner{
		config:    config,
		mode:      mode,
		governor:  governor,
		reference: IntGreedy{},
		exact:     exact,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.optimizer == nil {
		gs, err := NewGridSearch(config.GridResolution, config.MaxGridPoints)
		if err != nil {
			return nil, err
		}
		r.optimizer = gs
	}

	return r, nil
}

/*
Run executes QAOA on a copy of k sorted by profit/cost ratio; k itself is
left untouched. Bit positions in the result refer to the sorted order.
*/
func (r *Runner) Run(ctx context.Context, k *Knapsack) (*Result, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}

	instance := k.Clone()
	instance.SortByRatio()

	reference, greedyValue, err := r.reference.Solve(instance)
	if err != nil {
		return nil, fmt.Errorf("reference solution: %w", err)
	}
	errnie.Info("Run - integer greedy solution %d", greedyValue)

	mixer, err := r.prepare(instance, reference)
	if err != nil {
		return nil, err
	}

	evaluator, err := r.evaluator()
	if err != nil {
		return nil, err
	}

	circuit, err := NewCircuit(r.config.Depth, mixer, evaluator)
	if err != nil {
		return nil, err
	}

	optimalValue, optimalKnown, err := r.optimalValue(instance)
	if err != nil {
		return nil, err
	}

	optimum, err := r.optimizer.Minimize(ctx, circuit.Objective, make([]float64, 2*r.config.Depth))
	if err != nil {
		return nil, fmt.Errorf("optimizing angles: %w", err)
	}

	state, err := circuit.Evolve(optimum.Angles)
	if err != nil {
		return nil, err
	}

	solutionValue := evaluator.Evaluate(state)
	errnie.Info(
		"Run - %s depth %d, expectation %v after %d evaluations",
		r.mode, r.config.Depth, solutionValue, optimum.Evaluations,
	)

	result := &Result{
		SolutionValue: solutionValue,
		Angles:        optimum.Angles,
		State:         state,
		NumStates:     len(state),
		GreedyValue:   greedyValue,
		OptimalValue:  optimalValue,
		OptimalKnown:  optimalKnown,
		ApproxRatio:   approxRatio(solutionValue, optimalValue, optimalKnown),
		Distribution:  make([]ApproxRatioProbability, len(state)),
		Metrics:       circuit.Metrics().ExportMetrics(),
	}

	for i, basis := range state {
		result.Distribution[i] = ApproxRatioProbability{
			ApproxRatio: approxRatio(float64(basis.Profit), optimalValue, optimalKnown),
			Probability: basis.Probability(),
		}
	}

	errnie.Info("Run - approximation ratio %v", result.ApproxRatio)

	return result, nil
}

/*
optimalValue runs the exact solver. An exhausted budget only costs the
normalization, so it is logged and reported as an unknown optimum instead of
failing the run.
*/
func (r *Runner) optimalValue(k *Knapsack) (int64, bool, error) {
	_, value, err := r.exact.Solve(k)

	switch {
	case err == nil:
		errnie.Info("Run - optimal solution %d", value)
		return value, true, nil
	case errors.Is(err, ErrResourceExhausted):
		errnie.Info("Run - optimal solution unavailable: %v", err)
		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("optimal solution: %w", err)
	}
}

// prepare builds the mixer, and with it the initial state, for the configured mode.
func (r *Runner) prepare(k *Knapsack, reference *bitset.BitSet) (Mixer, error) {
	switch r.mode {
	case ModeCopula:
		mixer, err := NewCopulaMixer(k, r.config.CopulaK, r.config.CopulaTheta, r.governor)
		if err != nil {
			return nil, fmt.Errorf("copula register: %w", err)
		}
		return mixer, nil

	default:
		opts := []GeneratorOption{WithGovernor(r.governor)}
		if r.hook != nil {
			opts = append(opts, WithLayerHook(r.hook))
		}

		generator, err := NewGenerator(r.config.Bias, opts...)
		if err != nil {
			return nil, err
		}

		nodes, err := generator.Generate(k, reference)
		if err != nil {
			return nil, fmt.Errorf("tree generation: %w", err)
		}

		mixer, err := NewGroverMixer(nodes)
		if err != nil {
			return nil, err
		}
		return mixer, nil
	}
}

func (r *Runner) evaluator() (Evaluator, error) {
	if r.config.Samples == 0 {
		return Exact{}, nil
	}

	sampler, err := NewSampler(r.config.Samples, r.config.Seed)
	if err != nil {
		return nil, err
	}
	return sampler, nil
}

// approxRatio treats every value as optimal when the optimum itself is zero.
func approxRatio(value float64, optimal int64, known bool) float64 {
	if !known {
		return math.NaN()
	}
	if optimal == 0 {
		return 1
	}
	return value / float64(optimal)
}
