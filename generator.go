package qaoa

import (
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/theapemachine/errnie"
)

/*
BranchProbabilities returns the weights of the exclude and include branch for
one item. The branch that agrees with the reference solution receives
(1 + bias) / (bias + 2), the other one the complement, so the two weights sum
to exactly one for every bias. A bias of zero splits evenly.
*/
func BranchProbabilities(bias float64, referenceBit bool) (exclude, include float64) {
	favoured := (1 + bias) / (bias + 2)
	// favoured lies in [0.5, 1], so the subtraction is exact.
	other := 1 - favoured

	if referenceBit {
		return other, favoured
	}
	return favoured, other
}

// BranchProb returns a single branch weight, see BranchProbabilities.
func BranchProb(bias float64, referenceBit bool, include bool) float64 {
	exclude, incl := BranchProbabilities(bias, referenceBit)
	if include {
		return incl
	}
	return exclude
}

// LayerHook is called with every completed layer of the decision tree.
type LayerHook func(layer int, nodes []WeightedPath)

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithGovernor replaces the default resource governor.
func WithGovernor(governor *ResourceGovernor) GeneratorOption {
	return func(g *Generator) {
		g.governor = governor
	}
}

// WithLayerHook installs a callback that sees every layer, including the root.
func WithLayerHook(hook LayerHook) GeneratorOption {
	return func(g *Generator) {
		g.hook = hook
	}
}

/*
Generator emulates the quantum tree generator. It walks the decision tree of
a knapsack instance breadth first, one layer per item, and keeps every
capacity-feasible path together with the probability of sampling it.
*/
type Generator struct {
	bias     float64
	governor *ResourceGovernor
	hook     LayerHook
}

/*
NewGenerator creates a tree generator.

Parameters:
  - bias: non-negative weight pulling the branching towards the reference solution
  - opts: optional governor and layer hook

Returns:
  - *Generator: the generator
  - error: an InvalidArgumentError for a negative or non-finite bias
*/
func NewGenerator(bias float64, opts ...GeneratorOption) (*Generator, error) {
	if bias < 0 || math.IsNaN(bias) || math.IsInf(bias, 0) {
		return nil, invalidArgument("bias", "must be finite and non-negative, got %v", bias)
	}

	g := &Generator{
		bias:     bias,
		governor: NewResourceGovernor(DefaultMaxNodes, 0),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

/*
Generate builds the final layer of the decision tree.

Every node whose remaining capacity cannot hold the current item is carried
over unchanged. Every other node splits into an exclude child and an include
child whose probabilities are scaled by the branch weights. Intermediate
layers are dropped as soon as the next one is complete; bitsets of exclude
children are moved rather than copied.

Parameters:
  - k: the instance, in the item order that defines the tree layers
  - reference: the solution used for biasing; nil counts as the empty solution

Returns:
  - []WeightedPath: all feasible paths of the last layer, in breadth-first order
  - error: InvalidInstanceError or ResourceExhaustedError
*/
func (g *Generator) Generate(k *Knapsack, reference *bitset.BitSet) ([]WeightedPath, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}

	errnie.Info("Generate - items %d, capacity %d, bias %v", k.Size(), k.Capacity, g.bias)

	layer := []WeightedPath{{
		Path:        NewPath(k.Size(), k.Capacity),
		Probability: 1,
	}}
	g.governor.Renormalize()
	g.notify(0, layer)

	for i, item := range k.Items {
		exclude, include := BranchProbabilities(g.bias, referenceBit(reference, i))

		child := make([]WeightedPath, 0, min(2*len(layer), g.governor.MaxNodes()+1))

		for _, parent := range layer {
			if parent.RemainingCapacity < item.Cost {
				child = append(child, parent)
				continue
			}

			included := WeightedPath{
				Path:        parent.Include(i, item),
				Probability: parent.Probability * include,
			}
			parent.Probability *= exclude
			child = append(child, parent, included)

			if err := g.governor.Admit("tree layer nodes", uint64(len(child))); err != nil {
				return nil, err
			}
		}

		g.governor.Observe(i+1, len(child))
		if err := g.governor.Err(); err != nil {
			return nil, err
		}

		layer = child
		g.notify(i+1, layer)
	}

	errnie.Info("Generate - %d feasible states", len(layer))

	return layer, nil
}

func (g *Generator) notify(layer int, nodes []WeightedPath) {
	if g.hook != nil {
		g.hook(layer, nodes)
	}
}

func referenceBit(reference *bitset.BitSet, idx int) bool {
	return reference != nil && reference.Test(uint(idx))
}
