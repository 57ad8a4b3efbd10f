package qaoa

import (
	"errors"
	"math"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/theapemachine/errnie"
)

// DefaultMaxExactNodes bounds the search tree of BranchAndBound.
const DefaultMaxExactNodes = 1 << 24

/*
ReferenceSolver produces the classical solution the tree generator biases
its branching towards.
*/
type ReferenceSolver interface {
	Solve(k *Knapsack) (*bitset.BitSet, int64, error)
}

/*
ExactSolver produces the optimal value used to normalize the emulated
solution into an approximation ratio.
*/
type ExactSolver interface {
	Solve(k *Knapsack) (*bitset.BitSet, int64, error)
}

/*
IntGreedy walks the items in their current order and takes every item that
still fits. On a ratio-sorted instance this is the classical greedy
algorithm.
*/
type IntGreedy struct{}

// Solve implements ReferenceSolver.
func (IntGreedy) Solve(k *Knapsack) (*bitset.BitSet, int64, error) {
	if err := k.Validate(); err != nil {
		return nil, 0, err
	}

	solution := bitset.New(uint(k.Size()))
	remaining := k.Capacity
	var value int64

	for i, item := range k.Items {
		if item.Cost > remaining {
			continue
		}
		solution.Set(uint(i))
		remaining -= item.Cost
		value += item.Profit
	}

	return solution, value, nil
}

/*
DynamicProgramming solves the instance exactly over a table of
n·(capacity+1) cells. The table size is admitted against the governor
before anything is allocated.
*/
type DynamicProgramming struct {
	governor *ResourceGovernor
}

// NewDynamicProgramming returns an exact solver; a nil governor selects the default budget.
func NewDynamicProgramming(governor *ResourceGovernor) *DynamicProgramming {
	if governor == nil {
		governor = NewResourceGovernor(DefaultMaxNodes, 0)
	}
	return &DynamicProgramming{governor: governor}
}

// Solve implements ExactSolver.
func (dp *DynamicProgramming) Solve(k *Knapsack) (*bitset.BitSet, int64, error) {
	if err := k.Validate(); err != nil {
		return nil, 0, err
	}

	n := k.Size()
	width := uint64(k.Capacity) + 1

	if err := dp.governor.AdmitTable("exact solver table cells", uint64(n), width); err != nil {
		return nil, 0, err
	}

	best := make([]int64, width)
	taken := make([][]bool, n)

	for i, item := range k.Items {
		taken[i] = make([]bool, width)
		if item.Profit <= 0 {
			continue
		}
		for c := int64(len(best)) - 1; c >= item.Cost; c-- {
			if candidate := best[c-item.Cost] + item.Profit; candidate > best[c] {
				best[c] = candidate
				taken[i][c] = true
			}
		}
	}

	solution := bitset.New(uint(n))
	c := k.Capacity
	for i := n - 1; i >= 0; i-- {
		if taken[i][c] {
			solution.Set(uint(i))
			c -= k.Items[i].Cost
		}
	}

	return solution, best[k.Capacity], nil
}

/*
BranchAndBound solves the instance exactly by depth-first search in ratio
order, pruning every subtree whose fractional relaxation cannot beat the
incumbent. Its memory does not depend on the capacity, so it serves the
instances whose dynamic programming table is too large. The number of
visited nodes is bounded by maxNodes.
*/
type BranchAndBound struct {
	maxNodes uint64
}

// NewBranchAndBound returns an exact solver; zero selects DefaultMaxExactNodes.
func NewBranchAndBound(maxNodes uint64) *BranchAndBound {
	if maxNodes == 0 {
		maxNodes = DefaultMaxExactNodes
	}
	return &BranchAndBound{maxNodes: maxNodes}
}

// Solve implements ExactSolver.
func (bb *BranchAndBound) Solve(k *Knapsack) (*bitset.BitSet, int64, error) {
	if err := k.Validate(); err != nil {
		return nil, 0, err
	}

	// Items without profit never improve a solution.
	order := make([]int, 0, k.Size())
	for i, item := range k.Items {
		if item.Profit > 0 {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return k.Items[order[a]].Ratio() > k.Items[order[b]].Ratio()
	})

	search := &branchSearch{
		items:   k.Items,
		order:   order,
		limit:   bb.maxNodes,
		current: bitset.New(uint(k.Size())),
		best:    bitset.New(uint(k.Size())),
	}

	if err := search.visit(0, 0, k.Capacity); err != nil {
		return nil, 0, err
	}

	return search.best, search.bestValue, nil
}

type branchSearch struct {
	items     []Item
	order     []int
	limit     uint64
	visited   uint64
	current   *bitset.BitSet
	best      *bitset.BitSet
	bestValue int64
}

func (s *branchSearch) visit(pos int, profit, remaining int64) error {
	s.visited++
	if s.visited > s.limit {
		return &ResourceExhaustedError{
			Resource:  "branch and bound nodes",
			Limit:     s.limit,
			Requested: s.visited,
		}
	}

	if profit > s.bestValue {
		s.bestValue = profit
		s.best = s.current.Clone()
	}

	if pos == len(s.order) || math.Floor(s.bound(pos, profit, remaining)) <= float64(s.bestValue) {
		return nil
	}

	idx := s.order[pos]
	item := s.items[idx]

	if item.Cost <= remaining {
		s.current.Set(uint(idx))
		err := s.visit(pos+1, profit+item.Profit, remaining-item.Cost)
		s.current.Clear(uint(idx))
		if err != nil {
			return err
		}
	}

	return s.visit(pos+1, profit, remaining)
}

// bound is the fractional greedy relaxation of the items from pos on.
func (s *branchSearch) bound(pos int, profit, remaining int64) float64 {
	b := float64(profit)

	for _, idx := range s.order[pos:] {
		item := s.items[idx]
		if item.Cost <= remaining {
			remaining -= item.Cost
			b += float64(item.Profit)
			continue
		}
		b += float64(item.Profit) * float64(remaining) / float64(item.Cost)
		break
	}

	return b
}

/*
FallbackSolver tries its solvers in order and moves on to the next one when a
solver runs out of its resource budget. Any other error is returned as is.
*/
type FallbackSolver struct {
	solvers []ExactSolver
}

// NewFallbackSolver chains solvers, cheapest first.
func NewFallbackSolver(solvers ...ExactSolver) *FallbackSolver {
	return &FallbackSolver{solvers: solvers}
}

// Solve implements ExactSolver.
func (fs *FallbackSolver) Solve(k *Knapsack) (*bitset.BitSet, int64, error) {
	if len(fs.solvers) == 0 {
		return nil, 0, invalidArgument("solvers", "no exact solver configured")
	}

	var err error
	for _, solver := range fs.solvers {
		var (
			solution *bitset.BitSet
			value    int64
		)

		if solution, value, err = solver.Solve(k); err == nil {
			return solution, value, nil
		}

		if !errors.Is(err, ErrResourceExhausted) {
			return nil, 0, err
		}

		errnie.Info("FallbackSolver - %v, trying the next solver", err)
	}

	return nil, 0, err
}
