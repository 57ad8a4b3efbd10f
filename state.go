package qaoa

import "github.com/bits-and-blooms/bitset"

/*
Path is the payload of a decision tree node: the items chosen so far, the
capacity that is still left and the profit collected on the way down.
*/
type Path struct {
	Items             *bitset.BitSet
	RemainingCapacity int64
	TotalProfit       int64
}

// NewPath returns the root path of a tree over size items.
func NewPath(size int, capacity int64) Path {
	return Path{
		Items:             bitset.New(uint(size)),
		RemainingCapacity: capacity,
	}
}

// Clone copies the path, including its bitset.
func (p Path) Clone() Path {
	return Path{
		Items:             p.Items.Clone(),
		RemainingCapacity: p.RemainingCapacity,
		TotalProfit:       p.TotalProfit,
	}
}

// Include returns a child path that additionally holds item idx.
func (p Path) Include(idx int, item Item) Path {
	child := p.Clone()
	child.Items.Set(uint(idx))
	child.RemainingCapacity -= item.Cost
	child.TotalProfit += item.Profit
	return child
}

// Equal compares two paths field by field.
func (p Path) Equal(other Path) bool {
	return p.RemainingCapacity == other.RemainingCapacity &&
		p.TotalProfit == other.TotalProfit &&
		p.Items.Equal(other.Items)
}

/*
WeightedPath is a decision tree node tagged with the probability of reaching
it under the biased branching rule. All nodes of one layer sum to one.
*/
type WeightedPath struct {
	Path
	Probability float64
}
