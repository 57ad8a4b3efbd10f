package qaoa

import (
	"fmt"
	"math"
	"sort"
)

// Item is a single knapsack item.
type Item struct {
	Profit int64
	Cost   int64
}

/*
Ratio returns the relative profit of the item. Items without cost that still
carry profit rank above everything else.
*/
func (item Item) Ratio() float64 {
	if item.Cost == 0 {
		if item.Profit > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return float64(item.Profit) / float64(item.Cost)
}

/*
Knapsack is an ordered list of items together with a capacity. The order of
the items defines the order of the decision tree layers and the bit positions
of every solution representation.
*/
type Knapsack struct {
	Items    []Item
	Capacity int64
}

/*
NewKnapsack validates and wraps an instance.

Returns:
  - *Knapsack: the instance, owning a copy of items
  - error: an InvalidInstanceError for an empty item list, a negative capacity
    or a negative cost
*/
func NewKnapsack(capacity int64, items []Item) (*Knapsack, error) {
	k := &Knapsack{
		Items:    append([]Item(nil), items...),
		Capacity: capacity,
	}

	if err := k.Validate(); err != nil {
		return nil, err
	}

	return k, nil
}

// Validate checks the instance invariants the emulation relies on.
func (k *Knapsack) Validate() error {
	if k == nil || len(k.Items) == 0 {
		return &InvalidInstanceError{Reason: "no items"}
	}

	if k.Capacity < 0 {
		return &InvalidInstanceError{Reason: fmt.Sprintf("negative capacity %d", k.Capacity)}
	}

	for i, item := range k.Items {
		if item.Cost < 0 {
			return &InvalidInstanceError{Reason: fmt.Sprintf("item %d has negative cost %d", i, item.Cost)}
		}
	}

	return nil
}

// Size returns the number of items.
func (k *Knapsack) Size() int {
	return len(k.Items)
}

// Clone returns a deep copy that can be reordered without touching k.
func (k *Knapsack) Clone() *Knapsack {
	return &Knapsack{
		Items:    append([]Item(nil), k.Items...),
		Capacity: k.Capacity,
	}
}

// SortByRatio orders the items by descending profit/cost ratio. Ties keep their order.
func (k *Knapsack) SortByRatio() {
	sort.SliceStable(k.Items, func(i, j int) bool {
		return k.Items[i].Ratio() > k.Items[j].Ratio()
	})
}

// CostSum returns the total cost of all items.
func (k *Knapsack) CostSum() int64 {
	var sum int64
	for _, item := range k.Items {
		sum += item.Cost
	}
	return sum
}

/*
BreakItem fills the knapsack greedily in ratio order and returns the index of
the first item that no longer fits, or -1 when every item fits. The index
refers to k.Items, which need not be sorted.
*/
func (k *Knapsack) BreakItem() int {
	order := make([]int, len(k.Items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return k.Items[order[a]].Ratio() > k.Items[order[b]].Ratio()
	})

	remaining := k.Capacity
	for _, idx := range order {
		if k.Items[idx].Cost > remaining {
			return idx
		}
		remaining -= k.Items[idx].Cost
	}

	return -1
}

/*
SolutionProfit returns the total profit of the assignment encoded in mask,
where bit b set means item b is included.
*/
func (k *Knapsack) SolutionProfit(mask uint64) int64 {
	var profit int64
	for b, item := range k.Items {
		if mask&(1<<uint(b)) != 0 {
			profit += item.Profit
		}
	}
	return profit
}

// SolutionCost returns the total cost of the assignment encoded in mask.
func (k *Knapsack) SolutionCost(mask uint64) int64 {
	var cost int64
	for b, item := range k.Items {
		if mask&(1<<uint(b)) != 0 {
			cost += item.Cost
		}
	}
	return cost
}
