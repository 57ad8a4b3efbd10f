package qaoa

import (
	"math"
	"runtime"
	"sync"
)

// DefaultMaxNodes bounds a single decision tree layer or register.
const DefaultMaxNodes = 1 << 22

var _ Regulator = (*ResourceGovernor)(nil)

/*
ResourceGovernor implements the Regulator interface for the exponential parts
of the emulation. It bounds the number of nodes per layer and, optionally, the
live heap as reported by the runtime.

Key features:
  - Node count limit per observed step
  - Heap limit read from runtime.MemStats
  - Error reporting through ResourceExhaustedError
*/
type ResourceGovernor struct {
	mu sync.RWMutex

	maxNodes     int    // Maximum entries per step
	maxHeapBytes uint64 // Maximum live heap, 0 disables the check

	step         int
	currentNodes int
	currentHeap  uint64
}

/*
NewResourceGovernor creates a governor.

Parameters:
  - maxNodes: maximum number of nodes per layer, <= 0 selects DefaultMaxNodes
  - maxHeapBytes: maximum live heap in bytes, 0 disables the heap check

Example:

	governor := NewResourceGovernor(1<<20, 2<<30)
*/
func NewResourceGovernor(maxNodes int, maxHeapBytes uint64) *ResourceGovernor {
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}

	return &ResourceGovernor{
		maxNodes:     maxNodes,
		maxHeapBytes: maxHeapBytes,
	}
}

// Observe implements the Regulator interface.
func (rg *ResourceGovernor) Observe(step int, nodes int) {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	rg.step = step
	rg.currentNodes = nodes
	rg.updateHeapUsage()
}

// Limit implements the Regulator interface.
func (rg *ResourceGovernor) Limit() bool {
	rg.mu.RLock()
	defer rg.mu.RUnlock()

	return rg.exceeded() != nil
}

// Renormalize implements the Regulator interface.
func (rg *ResourceGovernor) Renormalize() {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	rg.step = 0
	rg.currentNodes = 0
	rg.currentHeap = 0
}

// MaxNodes returns the node budget.
func (rg *ResourceGovernor) MaxNodes() int {
	return rg.maxNodes
}

/*
Admit checks a requested size against the node budget without recording it.
It returns a ResourceExhaustedError when nodes exceeds the budget.
*/
func (rg *ResourceGovernor) Admit(resource string, nodes uint64) error {
	if nodes > uint64(rg.maxNodes) {
		return &ResourceExhaustedError{
			Resource:  resource,
			Limit:     uint64(rg.maxNodes),
			Requested: nodes,
		}
	}
	return nil
}

/*
AdmitTable checks a rows·cols table against the node budget. The comparison
divides instead of multiplying, so tables whose size does not fit a uint64
are refused rather than wrapped around.
*/
func (rg *ResourceGovernor) AdmitTable(resource string, rows, cols uint64) error {
	if rows == 0 || cols == 0 {
		return nil
	}

	limit := uint64(rg.maxNodes)
	if cols <= limit/rows {
		return nil
	}

	requested := uint64(math.MaxUint64)
	if cols <= math.MaxUint64/rows {
		requested = rows * cols
	}

	return &ResourceExhaustedError{
		Resource:  resource,
		Limit:     limit,
		Requested: requested,
	}
}

// Err returns the violation behind Limit, or nil.
func (rg *ResourceGovernor) Err() error {
	rg.mu.RLock()
	defer rg.mu.RUnlock()

	return rg.exceeded()
}

// GetResourceUsage returns the last observed node count and heap size.
func (rg *ResourceGovernor) GetResourceUsage() (nodes int, heap uint64) {
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	return rg.currentNodes, rg.currentHeap
}

func (rg *ResourceGovernor) exceeded() error {
	if rg.currentNodes > rg.maxNodes {
		return &ResourceExhaustedError{
			Resource:  "tree layer nodes",
			Limit:     uint64(rg.maxNodes),
			Requested: uint64(rg.currentNodes),
		}
	}

	if rg.maxHeapBytes > 0 && rg.currentHeap > rg.maxHeapBytes {
		return &ResourceExhaustedError{
			Resource:  "heap bytes",
			Limit:     rg.maxHeapBytes,
			Requested: rg.currentHeap,
		}
	}

	return nil
}

// updateHeapUsage assumes the caller holds the write lock.
func (rg *ResourceGovernor) updateHeapUsage() {
	if rg.maxHeapBytes == 0 {
		return
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	rg.currentHeap = memStats.HeapAlloc
}
