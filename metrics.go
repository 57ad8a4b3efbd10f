package qaoa

import (
	"math"
	"sort"
	"sync"
	"time"
)

/*
Metrics tracks the objective evaluations an optimizer performs on a circuit.
Recording is constant time; the latency percentiles are only computed when
a snapshot is taken.
*/
type Metrics struct {
	mu               sync.RWMutex
	EvaluationCount  int64
	FailureCount     int64
	TotalEvalTime    time.Duration
	AverageLatency   time.Duration
	BestObjective    float64
	LastObjective    float64
	LastEvaluationAt time.Time

	latencies  []time.Duration // ring of the last windowSize durations
	next       int
	windowSize int
}

// NewMetrics keeps the last 1000 latencies for the percentiles.
func NewMetrics() *Metrics {
	return &Metrics{
		BestObjective: math.Inf(1),
		latencies:     make([]time.Duration, 0, 1000),
		windowSize:    1000,
	}
}

func (m *Metrics) recordEvaluation(startTime time.Time, objective float64, err error) {
	duration := time.Since(startTime)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalEvalTime += duration
	m.EvaluationCount++
	m.LastEvaluationAt = startTime
	m.AverageLatency = m.TotalEvalTime / time.Duration(m.EvaluationCount)

	if err != nil {
		m.FailureCount++
	} else {
		m.LastObjective = objective
		if objective < m.BestObjective {
			m.BestObjective = objective
		}
	}

	if len(m.latencies) < m.windowSize {
		m.latencies = append(m.latencies, duration)
		return
	}

	m.latencies[m.next] = duration
	m.next = (m.next + 1) % m.windowSize
}

// Percentiles returns the P95 and P99 latency over the current window.
func (m *Metrics) Percentiles() (p95, p99 time.Duration) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.percentiles()
}

// percentiles assumes the caller holds the lock.
func (m *Metrics) percentiles() (p95, p99 time.Duration) {
	if len(m.latencies) == 0 {
		return 0, 0
	}

	sorted := append([]time.Duration(nil), m.latencies...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	at := func(q float64) time.Duration {
		index := int(float64(len(sorted)) * q)
		if index >= len(sorted) {
			index = len(sorted) - 1
		}
		return sorted[index]
	}

	return at(0.95), at(0.99)
}

// SuccessRate returns the share of evaluations that produced a value.
func (m *Metrics) SuccessRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.successRate()
}

func (m *Metrics) successRate() float64 {
	if m.EvaluationCount == 0 {
		return 0
	}
	return float64(m.EvaluationCount-m.FailureCount) / float64(m.EvaluationCount)
}

// ExportMetrics returns a flat snapshot, latencies in microseconds.
func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p95, p99 := m.percentiles()

	return map[string]interface{}{
		"evaluations":    m.EvaluationCount,
		"failures":       m.FailureCount,
		"success_rate":   m.successRate(),
		"avg_latency":    m.AverageLatency.Microseconds(),
		"p95_latency":    p95.Microseconds(),
		"p99_latency":    p99.Microseconds(),
		"best_objective": m.BestObjective,
		"last_objective": m.LastObjective,
	}
}
