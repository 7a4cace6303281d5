package qudit

import (
	"sort"
	"sync"
	"time"
)

// Metrics describes the work a pool has dispatched across its lanes.
type Metrics struct {
	mu                sync.RWMutex
	LaneCount         int
	DispatchCount     int64
	InlineCount       int64
	JobCount          int64
	CellCount         int64
	TotalDispatchTime time.Duration
	KernelCounts      map[string]int64
	LaneCells         []int64

	AverageDispatchLatency time.Duration

	// latencies is a ring of the most recent dispatch durations.
	latencies []time.Duration
	next      int
	filled    int
}

func newMetrics(lanes int) *Metrics {
	return &Metrics{
		LaneCount:    lanes,
		KernelCounts: make(map[string]int64),
		LaneCells:    make([]int64, lanes),
		latencies:    make([]time.Duration, 1000),
	}
}

// recordDispatch is called once per kernel dispatch; jobs is 0 when it ran inline.
func (m *Metrics) recordDispatch(kernel string, startTime time.Time, cells, jobs int) {
	m.recordLatency(kernel, time.Since(startTime), cells, jobs)
}

func (m *Metrics) recordLatency(kernel string, duration time.Duration, cells, jobs int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DispatchCount++
	m.CellCount += int64(cells)
	m.TotalDispatchTime += duration
	m.KernelCounts[kernel]++

	if jobs == 0 {
		m.InlineCount++
	}

	m.AverageDispatchLatency = m.TotalDispatchTime / time.Duration(m.DispatchCount)

	m.latencies[m.next] = duration
	m.next = (m.next + 1) % len(m.latencies)
	m.filled = min(m.filled+1, len(m.latencies))
}

func (m *Metrics) recordJob(lane, cells int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.JobCount++

	if lane >= 0 && lane < len(m.LaneCells) {
		m.LaneCells[lane] += int64(cells)
	}
}

/*
Percentiles returns the 95th and 99th percentile dispatch latency over the
most recent dispatches. The window is sorted on demand, not per dispatch.
*/
func (m *Metrics) Percentiles() (p95, p99 time.Duration) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.percentiles()
}

func (m *Metrics) percentiles() (time.Duration, time.Duration) {
	if m.filled == 0 {
		return 0, 0
	}

	sorted := make([]time.Duration, m.filled)
	copy(sorted, m.latencies[:m.filled])
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	at := func(q float64) time.Duration {
		return sorted[min(int(float64(len(sorted))*q), len(sorted)-1)]
	}

	return at(0.95), at(0.99)
}

func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p95, p99 := m.percentiles()

	kernels := make(map[string]int64, len(m.KernelCounts))
	for name, count := range m.KernelCounts {
		kernels[name] = count
	}

	return map[string]interface{}{
		"lane_count":     m.LaneCount,
		"dispatch_count": m.DispatchCount,
		"inline_count":   m.InlineCount,
		"job_count":      m.JobCount,
		"cell_count":     m.CellCount,
		"avg_latency":    m.AverageDispatchLatency.Microseconds(),
		"p95_latency":    p95.Microseconds(),
		"p99_latency":    p99.Microseconds(),
		"kernels":        kernels,
	}
}
