package firmware

import "runtime"

// HeapGauge approximates a device free-heap counter for host-side runtimes.
// It captures the Go heap size at construction and reports a configured
// budget minus growth since then, which is close enough to the device's
// mem_free reading for the governor's greedy decisions.
type HeapGauge struct {
	budget   int
	baseline uint64
}

// NewHeapGauge captures the current heap allocation as the baseline.
func NewHeapGauge(budget int) *HeapGauge {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return &HeapGauge{budget: budget, baseline: m.HeapAlloc}
}

// Free returns the remaining budget in bytes, never negative.
func (g *HeapGauge) Free() int {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	used := 0
	if m.HeapAlloc > g.baseline {
		used = int(m.HeapAlloc - g.baseline)
	}
	free := g.budget - used
	if free < 0 {
		free = 0
	}
	return free
}
