package tabledist

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    rowCounter      prometheus.Counter
//	    renderHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordRow() {
//	    p.rowCounter.Inc()
//	}
type MetricsCollector interface {
	// RecordRow is called for every data row folded or filtered.
	RecordRow()

	// RecordSkippedRow is called for every header row and blank line.
	RecordSkippedRow()

	// RecordDistance is called after each distance run.
	// samples is the matrix width, duration the total time taken,
	// err is nil if successful.
	RecordDistance(samples int, duration time.Duration, err error)

	// RecordFilter is called after each filter run.
	RecordFilter(total, kept uint64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRow()                                        {}
func (NoopMetricsCollector) RecordSkippedRow()                                 {}
func (NoopMetricsCollector) RecordDistance(int, time.Duration, error)          {}
func (NoopMetricsCollector) RecordFilter(uint64, uint64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RowCount           atomic.Int64
	SkippedRowCount    atomic.Int64
	DistanceCount      atomic.Int64
	DistanceErrors     atomic.Int64
	DistanceTotalNanos atomic.Int64
	DistanceMaxSamples atomic.Int64
	FilterCount        atomic.Int64
	FilterErrors       atomic.Int64
	FilterTotalNanos   atomic.Int64
	FilterRowsKept     atomic.Int64
	FilterRowsDropped  atomic.Int64
}

// RecordRow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRow() {
	b.RowCount.Add(1)
}

// RecordSkippedRow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSkippedRow() {
	b.SkippedRowCount.Add(1)
}

// RecordDistance implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDistance(samples int, duration time.Duration, err error) {
	b.DistanceCount.Add(1)
	b.DistanceTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.DistanceErrors.Add(1)
	}
	for {
		cur := b.DistanceMaxSamples.Load()
		if int64(samples) <= cur || b.DistanceMaxSamples.CompareAndSwap(cur, int64(samples)) {
			break
		}
	}
}

// RecordFilter implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFilter(total, kept uint64, duration time.Duration, err error) {
	b.FilterCount.Add(1)
	b.FilterTotalNanos.Add(duration.Nanoseconds())
	b.FilterRowsKept.Add(int64(kept))
	b.FilterRowsDropped.Add(int64(total - kept))
	if err != nil {
		b.FilterErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RowCount:           b.RowCount.Load(),
		SkippedRowCount:    b.SkippedRowCount.Load(),
		DistanceCount:      b.DistanceCount.Load(),
		DistanceErrors:     b.DistanceErrors.Load(),
		DistanceAvgNanos:   avg(b.DistanceTotalNanos.Load(), b.DistanceCount.Load()),
		DistanceMaxSamples: b.DistanceMaxSamples.Load(),
		FilterCount:        b.FilterCount.Load(),
		FilterErrors:       b.FilterErrors.Load(),
		FilterAvgNanos:     avg(b.FilterTotalNanos.Load(), b.FilterCount.Load()),
		FilterRowsKept:     b.FilterRowsKept.Load(),
		FilterRowsDropped:  b.FilterRowsDropped.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RowCount           int64
	SkippedRowCount    int64
	DistanceCount      int64
	DistanceErrors     int64
	DistanceAvgNanos   int64
	DistanceMaxSamples int64
	FilterCount        int64
	FilterErrors       int64
	FilterAvgNanos     int64
	FilterRowsKept     int64
	FilterRowsDropped  int64
}
