package carray

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordConstruct is called after each array construction attempt.
	// bytes is the size of the element buffer, err is nil if successful.
	RecordConstruct(rank int, bytes int64, duration time.Duration, err error)

	// RecordRelease is called when the last handle of an array is released.
	RecordRelease(rank int, bytes int64, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

// RecordConstruct implements MetricsCollector.
func (NoopMetricsCollector) RecordConstruct(int, int64, time.Duration, error) {}

// RecordRelease implements MetricsCollector.
func (NoopMetricsCollector) RecordRelease(int, int64, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ConstructCount      atomic.Int64
	ConstructErrors     atomic.Int64
	ConstructTotalNanos atomic.Int64
	ConstructBytes      atomic.Int64
	ReleaseCount        atomic.Int64
	ReleaseErrors       atomic.Int64
	LiveArrays          atomic.Int64
	LiveBytes           atomic.Int64
	liveByRank          [MaxRank + 1]atomic.Int64
}

// RecordConstruct implements MetricsCollector.
func (b *BasicMetricsCollector) RecordConstruct(rank int, bytes int64, duration time.Duration, err error) {
	b.ConstructCount.Add(1)
	b.ConstructTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ConstructErrors.Add(1)
		return
	}
	b.ConstructBytes.Add(bytes)
	b.LiveArrays.Add(1)
	b.LiveBytes.Add(bytes)
	if rank >= 1 && rank <= MaxRank {
		b.liveByRank[rank].Add(1)
	}
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(rank int, bytes int64, err error) {
	b.ReleaseCount.Add(1)
	if err != nil {
		b.ReleaseErrors.Add(1)
	}
	b.LiveArrays.Add(-1)
	b.LiveBytes.Add(-bytes)
	if rank >= 1 && rank <= MaxRank {
		b.liveByRank[rank].Add(-1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ConstructCount:    b.ConstructCount.Load(),
		ConstructErrors:   b.ConstructErrors.Load(),
		ConstructAvgNanos: b.getAvgConstructNanos(),
		ConstructBytes:    b.ConstructBytes.Load(),
		ReleaseCount:      b.ReleaseCount.Load(),
		ReleaseErrors:     b.ReleaseErrors.Load(),
		LiveArrays:        b.LiveArrays.Load(),
		LiveBytes:         b.LiveBytes.Load(),
		LiveVectors:       b.liveByRank[1].Load(),
		LiveMatrices:      b.liveByRank[2].Load(),
		LiveTensors:       b.liveByRank[3].Load(),
	}
}

func (b *BasicMetricsCollector) getAvgConstructNanos() int64 {
	count := b.ConstructCount.Load()
	if count == 0 {
		return 0
	}
	return b.ConstructTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ConstructCount    int64
	ConstructErrors   int64
	ConstructAvgNanos int64
	ConstructBytes    int64
	ReleaseCount      int64
	ReleaseErrors     int64
	LiveArrays        int64
	LiveBytes         int64
	LiveVectors       int64
	LiveMatrices      int64
	LiveTensors       int64
}
