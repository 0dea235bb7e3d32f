//
//  Copyright © 2026 ThoughtWire B.V. All rights reserved.
//
//  CONTACT: eng@thoughtwire.io
//

package buffer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ThoughtWire/merge-index/diskio"
)

// NsObserver takes the start of an operation in unix nanoseconds and
// records the elapsed time.
type NsObserver func(startNs int64)

type Setter func(val uint64)

// Metrics holds the prometheus collectors shared by every buffer of one
// process. A nil *Metrics is valid and turns every observer into a no-op,
// so embedders without a metrics pipeline pass nil.
type Metrics struct {
	operationDurations *prometheus.HistogramVec
	bufferSize         *prometheus.GaugeVec
	diskIO             *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operationDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mergeindex",
			Name:      "buffer_operation_duration_ms",
			Help:      "Duration of a single buffer operation in milliseconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 12),
		}, []string{"path", "operation"}),
		bufferSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "mergeindex",
			Name:      "buffer_size_bytes",
			Help:      "Logical bytes written to the posting log of a buffer",
		}, []string{"path"}),
		diskIO: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mergeindex",
			Name:      "buffer_disk_io_throughput",
			Help:      "Throughput of posting log disk operations in bytes/s",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 12),
		}, []string{"path", "operation"}),
	}

	reg.MustRegister(m.operationDurations, m.bufferSize, m.diskIO)
	return m
}

func (m *Metrics) BufferOpObserver(path, operation string) NsObserver {
	if m == nil {
		return func(startNs int64) {}
	}

	obs := m.operationDurations.With(prometheus.Labels{"path": path, "operation": operation})
	return func(startNs int64) {
		obs.Observe(float64(time.Now().UnixNano()-startNs) / float64(time.Millisecond))
	}
}

func (m *Metrics) BufferSizeSetter(path string) Setter {
	if m == nil {
		return func(val uint64) {}
	}

	gauge := m.bufferSize.With(prometheus.Labels{"path": path})
	return func(val uint64) {
		gauge.Set(float64(val))
	}
}

// DiskIOObserver returns a diskio-compatible callback observing throughput.
// Returns nil for nil Metrics; the metered wrappers skip nil callbacks.
func (m *Metrics) DiskIOObserver(path, operation string) func(n, nanoseconds int64) {
	if m == nil {
		return nil
	}

	obs := m.diskIO.With(prometheus.Labels{"path": path, "operation": operation})
	return func(n, nanoseconds int64) {
		if nanoseconds <= 0 {
			return
		}
		obs.Observe(float64(n) / (float64(nanoseconds) / float64(time.Second)))
	}
}

// bufferMetrics curries the prometheus functions once at buffer open so the
// hot path doesn't allocate labels.
type bufferMetrics struct {
	write      NsObserver
	info       NsObserver
	iterator   NsObserver
	replay     NsObserver
	size       Setter
	replayRead diskio.MeteredReaderCallback
	flushWrite diskio.MeteredWriterCallback
}

func newBufferMetrics(metrics *Metrics, path string) *bufferMetrics {
	return &bufferMetrics{
		write:      metrics.BufferOpObserver(path, "write"),
		info:       metrics.BufferOpObserver(path, "info"),
		iterator:   metrics.BufferOpObserver(path, "iterator"),
		replay:     metrics.BufferOpObserver(path, "replay"),
		size:       metrics.BufferSizeSetter(path),
		replayRead: metrics.DiskIOObserver(path, "replay_read"),
		flushWrite: metrics.DiskIOObserver(path, "flush_write"),
	}
}
