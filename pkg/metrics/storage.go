package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SegmentAppends = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "segment_appends_total",
		Help: "Total number of records appended to segment files",
	}, []string{"topic"})

	SegmentBytesAppended = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "segment_bytes_appended_total",
		Help: "Total number of encoded bytes (header + payload) appended",
	}, []string{"topic"})

	SegmentReads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "segment_reads_total",
		Help: "Total number of records read back by offset",
	}, []string{"topic"})

	SegmentErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "segment_errors_total",
		Help: "Failed segment operations by operation",
	}, []string{"topic", "op"})

	IntegrityFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "segment_integrity_failures_total",
		Help: "Records that decoded but failed hash validation",
	}, []string{"topic"})

	AppendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "segment_append_latency_seconds",
		Help:    "Histogram of append latency including flush",
		Buckets: prometheus.DefBuckets,
	})

	OpenSegments = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "segment_open_handlers",
		Help: "Number of segment handlers currently open",
	})
)
