package metrics_test

import (
	"testing"

	"github.com/msarti/mandan/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func getCounterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	_ = c.Write(m)
	return m.GetCounter().GetValue()
}

func getHistogramCount(h prometheus.Histogram) uint64 {
	m := &dto.Metric{}
	_ = h.Write(m)
	return m.GetHistogram().GetSampleCount()
}

func TestObserveAppend(t *testing.T) {
	appends := metrics.SegmentAppends.WithLabelValues("metrics-topic")
	bytesAppended := metrics.SegmentBytesAppended.WithLabelValues("metrics-topic")

	initialAppends := getCounterValue(appends)
	initialBytes := getCounterValue(bytesAppended)
	initialLatency := getHistogramCount(metrics.AppendLatency)

	metrics.ObserveAppend("metrics-topic", 30, 0.002)
	metrics.ObserveAppend("metrics-topic", 12, 0.001)

	if got := getCounterValue(appends); got != initialAppends+2 {
		t.Fatalf("SegmentAppends expected %v, got %v", initialAppends+2, got)
	}
	if got := getCounterValue(bytesAppended); got != initialBytes+42 {
		t.Fatalf("SegmentBytesAppended expected %v, got %v", initialBytes+42, got)
	}
	if got := getHistogramCount(metrics.AppendLatency); got != initialLatency+2 {
		t.Fatalf("AppendLatency count expected %v, got %v", initialLatency+2, got)
	}
}

func TestObserveReadAndFailures(t *testing.T) {
	reads := metrics.SegmentReads.WithLabelValues("metrics-read")
	failures := metrics.IntegrityFailures.WithLabelValues("metrics-read")
	errs := metrics.SegmentErrors.WithLabelValues("metrics-read", "read")

	r0, f0, e0 := getCounterValue(reads), getCounterValue(failures), getCounterValue(errs)

	metrics.ObserveRead("metrics-read")
	metrics.ObserveIntegrityFailure("metrics-read")
	metrics.ObserveError("metrics-read", "read")

	if getCounterValue(reads) != r0+1 {
		t.Fatalf("SegmentReads not incremented")
	}
	if getCounterValue(failures) != f0+1 {
		t.Fatalf("IntegrityFailures not incremented")
	}
	if getCounterValue(errs) != e0+1 {
		t.Fatalf("SegmentErrors not incremented")
	}
}
