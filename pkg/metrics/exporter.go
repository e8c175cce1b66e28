package metrics

import (
	"fmt"
	"net/http"

	"github.com/msarti/mandan/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	prometheus.MustRegister(SegmentAppends, SegmentBytesAppended, SegmentReads, SegmentErrors,
		IntegrityFailures, AppendLatency, OpenSegments)
}

// StartMetricsServer serves /metrics on port in the background.
func StartMetricsServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

	go func() {
		util.Info("Prometheus exporter listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Error("metrics server failed: %v", err)
		}
	}()
	return srv
}

// ObserveAppend records one successful append of n encoded bytes.
func ObserveAppend(topic string, n int, elapsedSeconds float64) {
	SegmentAppends.WithLabelValues(topic).Inc()
	SegmentBytesAppended.WithLabelValues(topic).Add(float64(n))
	AppendLatency.Observe(elapsedSeconds)
}

func ObserveRead(topic string) {
	SegmentReads.WithLabelValues(topic).Inc()
}

func ObserveError(topic, op string) {
	SegmentErrors.WithLabelValues(topic, op).Inc()
}

func ObserveIntegrityFailure(topic string) {
	IntegrityFailures.WithLabelValues(topic).Inc()
}
