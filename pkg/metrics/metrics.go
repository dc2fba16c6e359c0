package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// Store metrics
	StoreOperations *prometheus.CounterVec
	StoreLatency    *prometheus.HistogramVec

	// Change feed metrics
	FeedNotices         *prometheus.CounterVec
	ActiveSubscriptions prometheus.Gauge
	SnapshotFailures    prometheus.Counter

	// Data quality
	SkippedRecords *prometheus.CounterVec

	// Digest worker
	DigestsSent *prometheus.CounterVec
}

// New creates all collectors and registers them with reg. A nil reg
// registers with the default registry.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		StoreOperations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of store operations",
		}, []string{"driver", "operation", "status"}),
		StoreLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of store operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"driver", "operation"}),

		FeedNotices: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "notices_total",
			Help:      "Total number of change notices published",
		}, []string{"status"}),
		ActiveSubscriptions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "active_subscriptions",
			Help:      "Current number of open snapshot subscriptions",
		}),
		SnapshotFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "snapshot_failures_total",
			Help:      "Total number of snapshot reloads that failed",
		}),

		SkippedRecords: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_records_total",
			Help:      "Stored records skipped while building a projection",
		}, []string{"kind"}),

		DigestsSent: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "digest",
			Name:      "emails_total",
			Help:      "Total number of digest emails attempted",
		}, []string{"status"}),
	}
}

// ObserveStore records the outcome and latency of one store call.
func (m *Metrics) ObserveStore(driver, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.StoreOperations.WithLabelValues(driver, operation, status).Inc()
	m.StoreLatency.WithLabelValues(driver, operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) Notice(err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.FeedNotices.WithLabelValues(status).Inc()
}

func (m *Metrics) SubscriptionOpened() {
	if m != nil {
		m.ActiveSubscriptions.Inc()
	}
}

func (m *Metrics) SubscriptionClosed() {
	if m != nil {
		m.ActiveSubscriptions.Dec()
	}
}

func (m *Metrics) SnapshotFailed() {
	if m != nil {
		m.SnapshotFailures.Inc()
	}
}

func (m *Metrics) Skipped(kind string, n int) {
	if m != nil && n > 0 {
		m.SkippedRecords.WithLabelValues(kind).Add(float64(n))
	}
}

func (m *Metrics) Digest(err error) {
	if m == nil {
		return
	}
	status := "sent"
	if err != nil {
		status = "failed"
	}
	m.DigestsSent.WithLabelValues(status).Inc()
}
