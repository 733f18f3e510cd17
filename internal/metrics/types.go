package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service is the Prometheus-backed Metrics implementation.
type Service struct {
	Replays            prometheus.Counter
	ValidationIssues   prometheus.Counter
	Recoveries         prometheus.Counter
	Reconciles         prometheus.Counter
	FinalizeDuration   prometheus.Histogram
	NotifSent          prometheus.Counter
	NotifFailed        prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
