package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Replays: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touchline_log_replays_total",
			Help: "The total number of event log replays performed.",
		}),
		ValidationIssues: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touchline_validation_issues_total",
			Help: "The total number of validation issues reported.",
		}),
		Recoveries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touchline_log_recoveries_total",
			Help: "The total number of corrupted logs repaired by the recovery engine.",
		}),
		Reconciles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touchline_plan_reconciles_total",
			Help: "The total number of planning-session reconciliations.",
		}),
		FinalizeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "touchline_match_finalize_duration_seconds",
			Help:    "The duration of individual match finalizations.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touchline_notifications_sent_total",
			Help: "The total number of notifications successfully sent.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "touchline_notifications_failed_total",
			Help: "The total number of notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "touchline_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.Replays,
		s.ValidationIssues,
		s.Recoveries,
		s.Reconciles,
		s.FinalizeDuration,
		s.NotifSent,
		s.NotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncReplays() {
	s.Replays.Inc()
}

func (s *Service) IncValidationIssues(count int) {
	s.ValidationIssues.Add(float64(count))
}

func (s *Service) IncRecoveries() {
	s.Recoveries.Inc()
}

func (s *Service) IncReconciles() {
	s.Reconciles.Inc()
}

func (s *Service) ObserveFinalizeDuration(duration float64) {
	s.FinalizeDuration.Observe(duration)
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
