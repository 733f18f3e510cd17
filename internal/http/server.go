package http

import (
	"net/http"

	"github.com/mauv0809/touchline/internal/config"
	"github.com/mauv0809/touchline/internal/finalizer"
	"github.com/mauv0809/touchline/internal/matchstore"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/notifier"
	"github.com/mauv0809/touchline/internal/pubsub"
	"github.com/mauv0809/touchline/internal/timekeeper"
)

func NewServer(store matchstore.MatchStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, finalizer *finalizer.Finalizer, clock timekeeper.Clock, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Finalizer:      finalizer,
		Clock:          clock,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("/summary", Chain(s.MatchSummaryHandler(), paramsMiddleware))
	s.Router.Handle("/validate", Chain(s.ValidateLogHandler(), paramsMiddleware))
	s.Router.Handle("/recover", Chain(s.RecoverLogHandler(), paramsMiddleware))
	s.Router.Handle("/finalize", Chain(s.FinalizeMatchHandler(), paramsMiddleware))
	s.Router.Handle("/plan/reconcile", Chain(s.ReconcilePlanHandler(), paramsMiddleware))
	s.Router.Handle("/ingest-log", Chain(s.IngestLogHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
