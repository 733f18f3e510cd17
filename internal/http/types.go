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

type Server struct {
	Store          matchstore.MatchStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Finalizer      *finalizer.Finalizer
	Clock          timekeeper.Clock
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
