package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/touchline/internal/config"
	"github.com/mauv0809/touchline/internal/database"
	"github.com/mauv0809/touchline/internal/finalizer"
	server "github.com/mauv0809/touchline/internal/http"
	"github.com/mauv0809/touchline/internal/matchstore"
	"github.com/mauv0809/touchline/internal/metrics"
	"github.com/mauv0809/touchline/internal/notifier/slack"
	"github.com/mauv0809/touchline/internal/pubsub"
	"github.com/mauv0809/touchline/internal/recovery"
	"github.com/mauv0809/touchline/internal/timekeeper"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	store := matchstore.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	pubsubClient := pubsub.New(cfg.ProjectID)
	clock := timekeeper.SystemClock()
	fin := finalizer.New(store, notifier, metricsSvc, pubsubClient, clock)

	restoreCrashedSession(store, metricsSvc)

	s := server.NewServer(
		store,
		metricsSvc,
		metricsHandler,
		cfg,
		notifier,
		fin,
		clock,
		pubsubClient,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}

// restoreCrashedSession probes the live-session blobs left behind by an
// unclean exit. A repaired snapshot is written back under the primary key so
// the next session resumes from the salvaged log instead of the corrupt one.
func restoreCrashedSession(store matchstore.MatchStore, metricsSvc metrics.Metrics) {
	snap := recovery.FromCrash(store)
	if snap == nil {
		log.Debug("No crashed session state found")
		return
	}
	if !snap.Recovered {
		log.Info("Previous session state is intact", "events", len(snap.Events))
		return
	}

	metricsSvc.IncRecoveries()
	repaired, err := json.Marshal(snap)
	if err != nil {
		log.Error("Failed to re-encode recovered session", "error", err)
		return
	}
	if err := store.SetBlob(recovery.LiveStateKey, string(repaired)); err != nil {
		log.Error("Failed to persist recovered session", "error", err)
		return
	}
	log.Warn("Restored a crashed session from backup state", "events", len(snap.Events))
}
