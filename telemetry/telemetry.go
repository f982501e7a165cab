// Package telemetry counts run events with Prometheus. Metrics live in a
// private registry so tests and multiple engines never collide.
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nathoo/ascension/types"
)

const namespace = "ascension"

// Metrics implements engine.Metrics.
type Metrics struct {
	registry *prometheus.Registry

	cardsPlayed    *prometheus.CounterVec
	combatsStarted *prometheus.CounterVec
	combatsEnded   *prometheus.CounterVec
	nodesEntered   *prometheus.CounterVec
	modernizations *prometheus.CounterVec
	runsEnded      *prometheus.CounterVec
}

// New registers the run counters on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		cardsPlayed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_played_total",
			Help:      "Cards played, partitioned by card type.",
		}, []string{"type"}),
		combatsStarted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "combats_started_total",
			Help:      "Combats started, partitioned by enemy role.",
		}, []string{"role"}),
		combatsEnded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "combats_ended_total",
			Help:      "Combats ended, partitioned by outcome.",
		}, []string{"outcome"}),
		nodesEntered: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "map_nodes_entered_total",
			Help:      "Map nodes entered, partitioned by node type.",
		}, []string{"type"}),
		modernizations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "modernizations_total",
			Help:      "Modernization triggers, partitioned by whether a legacy card was replaced.",
		}, []string{"replaced"}),
		runsEnded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_ended_total",
			Help:      "Finished runs, partitioned by final mode and act.",
		}, []string{"mode", "act"}),
	}
}

// Registry exposes the private registry, e.g. for a push gateway.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) CardPlayed(t types.CardType) {
	m.cardsPlayed.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) CombatStarted(role types.Role) {
	m.combatsStarted.WithLabelValues(string(role)).Inc()
}

func (m *Metrics) CombatEnded(won bool) {
	outcome := "lost"
	if won {
		outcome = "won"
	}
	m.combatsEnded.WithLabelValues(outcome).Inc()
}

func (m *Metrics) NodeEntered(t types.NodeType) {
	m.nodesEntered.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) Modernized(replaced bool) {
	m.modernizations.WithLabelValues(strconv.FormatBool(replaced)).Inc()
}

func (m *Metrics) RunEnded(mode types.Mode, act int) {
	m.runsEnded.WithLabelValues(string(mode), strconv.Itoa(act)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			logger.Warn("metrics server shutdown", zap.Error(err))
		}
	}()

	logger.Info("serving metrics", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
