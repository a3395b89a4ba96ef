// Package metrics counts deck operations with Prometheus collectors and
// exports them as a node-exporter textfile.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/deck/internal/engine"
)

const namespace = "deck"

// codeStorage labels failures that are not DeckErrors.
const codeStorage = "STORAGE"

// Metrics holds the deck collectors on a private registry.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	failures   *prometheus.CounterVec
	deckSize   prometheus.Gauge
}

// New creates and registers the deck collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Deck operations attempted, by operation.",
		}, []string{"op"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Deck operations that returned an error, by operation and error code.",
		}, []string{"op", "code"}),
		deckSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "slides",
			Help:      "Number of slides in the deck.",
		}),
	}
	m.registry.MustRegister(m.operations, m.failures, m.deckSize)
	return m
}

// ObserveOperation counts one finished operation. It has the shape of
// engine.Observer and is meant to be passed to engine.WithObserver.
func (m *Metrics) ObserveOperation(op string, err error) {
	m.operations.WithLabelValues(op).Inc()
	if err == nil {
		return
	}
	code := string(engine.ErrorCodeOf(err))
	if code == "" {
		code = codeStorage
	}
	m.failures.WithLabelValues(op, code).Inc()
}

// SetDeckSize records the current number of slides.
func (m *Metrics) SetDeckSize(n int) {
	m.deckSize.Set(float64(n))
}

// Registry returns the registry holding the deck collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every collector to path in the text exposition
// format, replacing the file atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
