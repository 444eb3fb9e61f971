package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	FramesProcessed prometheus.Counter
	CorrectReps     prometheus.Counter
	IncorrectReps   prometheus.Counter
	HardResets      prometheus.Counter
	ActiveSessions  prometheus.Gauge
}

// NewMetrics creates and registers the server metrics.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.FramesProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "repcoach_frames_processed_total",
		Help: "Landmark frames run through a frame processor",
	})
	m.CorrectReps = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "repcoach_reps_correct_total",
		Help: "Rep attempts resolved as correct",
	})
	m.IncorrectReps = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "repcoach_reps_incorrect_total",
		Help: "Rep attempts resolved as incorrect",
	})
	m.HardResets = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "repcoach_hard_resets_total",
		Help: "Inactivity-triggered hard resets",
	})
	m.ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "repcoach_active_sessions",
		Help: "Sessions currently registered",
	})

	m.registry.MustRegister(
		m.FramesProcessed,
		m.CorrectReps,
		m.IncorrectReps,
		m.HardResets,
		m.ActiveSessions,
	)
	return m
}

// Handler serves the metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
