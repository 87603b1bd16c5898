package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SimulationCollector exposes descent-simulation metrics. It satisfies the
// recorder interfaces of core.Simulator and session.Store.
type SimulationCollector struct {
	gatherer prometheus.Gatherer

	Simulations    *prometheus.CounterVec
	Steps          prometheus.Histogram
	Duration       prometheus.Histogram
	RunawayTotal   prometheus.Counter
	ActiveSessions prometheus.Gauge
}

// NewSimulationCollector registers simulation metrics against reg.
func NewSimulationCollector(reg prometheus.Registerer) (*SimulationCollector, error) {
	reg, gatherer := resolveRegistry(reg)

	sims, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "impact_simulations_total",
		Help: "Completed descent simulations, labeled by outcome class.",
	}, []string{"outcome"}), "impact_simulations_total")
	if err != nil {
		return nil, err
	}

	steps, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "impact_simulation_steps",
		Help:    "Integration steps taken per simulation across both phases.",
		Buckets: []float64{100, 110, 125, 150, 200, 300, 500, 750, 1100},
	}), "impact_simulation_steps")
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "impact_simulation_duration_seconds",
		Help:    "Wall-clock time spent integrating one simulation.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	}), "impact_simulation_duration_seconds")
	if err != nil {
		return nil, err
	}

	runaway, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "impact_runaway_total",
		Help: "Simulations that hit the low-altitude runaway bound.",
	}), "impact_runaway_total")
	if err != nil {
		return nil, err
	}

	active, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "impact_active_sessions",
		Help: "Simulation sessions currently held for playback.",
	}), "impact_active_sessions")
	if err != nil {
		return nil, err
	}

	return &SimulationCollector{
		gatherer:       gatherer,
		Simulations:    sims,
		Steps:          steps,
		Duration:       duration,
		RunawayTotal:   runaway,
		ActiveSessions: active,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *SimulationCollector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// ObserveSimulation records one completed simulation.
func (c *SimulationCollector) ObserveSimulation(outcome string, steps int, runaway bool, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Simulations.WithLabelValues(outcome).Inc()
	c.Steps.Observe(float64(steps))
	c.Duration.Observe(elapsed.Seconds())
	if runaway {
		c.RunawayTotal.Inc()
	}
}

// SetActiveSessions updates the session gauge.
func (c *SimulationCollector) SetActiveSessions(n int) {
	if c == nil {
		return
	}
	c.ActiveSessions.Set(float64(n))
}
