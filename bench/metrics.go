package bench

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics mirrors the run into Prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg             *prometheus.Registry
	durations       *prometheus.HistogramVec
	values          *prometheus.GaugeVec
	cleanupFailures *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "accessbench_scenario_duration_seconds",
			Help:    "Wall-clock duration of one scenario execution",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 16),
		}, []string{"scenario", "path"}),
		values: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "accessbench_scenario_value",
			Help: "Value of the last scenario execution (rows read, or instructor id written)",
		}, []string{"scenario", "path"}),
		cleanupFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "accessbench_cleanup_failures_total",
			Help: "Cleanup delete groups that failed",
		}, []string{"path"}),
	}
	m.reg.MustRegister(m.durations, m.values, m.cleanupFailures)
	return m
}

func (m *Metrics) Observe(r Result) {
	if m == nil {
		return
	}
	m.durations.WithLabelValues(r.Scenario, string(r.Path)).Observe(r.Duration.Seconds())
	m.values.WithLabelValues(r.Scenario, string(r.Path)).Set(float64(r.Value))
}

func (m *Metrics) CleanupFailed(path Kind, groups int) {
	if m == nil || groups <= 0 {
		return
	}
	m.cleanupFailures.WithLabelValues(string(path)).Add(float64(groups))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Push sends the collected metrics to a Pushgateway under job "accessbench".
func (m *Metrics) Push(ctx context.Context, url string) error {
	if m == nil || url == "" {
		return nil
	}
	return push.New(url, "accessbench").Gatherer(m.reg).PushContext(ctx)
}
