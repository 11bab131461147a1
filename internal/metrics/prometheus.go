package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "backprop"

// Collector exports training progress to Prometheus. A nil *Collector is
// valid and records nothing.
type Collector struct {
	cost       prometheus.Gauge
	iterations prometheus.Counter
	step       prometheus.Histogram
}

// NewCollector creates the training metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		cost: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "train",
			Name:      "cost",
			Help:      "Cost of the most recent training iteration.",
		}),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "train",
			Name:      "iterations_total",
			Help:      "Completed training iterations.",
		}),
		step: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "train",
			Name:      "step_seconds",
			Help:      "Wall time of one training iteration.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
	}
	for _, m := range []prometheus.Collector{c.cost, c.iterations, c.step} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Observe records one completed iteration.
func (c *Collector) Observe(step time.Duration, cost float64) {
	if c == nil {
		return
	}
	c.iterations.Inc()
	c.step.Observe(step.Seconds())
	c.cost.Set(cost)
}

// SetCost records a cost reached outside the iteration loop.
func (c *Collector) SetCost(cost float64) {
	if c == nil {
		return
	}
	c.cost.Set(cost)
}
