package metrics

import "time"

// Window accumulates timing and cost stats across multiple iterations.
type Window struct {
	examples  int
	compute   time.Duration
	steps     int
	firstCost float64
	lastCost  float64
}

// Record adds a new measurement to the window.
func (w *Window) Record(examples int, computeTime time.Duration, cost float64) {
	if w.steps == 0 {
		w.firstCost = cost
	}
	w.examples += examples
	w.compute += computeTime
	w.steps++
	w.lastCost = cost
}

// Snapshot returns aggregated metrics and resets the window.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{Steps: w.steps}
	if w.compute > 0 {
		snap.ExamplesPerSec = float64(w.examples) / w.compute.Seconds()
	}
	if w.steps > 0 {
		snap.AvgComputeMS = (w.compute.Seconds() * 1000) / float64(w.steps)
		snap.CostDelta = w.lastCost - w.firstCost
	}
	snap.LastCost = w.lastCost

	w.examples = 0
	w.compute = 0
	w.steps = 0
	return snap
}

// Snapshot represents loggable metrics.
type Snapshot struct {
	Steps          int
	ExamplesPerSec float64
	AvgComputeMS   float64
	LastCost       float64
	// CostDelta is the change in cost between the first and last iteration
	// of the window.
	CostDelta float64
}
