package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Hyper groups the knobs of a batch gradient-descent run.
type Hyper struct {
	Iterations int
	Alpha      float64
	Lambda     float64
	// Observe, when set, receives the cost of every iteration. The cost is
	// the one Backprop computed before that iteration's update.
	Observe func(iter int, cost float64)
}

// Validate rejects hyperparameters before any computation starts.
func (p Hyper) Validate() error {
	if p.Iterations <= 0 {
		return fmt.Errorf("iterations must be > 0 (got %d): %w", p.Iterations, ErrInvalidHyperparameter)
	}
	if err := checkAlpha(p.Alpha); err != nil {
		return err
	}
	return checkLambda("gradient descent", p.Lambda)
}

func checkAlpha(alpha float64) error {
	if !(alpha > 0) || math.IsInf(alpha, 0) {
		return fmt.Errorf("alpha must be > 0 (got %v): %w", alpha, ErrInvalidHyperparameter)
	}
	return nil
}

// GradientDescent trains theta1 and theta2 in place for exactly
// p.Iterations steps of θ ← θ − α·∇J and returns the cost computed in the
// last iteration.
func GradientDescent(theta1, theta2, X, Y *mat.Dense, p Hyper) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	layers := []*mat.Dense{theta1, theta2}
	if err := checkShapes("gradient descent", layers, X, Y); err != nil {
		return 0, err
	}
	var J float64
	for iter := 0; iter < p.Iterations; iter++ {
		J = step(layers, X, Y, p.Alpha, p.Lambda)
		if p.Observe != nil {
			p.Observe(iter, J)
		}
	}
	return J, nil
}

// step runs one backprop pass and applies the update to layers.
func step(layers []*mat.Dense, X, Y *mat.Dense, alpha, lambda float64) float64 {
	J, grads := backprop(layers, X, Y, lambda)
	for l, theta := range layers {
		grads[l].Scale(-alpha, grads[l])
		theta.Add(theta, grads[l])
	}
	return J
}
