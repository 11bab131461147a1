package model

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sigmoid returns the logistic function 1/(1+e^-z).
// Extreme inputs saturate to exactly 0 or 1.
func Sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// SigmoidGradient returns the sigmoid derivative given its output a = Sigmoid(z).
func SigmoidGradient(a float64) float64 {
	return a * (1 - a)
}

// SigmoidDense sets dst to the element-wise sigmoid of z.
func SigmoidDense(dst *mat.Dense, z mat.Matrix) {
	dst.Apply(func(_, _ int, v float64) float64 { return Sigmoid(v) }, z)
}
