package model

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// predictionClamp keeps log arguments inside (0, 1).
const predictionClamp = 1e-12

// Cost returns the regularized cross-entropy of the network (theta1, theta2)
// over X against the one-hot targets Y. Bias columns are not regularized.
func Cost(theta1, theta2, X, Y *mat.Dense, lambda float64) (float64, error) {
	layers := []*mat.Dense{theta1, theta2}
	if err := validate("cost", layers, X, Y, lambda); err != nil {
		return 0, err
	}
	acts := forward(layers, X)
	return cost(layers, acts[len(acts)-1], Y, lambda), nil
}

func validate(op string, layers []*mat.Dense, X, Y *mat.Dense, lambda float64) error {
	if err := checkLambda(op, lambda); err != nil {
		return err
	}
	return checkShapes(op, layers, X, Y)
}

// cost evaluates J from precomputed output activations h.
func cost(layers []*mat.Dense, h, Y *mat.Dense, lambda float64) float64 {
	m, _ := h.Dims()
	var sum float64
	for i := 0; i < m; i++ {
		hr, yr := h.RawRowView(i), Y.RawRowView(i)
		for j, y := range yr {
			p := ClampProbability(hr[j])
			sum += y*math.Log(p) + (1-y)*math.Log(1-p)
		}
	}
	fm := float64(m)
	return -sum/fm + lambda/(2*fm)*squaredWeights(layers)
}

// squaredWeights sums the squares of every non-bias weight.
func squaredWeights(layers []*mat.Dense) float64 {
	var sum float64
	for _, theta := range layers {
		r, _ := theta.Dims()
		for i := 0; i < r; i++ {
			w := theta.RawRowView(i)[1:]
			sum += floats.Dot(w, w)
		}
	}
	return sum
}

// ClampProbability maps p into [1e-12, 1-1e-12].
func ClampProbability(p float64) float64 {
	return math.Min(math.Max(p, predictionClamp), 1-predictionClamp)
}
