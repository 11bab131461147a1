package model

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultEpsilon bounds the uniform initial weights.
	DefaultEpsilon = 0.12
	// DefaultHidden is the hidden layer width used when none is given.
	DefaultHidden = 25
)

// Network is a two-layer sigmoid network trained by batch gradient descent.
type Network struct {
	Theta1 *mat.Dense
	Theta2 *mat.Dense
	alpha  float64
	lambda float64
}

// NewNetwork constructs a network with weights drawn uniformly from
// [-epsilon, epsilon].
func NewNetwork(input, hidden, output int, alpha, lambda, epsilon float64, seed int64) (*Network, error) {
	if input <= 0 || output <= 0 {
		return nil, fmt.Errorf("network: input and output sizes must be > 0 (got %d, %d): %w", input, output, ErrInvalidHyperparameter)
	}
	if hidden <= 0 {
		hidden = DefaultHidden
	}
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	if err := checkAlpha(alpha); err != nil {
		return nil, fmt.Errorf("network: %w", err)
	}
	if err := checkLambda("network", lambda); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	return &Network{
		Theta1: RandInit(hidden, input+1, epsilon, rng),
		Theta2: RandInit(output, hidden+1, epsilon, rng),
		alpha:  alpha,
		lambda: lambda,
	}, nil
}

// RandInit returns a rows×cols matrix with entries uniform in [-epsilon, epsilon].
func RandInit(rows, cols int, epsilon float64, rng *rand.Rand) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * epsilon
	}
	return mat.NewDense(rows, cols, data)
}

// TrainStep executes one gradient-descent step over the whole batch and
// returns the cost measured before the update.
func (n *Network) TrainStep(batch Batch) (float64, error) {
	layers := []*mat.Dense{n.Theta1, n.Theta2}
	if err := checkShapes("train step", layers, batch.X, batch.Y); err != nil {
		return 0, err
	}
	return step(layers, batch.X, batch.Y, n.alpha, n.lambda), nil
}

// Predict returns the most likely class of every row of X.
func (n *Network) Predict(X *mat.Dense) ([]int, error) {
	return Predict(n.Theta1, n.Theta2, X)
}

// Predict labels every row of X with the index of its largest output.
func Predict(theta1, theta2, X *mat.Dense) ([]int, error) {
	a3, _, _, err := FeedForward(theta1, theta2, X)
	if err != nil {
		return nil, err
	}
	m, _ := a3.Dims()
	labels := make([]int, m)
	for i := range labels {
		labels[i] = floats.MaxIdx(a3.RawRowView(i))
	}
	return labels, nil
}

// Accuracy is the fraction of predictions equal to labels.
func Accuracy(pred, labels []int) (float64, error) {
	if len(pred) != len(labels) {
		return 0, &ShapeError{
			Op:      "accuracy",
			Operand: "predictions",
			Want:    Shape{Rows: len(labels), Cols: 1},
			Got:     Shape{Rows: len(pred), Cols: 1},
		}
	}
	if len(labels) == 0 {
		return 0, fmt.Errorf("accuracy: labels: %w", ErrEmpty)
	}
	hits := 0
	for i, p := range pred {
		if p == labels[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(labels)), nil
}
