package model

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// separable returns two well separated clusters labelled 0 and 1.
func separable() (X, Y *mat.Dense, labels []int) {
	X = mat.NewDense(6, 2, []float64{
		-2, -1.5,
		-1.5, -2,
		-1, -1.8,
		2, 1.5,
		1.5, 2,
		1, 1.8,
	})
	labels = []int{0, 0, 0, 1, 1, 1}
	Y = mat.NewDense(6, 2, nil)
	for i, l := range labels {
		Y.Set(i, l, 1)
	}
	return X, Y, labels
}

func TestGradientDescentCostDecreases(t *testing.T) {
	X, Y, _ := separable()
	rng := rand.New(rand.NewSource(11))
	theta1 := RandInit(3, 3, DefaultEpsilon, rng)
	theta2 := RandInit(2, 4, DefaultEpsilon, rng)

	var history []float64
	J, err := GradientDescent(theta1, theta2, X, Y, Hyper{
		Iterations: 200,
		Alpha:      0.1,
		Lambda:     0.01,
		Observe: func(iter int, cost float64) {
			assert.Equal(t, len(history), iter)
			history = append(history, cost)
		},
	})
	require.NoError(t, err)
	require.Len(t, history, 200)
	assert.Equal(t, history[len(history)-1], J)

	for i := 1; i < len(history); i++ {
		assert.LessOrEqual(t, history[i], history[i-1], "iteration %d", i)
	}
	assert.Less(t, history[len(history)-1], history[0])
}

func TestGradientDescentUpdatesInPlace(t *testing.T) {
	X, Y, _ := separable()
	rng := rand.New(rand.NewSource(2))
	theta1 := RandInit(3, 3, DefaultEpsilon, rng)
	theta2 := RandInit(2, 4, DefaultEpsilon, rng)
	start1, start2 := mat.DenseCopyOf(theta1), mat.DenseCopyOf(theta2)

	J0, grad1, grad2, err := Backprop(theta1, theta2, X, Y, 0.5)
	require.NoError(t, err)

	J, err := GradientDescent(theta1, theta2, X, Y, Hyper{Iterations: 1, Alpha: 0.3, Lambda: 0.5})
	require.NoError(t, err)
	assert.Equal(t, J0, J)

	var want mat.Dense
	want.Scale(-0.3, grad1)
	want.Add(start1, &want)
	assert.True(t, mat.EqualApprox(&want, theta1, 1e-15))

	want.Reset()
	want.Scale(-0.3, grad2)
	want.Add(start2, &want)
	assert.True(t, mat.EqualApprox(&want, theta2, 1e-15))
}

func TestGradientDescentValidation(t *testing.T) {
	X, Y, _ := separable()
	theta1 := mat.NewDense(3, 3, nil)
	theta2 := mat.NewDense(2, 4, nil)

	tests := map[string]Hyper{
		"zero iterations":     {Iterations: 0, Alpha: 0.1},
		"negative iterations": {Iterations: -3, Alpha: 0.1},
		"negative lambda":     {Iterations: 10, Alpha: 0.1, Lambda: -1},
		"zero alpha":          {Iterations: 10, Alpha: 0},
	}

	for name, p := range tests {
		t.Run(name, func(t *testing.T) {
			calls := 0
			p.Observe = func(int, float64) { calls++ }
			_, err := GradientDescent(theta1, theta2, X, Y, p)
			assert.True(t, errors.Is(err, ErrInvalidHyperparameter), "got %v", err)
			assert.Zero(t, calls)
			assert.True(t, mat.Equal(mat.NewDense(3, 3, nil), theta1))
		})
	}

	_, err := GradientDescent(theta1, mat.NewDense(2, 3, nil), X, Y, Hyper{Iterations: 1, Alpha: 0.1})
	var shapeErr *ShapeError
	assert.True(t, errors.As(err, &shapeErr))
}
