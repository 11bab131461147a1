package model

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFeedForwardShapes(t *testing.T) {
	type test struct {
		m, n, h, k int
	}

	tests := map[string]test{
		"single example": {m: 1, n: 2, h: 2, k: 1},
		"square":         {m: 3, n: 3, h: 3, k: 3},
		"wide input":     {m: 5, n: 20, h: 4, k: 10},
		"wide hidden":    {m: 2, n: 1, h: 16, k: 2},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(1))
			theta1 := RandInit(tt.h, tt.n+1, 1, rng)
			theta2 := RandInit(tt.k, tt.h+1, 1, rng)
			X := RandInit(tt.m, tt.n, 1, rng)

			a3, a2, a1, err := FeedForward(theta1, theta2, X)
			require.NoError(t, err)
			assert.Equal(t, Shape{tt.m, tt.n + 1}, ShapeOf(a1))
			assert.Equal(t, Shape{tt.m, tt.h + 1}, ShapeOf(a2))
			assert.Equal(t, Shape{tt.m, tt.k}, ShapeOf(a3))

			for i := 0; i < tt.m; i++ {
				assert.Equal(t, 1.0, a1.At(i, 0))
				assert.Equal(t, 1.0, a2.At(i, 0))
				assert.Equal(t, X.RawRowView(i), a1.RawRowView(i)[1:])
			}
		})
	}
}

func TestFeedForwardZeroWeights(t *testing.T) {
	theta1 := mat.NewDense(2, 3, nil)
	theta2 := mat.NewDense(1, 3, nil)
	X := mat.NewDense(1, 2, []float64{1, 1})

	a3, a2, a1, err := FeedForward(theta1, theta2, X)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, a3.RawRowView(0))
	assert.Equal(t, []float64{1, 0.5, 0.5}, a2.RawRowView(0))
	assert.Equal(t, []float64{1, 1, 1}, a1.RawRowView(0))
}

func TestFeedForwardShapeMismatch(t *testing.T) {
	type test struct {
		theta1, theta2, X *mat.Dense
		operand           string
		want, got         Shape
	}

	tests := map[string]test{
		"theta1 missing bias column": {
			theta1:  mat.NewDense(2, 2, nil),
			theta2:  mat.NewDense(1, 3, nil),
			X:       mat.NewDense(4, 2, nil),
			operand: "theta1",
			want:    Shape{2, 3},
			got:     Shape{2, 2},
		},
		"theta2 does not match hidden width": {
			theta1:  mat.NewDense(3, 3, nil),
			theta2:  mat.NewDense(1, 3, nil),
			X:       mat.NewDense(4, 2, nil),
			operand: "theta2",
			want:    Shape{1, 4},
			got:     Shape{1, 3},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, _, err := FeedForward(tt.theta1, tt.theta2, tt.X)
			var shapeErr *ShapeError
			require.True(t, errors.As(err, &shapeErr), "got %v", err)
			assert.Equal(t, tt.operand, shapeErr.Operand)
			assert.Equal(t, tt.want, shapeErr.Want)
			assert.Equal(t, tt.got, shapeErr.Got)
		})
	}
}

func TestFeedForwardNil(t *testing.T) {
	_, _, _, err := FeedForward(nil, mat.NewDense(1, 3, nil), mat.NewDense(1, 2, nil))
	assert.True(t, errors.Is(err, ErrEmpty))

	_, _, _, err = FeedForward(mat.NewDense(2, 3, nil), mat.NewDense(1, 3, nil), nil)
	assert.True(t, errors.Is(err, ErrEmpty))
}
