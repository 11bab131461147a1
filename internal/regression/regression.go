// Package regression holds the single-layer models trained with the same
// batch gradient-descent pattern as the network: linear regression and
// (regularized) logistic regression.
package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"backprop-forge/internal/model"
)

// Objective pairs a cost with its gradient for parameters (w, b).
type Objective struct {
	Cost func(X *mat.Dense, y, w *mat.VecDense, b float64) float64
	Grad func(X *mat.Dense, y, w *mat.VecDense, b float64) (*mat.VecDense, float64)
}

// GradientDescent runs iters steps of batch gradient descent starting from
// (w0, b0), which are left untouched. history holds the cost after every
// update.
func GradientDescent(X *mat.Dense, y, w0 *mat.VecDense, b0 float64, obj Objective, alpha float64, iters int) (w *mat.VecDense, b float64, history []float64, err error) {
	if iters <= 0 {
		return nil, 0, nil, fmt.Errorf("iterations must be > 0 (got %d): %w", iters, model.ErrInvalidHyperparameter)
	}
	if !(alpha > 0) || math.IsInf(alpha, 0) {
		return nil, 0, nil, fmt.Errorf("alpha must be > 0 (got %v): %w", alpha, model.ErrInvalidHyperparameter)
	}
	if err := checkDims("gradient descent", X, y, w0); err != nil {
		return nil, 0, nil, err
	}
	w = mat.VecDenseCopyOf(w0)
	b = b0
	history = make([]float64, 0, iters)
	for i := 0; i < iters; i++ {
		b = descend(X, y, w, b, obj, alpha)
		history = append(history, obj.Cost(X, y, w, b))
	}
	return w, b, history, nil
}

// descend applies one update to w in place and returns the new bias.
func descend(X *mat.Dense, y, w *mat.VecDense, b float64, obj Objective, alpha float64) float64 {
	dw, db := obj.Grad(X, y, w, b)
	w.AddScaledVec(w, -alpha, dw)
	return b - alpha*db
}

// hypothesis returns g(X·w + b) row by row.
func hypothesis(X *mat.Dense, w *mat.VecDense, b float64, g func(float64) float64) *mat.VecDense {
	m, _ := X.Dims()
	f := mat.NewVecDense(m, nil)
	f.MulVec(X, w)
	for i := 0; i < m; i++ {
		f.SetVec(i, g(f.AtVec(i)+b))
	}
	return f
}

// gradient of the mean error f - y: Xᵗ(f-y)/m and Σ(f-y)/m.
func gradient(X *mat.Dense, f, y *mat.VecDense) (*mat.VecDense, float64) {
	m, n := X.Dims()
	var diff mat.VecDense
	diff.SubVec(f, y)
	dw := mat.NewVecDense(n, nil)
	dw.MulVec(X.T(), &diff)
	dw.ScaleVec(1/float64(m), dw)
	return dw, mat.Sum(&diff) / float64(m)
}

func checkDims(op string, X *mat.Dense, y, w *mat.VecDense) error {
	if err := checkWidth(op, X, w); err != nil {
		return err
	}
	if y == nil {
		return fmt.Errorf("%s: y: %w", op, model.ErrEmpty)
	}
	if m, _ := X.Dims(); y.Len() != m {
		return &model.ShapeError{Op: op, Operand: "y", Want: model.Shape{Rows: m, Cols: 1}, Got: model.Shape{Rows: y.Len(), Cols: 1}}
	}
	return nil
}

func checkWidth(op string, X *mat.Dense, w *mat.VecDense) error {
	if X == nil || X.IsEmpty() {
		return fmt.Errorf("%s: X: %w", op, model.ErrEmpty)
	}
	if w == nil {
		return fmt.Errorf("%s: w: %w", op, model.ErrEmpty)
	}
	if _, n := X.Dims(); w.Len() != n {
		return &model.ShapeError{Op: op, Operand: "w", Want: model.Shape{Rows: n, Cols: 1}, Got: model.Shape{Rows: w.Len(), Cols: 1}}
	}
	return nil
}

// ZScore normalizes every column of X to zero mean and unit (sample)
// standard deviation. Constant columns are only centered.
func ZScore(X *mat.Dense) (norm *mat.Dense, mu, sigma []float64) {
	m, n := X.Dims()
	norm = mat.NewDense(m, n, nil)
	mu = make([]float64, n)
	sigma = make([]float64, n)
	col := make([]float64, m)
	for j := 0; j < n; j++ {
		mat.Col(col, j, X)
		mu[j], sigma[j] = stat.MeanStdDev(col, nil)
		for i, v := range col {
			v -= mu[j]
			if sigma[j] > 0 {
				v /= sigma[j]
			}
			norm.Set(i, j, v)
		}
	}
	return norm, mu, sigma
}
