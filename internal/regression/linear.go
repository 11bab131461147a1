package regression

import (
	"gonum.org/v1/gonum/mat"

	"backprop-forge/internal/model"
)

func identity(v float64) float64 { return v }

// LinearCost is the halved mean squared error of X·w + b against y.
func LinearCost(X *mat.Dense, y, w *mat.VecDense, b float64) float64 {
	m, _ := X.Dims()
	var diff mat.VecDense
	diff.SubVec(hypothesis(X, w, b, identity), y)
	return mat.Dot(&diff, &diff) / (2 * float64(m))
}

// LinearGradient returns the gradient of LinearCost with respect to w and b.
func LinearGradient(X *mat.Dense, y, w *mat.VecDense, b float64) (*mat.VecDense, float64) {
	return gradient(X, hypothesis(X, w, b, identity), y)
}

// Linear returns the least-squares objective.
func Linear() Objective {
	return Objective{Cost: LinearCost, Grad: LinearGradient}
}

// PredictLinear returns X·w + b.
func PredictLinear(X *mat.Dense, w *mat.VecDense, b float64) *mat.VecDense {
	return hypothesis(X, w, b, identity)
}

// LinearModel adapts linear regression to the trainer.
type LinearModel struct {
	W     *mat.VecDense
	B     float64
	alpha float64
}

// NewLinearModel returns a zero-initialized model over n features.
func NewLinearModel(n int, alpha float64) *LinearModel {
	return &LinearModel{W: mat.NewVecDense(n, nil), alpha: alpha}
}

// TrainStep applies one update and returns the cost after it. batch.Y must
// be a single column.
func (l *LinearModel) TrainStep(batch model.Batch) (float64, error) {
	y, err := targets(batch)
	if err != nil {
		return 0, err
	}
	if err := checkDims("linear train step", batch.X, y, l.W); err != nil {
		return 0, err
	}
	l.B = descend(batch.X, y, l.W, l.B, Linear(), l.alpha)
	return LinearCost(batch.X, y, l.W, l.B), nil
}

func targets(batch model.Batch) (*mat.VecDense, error) {
	if batch.Y == nil || batch.Y.IsEmpty() {
		return nil, model.ErrEmpty
	}
	m, c := batch.Y.Dims()
	if c != 1 {
		return nil, &model.ShapeError{Op: "targets", Operand: "Y", Want: model.Shape{Rows: m, Cols: 1}, Got: model.Shape{Rows: m, Cols: c}}
	}
	return mat.VecDenseCopyOf(batch.Y.ColView(0)), nil
}
