package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"backprop-forge/internal/model"
)

// LogisticCost is the mean cross-entropy of sigmoid(X·w + b) against the
// 0/1 targets y.
func LogisticCost(X *mat.Dense, y, w *mat.VecDense, b float64) float64 {
	m, _ := X.Dims()
	f := hypothesis(X, w, b, model.Sigmoid)
	var sum float64
	for i := 0; i < m; i++ {
		p, t := model.ClampProbability(f.AtVec(i)), y.AtVec(i)
		sum += t*math.Log(p) + (1-t)*math.Log(1-p)
	}
	return -sum / float64(m)
}

// LogisticGradient returns the gradient of LogisticCost.
func LogisticGradient(X *mat.Dense, y, w *mat.VecDense, b float64) (*mat.VecDense, float64) {
	return gradient(X, hypothesis(X, w, b, model.Sigmoid), y)
}

// LogisticCostReg adds (λ/2m)·Σw² to LogisticCost. The bias is not
// regularized.
func LogisticCostReg(X *mat.Dense, y, w *mat.VecDense, b, lambda float64) float64 {
	m, _ := X.Dims()
	return LogisticCost(X, y, w, b) + lambda/(2*float64(m))*mat.Dot(w, w)
}

// LogisticGradientReg adds λ·w/m to the weight gradient.
func LogisticGradientReg(X *mat.Dense, y, w *mat.VecDense, b, lambda float64) (*mat.VecDense, float64) {
	m, _ := X.Dims()
	dw, db := LogisticGradient(X, y, w, b)
	dw.AddScaledVec(dw, lambda/float64(m), w)
	return dw, db
}

// Logistic returns the logistic objective regularized by lambda.
func Logistic(lambda float64) (Objective, error) {
	if lambda < 0 || math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return Objective{}, fmt.Errorf("lambda must be >= 0 (got %v): %w", lambda, model.ErrInvalidHyperparameter)
	}
	return Objective{
		Cost: func(X *mat.Dense, y, w *mat.VecDense, b float64) float64 {
			return LogisticCostReg(X, y, w, b, lambda)
		},
		Grad: func(X *mat.Dense, y, w *mat.VecDense, b float64) (*mat.VecDense, float64) {
			return LogisticGradientReg(X, y, w, b, lambda)
		},
	}, nil
}

// PredictLogistic thresholds sigmoid(X·w + b) at 0.5.
func PredictLogistic(X *mat.Dense, w *mat.VecDense, b float64) []int {
	f := hypothesis(X, w, b, model.Sigmoid)
	out := make([]int, f.Len())
	for i := range out {
		if f.AtVec(i) >= 0.5 {
			out[i] = 1
		}
	}
	return out
}

// LogisticModel adapts regularized logistic regression to the trainer.
type LogisticModel struct {
	W     *mat.VecDense
	B     float64
	alpha float64
	obj   Objective
}

// NewLogisticModel returns a zero-initialized model over n features.
func NewLogisticModel(n int, alpha, lambda float64) (*LogisticModel, error) {
	obj, err := Logistic(lambda)
	if err != nil {
		return nil, err
	}
	return &LogisticModel{W: mat.NewVecDense(n, nil), alpha: alpha, obj: obj}, nil
}

// TrainStep applies one update and returns the cost after it.
func (l *LogisticModel) TrainStep(batch model.Batch) (float64, error) {
	y, err := targets(batch)
	if err != nil {
		return 0, err
	}
	if err := checkDims("logistic train step", batch.X, y, l.W); err != nil {
		return 0, err
	}
	l.B = descend(batch.X, y, l.W, l.B, l.obj, l.alpha)
	return l.obj.Cost(batch.X, y, l.W, l.B), nil
}

// Predict labels every row of X with 0 or 1.
func (l *LogisticModel) Predict(X *mat.Dense) ([]int, error) {
	if err := checkWidth("predict", X, l.W); err != nil {
		return nil, err
	}
	return PredictLogistic(X, l.W, l.B), nil
}
