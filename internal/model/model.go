package model

import "gonum.org/v1/gonum/mat"

// Batch is a full training set. X holds one example per row and Y the
// matching targets: one-hot rows for the network, a single column for the
// regressors.
type Batch struct {
	X *mat.Dense
	Y *mat.Dense
}

// Model defines the minimal training functionality required by the trainer.
type Model interface {
	TrainStep(batch Batch) (float64, error)
}

// Predictor is implemented by models that can label examples.
type Predictor interface {
	Predict(X *mat.Dense) ([]int, error)
}
