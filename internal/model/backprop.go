package model

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Backprop returns the cost J of the network (theta1, theta2) on (X, Y)
// together with its gradients with respect to theta1 and theta2. None of the
// arguments are modified.
func Backprop(theta1, theta2, X, Y *mat.Dense, lambda float64) (J float64, grad1, grad2 *mat.Dense, err error) {
	layers := []*mat.Dense{theta1, theta2}
	if err := validate("backprop", layers, X, Y, lambda); err != nil {
		return 0, nil, nil, err
	}
	J, grads := backprop(layers, X, Y, lambda)
	return J, grads[0], grads[1], nil
}

func backprop(layers []*mat.Dense, X, Y *mat.Dense, lambda float64) (float64, []*mat.Dense) {
	acts := forward(layers, X)
	J := cost(layers, acts[len(acts)-1], Y, lambda)

	grads := make([]*mat.Dense, len(layers))
	for l, theta := range layers {
		r, c := theta.Dims()
		grads[l] = mat.NewDense(r, c, nil)
	}
	m, _ := X.Dims()
	for i := 0; i < m; i++ {
		accumulate(grads, layers, acts, Y.RawRowView(i), i)
	}
	finalize(grads, layers, lambda, m)
	return J, grads
}

// accumulate adds example i's contribution to every gradient.
func accumulate(grads, layers, acts []*mat.Dense, y []float64, i int) {
	out := acts[len(acts)-1].RawRowView(i)
	delta := make([]float64, len(out))
	floats.SubTo(delta, out, y)

	for l := len(layers) - 1; l >= 0; l-- {
		a := acts[l].RawRowView(i)
		// grad += deltaᵗ·a
		for r, d := range delta {
			floats.AddScaled(grads[l].RawRowView(r), d, a)
		}
		if l == 0 {
			break
		}
		back := make([]float64, len(a))
		mat.NewVecDense(len(back), back).MulVec(layers[l].T(), mat.NewVecDense(len(delta), delta))
		for j, v := range a {
			back[j] *= SigmoidGradient(v)
		}
		delta = back[1:]
	}
}

// finalize averages the accumulated gradients over m examples and adds the
// regularization term to every non-bias column.
func finalize(grads, layers []*mat.Dense, lambda float64, m int) {
	fm := float64(m)
	for l, g := range grads {
		r, _ := g.Dims()
		for i := 0; i < r; i++ {
			row, theta := g.RawRowView(i), layers[l].RawRowView(i)
			row[0] /= fm
			for j := 1; j < len(row); j++ {
				row[j] = (row[j] + lambda*theta[j]) / fm
			}
		}
	}
}
