package model

import "gonum.org/v1/gonum/mat"

// FeedForward runs X through the network (theta1, theta2) and returns the
// output layer a3 (m×k) together with the hidden and input activations a2
// (m×(h+1)) and a1 (m×(n+1)), both with a leading bias column of ones.
func FeedForward(theta1, theta2, X *mat.Dense) (a3, a2, a1 *mat.Dense, err error) {
	layers := []*mat.Dense{theta1, theta2}
	if err := checkShapes("feed forward", layers, X, nil); err != nil {
		return nil, nil, nil, err
	}
	acts := forward(layers, X)
	return acts[2], acts[1], acts[0], nil
}

// forward returns one activation per layer boundary: acts[0] is the biased
// input, acts[len(layers)] the output. Every activation but the last carries
// a bias column.
func forward(layers []*mat.Dense, X *mat.Dense) []*mat.Dense {
	acts := make([]*mat.Dense, 0, len(layers)+1)
	a := withBias(X)
	acts = append(acts, a)
	for l, theta := range layers {
		z := new(mat.Dense)
		z.Mul(a, theta.T())
		SigmoidDense(z, z)
		if l == len(layers)-1 {
			acts = append(acts, z)
			break
		}
		a = withBias(z)
		acts = append(acts, a)
	}
	return acts
}

// withBias returns [1 | a].
func withBias(a mat.Matrix) *mat.Dense {
	r, c := a.Dims()
	out := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, 1)
	}
	out.Slice(0, r, 1, c+1).(*mat.Dense).Copy(a)
	return out
}
