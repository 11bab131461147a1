package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Shape is the row and column count of a weight matrix.
type Shape struct {
	Rows, Cols int
}

// ShapeOf returns the dimensions of m, or the zero Shape for nil.
func ShapeOf(m *mat.Dense) Shape {
	if m == nil {
		return Shape{}
	}
	r, c := m.Dims()
	return Shape{Rows: r, Cols: c}
}

// Size is the number of entries.
func (s Shape) Size() int {
	return s.Rows * s.Cols
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Cols)
}

// Unroll flattens layers row by row into one contiguous parameter vector.
func Unroll(layers ...*mat.Dense) []float64 {
	n := 0
	for _, l := range layers {
		n += ShapeOf(l).Size()
	}
	v := make([]float64, 0, n)
	for _, l := range layers {
		r, _ := l.Dims()
		for i := 0; i < r; i++ {
			v = append(v, l.RawRowView(i)...)
		}
	}
	return v
}

// Roll is the inverse of Unroll: it cuts v into matrices of the given
// shapes. The returned matrices own their data.
func Roll(v []float64, shapes ...Shape) ([]*mat.Dense, error) {
	total := 0
	for i, s := range shapes {
		if s.Rows <= 0 || s.Cols <= 0 {
			return nil, fmt.Errorf("roll: shape %d is %s: %w", i, s, ErrEmpty)
		}
		total += s.Size()
	}
	if total != len(v) {
		return nil, &ShapeError{
			Op:      "roll",
			Operand: "parameter vector",
			Want:    Shape{Rows: 1, Cols: total},
			Got:     Shape{Rows: 1, Cols: len(v)},
		}
	}
	out := make([]*mat.Dense, len(shapes))
	off := 0
	for i, s := range shapes {
		data := make([]float64, s.Size())
		copy(data, v[off:off+s.Size()])
		out[i] = mat.NewDense(s.Rows, s.Cols, data)
		off += s.Size()
	}
	return out, nil
}

// ObjectiveFunc evaluates the cost and its unrolled gradient at an unrolled
// parameter vector.
type ObjectiveFunc func(theta []float64) (float64, []float64, error)

// Objective adapts Backprop to a generic minimizer that works on the
// unrolled parameters of a network with layer shapes s1 and s2. The gradient
// shares the parameter vector's layout.
func Objective(X, Y *mat.Dense, lambda float64, s1, s2 Shape) (ObjectiveFunc, error) {
	if err := checkLambda("objective", lambda); err != nil {
		return nil, err
	}
	if err := checkDims("objective", []Shape{s1, s2}, X, Y); err != nil {
		return nil, err
	}
	return func(theta []float64) (float64, []float64, error) {
		layers, err := Roll(theta, s1, s2)
		if err != nil {
			return 0, nil, err
		}
		J, grads := backprop(layers, X, Y, lambda)
		return J, Unroll(grads...), nil
	}, nil
}
