package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidHyperparameter is returned when λ, α or the iteration count
	// are out of range. It is always wrapped with the offending value.
	ErrInvalidHyperparameter = errors.New("invalid hyperparameter")
	// ErrEmpty is returned for nil or zero-sized matrices.
	ErrEmpty = errors.New("empty matrix")
)

// ShapeError reports an operand whose dimensions do not fit the operation.
type ShapeError struct {
	Op      string
	Operand string
	Want    Shape
	Got     Shape
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s has shape %s, want %s", e.Op, e.Operand, e.Got, e.Want)
}

func checkLambda(op string, lambda float64) error {
	if lambda < 0 || math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return fmt.Errorf("%s: lambda must be >= 0 (got %v): %w", op, lambda, ErrInvalidHyperparameter)
	}
	return nil
}

// checkShapes verifies that layers chain from X's width to Y's width, each
// layer carrying one extra bias column. Y may be nil.
func checkShapes(op string, layers []*mat.Dense, X, Y *mat.Dense) error {
	shapes := make([]Shape, len(layers))
	for l, theta := range layers {
		if isEmpty(theta) {
			return fmt.Errorf("%s: theta%d: %w", op, l+1, ErrEmpty)
		}
		shapes[l] = ShapeOf(theta)
	}
	return checkDims(op, shapes, X, Y)
}

func checkDims(op string, shapes []Shape, X, Y *mat.Dense) error {
	if isEmpty(X) {
		return fmt.Errorf("%s: X: %w", op, ErrEmpty)
	}
	m, in := X.Dims()
	for l, s := range shapes {
		if s.Cols != in+1 {
			return &ShapeError{
				Op:      op,
				Operand: fmt.Sprintf("theta%d", l+1),
				Want:    Shape{Rows: s.Rows, Cols: in + 1},
				Got:     s,
			}
		}
		in = s.Rows
	}
	if Y == nil {
		return nil
	}
	if isEmpty(Y) {
		return fmt.Errorf("%s: Y: %w", op, ErrEmpty)
	}
	if got, want := ShapeOf(Y), (Shape{Rows: m, Cols: in}); got != want {
		return &ShapeError{Op: op, Operand: "Y", Want: want, Got: got}
	}
	return nil
}

func isEmpty(m *mat.Dense) bool {
	return m == nil || m.IsEmpty()
}
