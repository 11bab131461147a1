package trainer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"backprop-forge/internal/config"
	"backprop-forge/internal/model"
)

// gradientThreshold stops the minimizer once the unrolled gradient norm is
// this small. Line searches fail to make progress well before gonum's
// default of 1e-12 on regularized networks.
const gradientThreshold = 1e-6

// Method returns the gonum minimizer registered under name.
func Method(name string) (optimize.Method, error) {
	switch name {
	case config.OptimizerCG:
		return &optimize.CG{}, nil
	case config.OptimizerLBFGS:
		return &optimize.LBFGS{}, nil
	default:
		return nil, fmt.Errorf("trainer: no minimizer named %q", name)
	}
}

// Minimize trains net in place with a general-purpose minimizer working on
// the unrolled parameters, for at most iterations major iterations.
func Minimize(net *model.Network, X, Y *mat.Dense, lambda float64, iterations int, method optimize.Method) (*optimize.Result, error) {
	s1, s2 := model.ShapeOf(net.Theta1), model.ShapeOf(net.Theta2)
	objective, err := model.Objective(X, Y, lambda, s1, s2)
	if err != nil {
		return nil, err
	}

	x0 := model.Unroll(net.Theta1, net.Theta2)
	eval := &evaluator{objective: objective}
	start := eval.Func(x0)
	problem := optimize.Problem{Func: eval.Func, Grad: eval.Grad}
	settings := &optimize.Settings{
		MajorIterations:   iterations,
		GradientThreshold: gradientThreshold,
	}

	result, err := optimize.Minimize(problem, x0, settings, method)
	if eval.err != nil {
		return nil, fmt.Errorf("trainer: minimize: %w", eval.err)
	}
	if err != nil && !settled(result, start) {
		return nil, fmt.Errorf("trainer: minimize: %w", err)
	}

	layers, err := model.Roll(result.X, s1, s2)
	if err != nil {
		return nil, err
	}
	net.Theta1.Copy(layers[0])
	net.Theta2.Copy(layers[1])
	return result, nil
}

// settled reports whether a minimizer that stopped with a failure, such as a
// line search that cannot make progress at the optimum, still holds a usable
// point: finite and no worse than where it started.
func settled(result *optimize.Result, start float64) bool {
	if result == nil || result.Status != optimize.Failure {
		return false
	}
	return !math.IsNaN(result.F) && !math.IsInf(result.F, 0) && result.F <= start
}

// evaluator memoizes the last objective evaluation so that a Func call and
// a Grad call at the same point run backpropagation once.
type evaluator struct {
	objective model.ObjectiveFunc
	x         []float64
	cost      float64
	grad      []float64
	err       error
	calls     int
}

func (e *evaluator) at(x []float64) {
	if e.x != nil && floats.Equal(e.x, x) {
		return
	}
	e.calls++
	J, grad, err := e.objective(x)
	if err != nil {
		if e.err == nil {
			e.err = err
		}
		J, grad = math.NaN(), make([]float64, len(x))
	}
	e.x = append(e.x[:0], x...)
	e.cost, e.grad = J, grad
}

// Func returns the cost at x.
func (e *evaluator) Func(x []float64) float64 {
	e.at(x)
	return e.cost
}

// Grad writes the gradient at x into grad.
func (e *evaluator) Grad(grad, x []float64) {
	e.at(x)
	copy(grad, e.grad)
}
