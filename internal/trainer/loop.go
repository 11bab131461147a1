package trainer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/optimize"

	"backprop-forge/internal/config"
	"backprop-forge/internal/dataset"
	"backprop-forge/internal/metrics"
	"backprop-forge/internal/model"
	"backprop-forge/internal/regression"
)

// RunConfig captures the knobs required by the training loop.
type RunConfig struct {
	Data       *dataset.Dataset
	Model      string
	Hidden     int
	Iterations int
	Alpha      float64
	Lambda     float64
	Epsilon    float64
	Optimizer  string
	Normalize  bool
	LogEvery   int
	Seed       int64
	// Metrics is optional.
	Metrics *metrics.Collector
}

// Result summarizes a finished run.
type Result struct {
	RunID      string
	Model      model.Model
	Cost       float64
	Iterations int
	// Accuracy on the training set, only meaningful when Classifier is set.
	Accuracy   float64
	Classifier bool
}

// Run executes the training workload.
func Run(ctx context.Context, cfg RunConfig) (Result, error) {
	if cfg.Data == nil {
		return Result{}, errors.New("trainer: no dataset")
	}
	if cfg.Iterations <= 0 {
		return Result{}, errors.New("trainer: iterations must be > 0")
	}
	if cfg.LogEvery <= 0 {
		cfg.LogEvery = 50
	}

	res := Result{RunID: uuid.New().String()}
	logger := log.With().Str("run", res.RunID).Str("model", cfg.Model).Logger()

	mdl, batch, labels, err := build(cfg)
	if err != nil {
		return Result{}, err
	}
	res.Model = mdl
	m, n := batch.X.Dims()
	logger.Info().Int("examples", m).Int("features", n).Str("optimizer", cfg.Optimizer).Msg("training started")

	switch cfg.Optimizer {
	case "", config.OptimizerDescent:
		res.Cost, err = descend(ctx, logger, mdl, batch, cfg)
		res.Iterations = cfg.Iterations
	default:
		net, ok := mdl.(*model.Network)
		if !ok {
			return Result{}, fmt.Errorf("trainer: optimizer %q needs a network model", cfg.Optimizer)
		}
		var method optimize.Method
		if method, err = Method(cfg.Optimizer); err != nil {
			return Result{}, err
		}
		var out *optimize.Result
		if out, err = Minimize(net, batch.X, batch.Y, cfg.Lambda, cfg.Iterations, method); err == nil {
			res.Cost, res.Iterations = out.F, out.MajorIterations
			cfg.Metrics.SetCost(out.F)
			logger.Info().
				Str("status", out.Status.String()).
				Int("iterations", out.MajorIterations).
				Int("evaluations", out.FuncEvaluations).
				Float64("cost", out.F).
				Msg("minimizer finished")
		}
	}
	if err != nil {
		return Result{}, err
	}

	if p, ok := mdl.(model.Predictor); ok && labels != nil {
		pred, err := p.Predict(batch.X)
		if err != nil {
			return Result{}, err
		}
		if res.Accuracy, err = model.Accuracy(pred, labels); err != nil {
			return Result{}, err
		}
		res.Classifier = true
	}

	event := logger.Info().Float64("cost", res.Cost).Int("iterations", res.Iterations)
	if res.Classifier {
		event = event.Float64("accuracy", res.Accuracy)
	}
	event.Msg("training finished")
	return res, nil
}

// build constructs the configured model and its batch. labels is nil for
// models that do not classify.
func build(cfg RunConfig) (model.Model, model.Batch, []int, error) {
	ds := cfg.Data
	X := ds.X
	if cfg.Normalize {
		X, _, _ = regression.ZScore(ds.X)
	}
	switch cfg.Model {
	case "", config.ModelNetwork:
		labels, k, err := ds.Labels()
		if err != nil {
			return nil, model.Batch{}, nil, err
		}
		Y, err := dataset.OneHot(labels, k)
		if err != nil {
			return nil, model.Batch{}, nil, err
		}
		net, err := model.NewNetwork(ds.Features(), cfg.Hidden, k, cfg.Alpha, cfg.Lambda, cfg.Epsilon, cfg.Seed)
		if err != nil {
			return nil, model.Batch{}, nil, err
		}
		return net, model.Batch{X: X, Y: Y}, labels, nil
	case config.ModelLogistic:
		labels, k, err := ds.Labels()
		if err != nil {
			return nil, model.Batch{}, nil, err
		}
		if k > 2 {
			return nil, model.Batch{}, nil, fmt.Errorf("trainer: logistic regression needs 0/1 labels, found %d classes", k)
		}
		lr, err := regression.NewLogisticModel(ds.Features(), cfg.Alpha, cfg.Lambda)
		if err != nil {
			return nil, model.Batch{}, nil, err
		}
		return lr, model.Batch{X: X, Y: ds.Targets()}, labels, nil
	case config.ModelLinear:
		return regression.NewLinearModel(ds.Features(), cfg.Alpha), model.Batch{X: X, Y: ds.Targets()}, nil, nil
	default:
		return nil, model.Batch{}, nil, fmt.Errorf("trainer: unknown model %q", cfg.Model)
	}
}

// descend runs cfg.Iterations train steps, logging a metrics snapshot every
// cfg.LogEvery iterations.
func descend(ctx context.Context, logger zerolog.Logger, mdl model.Model, batch model.Batch, cfg RunConfig) (float64, error) {
	var window metrics.Window
	examples, _ := batch.X.Dims()
	var cost float64
	for iter := 1; iter <= cfg.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return cost, err
		}
		start := time.Now()
		c, err := mdl.TrainStep(batch)
		if err != nil {
			return cost, fmt.Errorf("trainer: iteration %d: %w", iter, err)
		}
		elapsed := time.Since(start)
		cost = c

		window.Record(examples, elapsed, cost)
		cfg.Metrics.Observe(elapsed, cost)

		if iter%cfg.LogEvery == 0 {
			snap := window.Snapshot()
			logger.Info().
				Int("iter", iter).
				Float64("examples_per_sec", snap.ExamplesPerSec).
				Float64("compute_ms", snap.AvgComputeMS).
				Float64("cost", snap.LastCost).
				Float64("cost_delta", snap.CostDelta).
				Msg("progress")
		}
	}
	return cost, nil
}
