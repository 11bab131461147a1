package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"backprop-forge/internal/model"
)

// Supported model kinds.
const (
	ModelNetwork  = "network"
	ModelLinear   = "linear"
	ModelLogistic = "logistic"
)

// Supported optimizers. Descent is plain batch gradient descent; the others
// hand the unrolled parameters to a general-purpose minimizer.
const (
	OptimizerDescent = "descent"
	OptimizerCG      = "cg"
	OptimizerLBFGS   = "lbfgs"
)

// Config captures the runtime knobs for a training run.
type Config struct {
	Data        string  `yaml:"data"`
	Model       string  `yaml:"model"`
	HiddenSize  int     `yaml:"hidden_size"`
	Iterations  int     `yaml:"iterations"`
	Alpha       float64 `yaml:"alpha"`
	Lambda      float64 `yaml:"lambda"`
	EpsilonInit float64 `yaml:"epsilon_init"`
	Seed        int64   `yaml:"seed"`
	Normalize   bool    `yaml:"normalize"`
	LogEvery    int     `yaml:"log_every"`
	Optimizer   string  `yaml:"optimizer"`
	MetricsAddr string  `yaml:"metrics_addr"`
	LogLevel    string  `yaml:"log_level"`
}

// Overrides captures CLI supplied values. Lambda and Seed are pointers
// because zero is a meaningful setting for both.
type Overrides struct {
	Data        string
	Model       string
	HiddenSize  int
	Iterations  int
	Alpha       float64
	Lambda      *float64
	Seed        *int64
	LogEvery    int
	Optimizer   string
	MetricsAddr string
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Model:       ModelNetwork,
		HiddenSize:  model.DefaultHidden,
		Iterations:  1000,
		Alpha:       1,
		EpsilonInit: model.DefaultEpsilon,
		LogEvery:    50,
		Optimizer:   OptimizerDescent,
		LogLevel:    zerolog.InfoLevel.String(),
	}
}

// Load reads a Config from YAML on top of Default. Unknown keys are
// rejected. The result still needs Validate once overrides are applied.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Data != "" {
		c.Data = o.Data
	}
	if o.Model != "" {
		c.Model = o.Model
	}
	if o.HiddenSize > 0 {
		c.HiddenSize = o.HiddenSize
	}
	if o.Iterations > 0 {
		c.Iterations = o.Iterations
	}
	if o.Alpha > 0 {
		c.Alpha = o.Alpha
	}
	if o.Lambda != nil {
		c.Lambda = *o.Lambda
	}
	if o.Seed != nil {
		c.Seed = *o.Seed
	}
	if o.LogEvery > 0 {
		c.LogEvery = o.LogEvery
	}
	if o.Optimizer != "" {
		c.Optimizer = o.Optimizer
	}
	if o.MetricsAddr != "" {
		c.MetricsAddr = o.MetricsAddr
	}
}

// Validate verifies the config is runnable, filling defaults for optional
// fields.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Data == "" {
		return errors.New("data must be set")
	}
	switch c.Model {
	case "":
		c.Model = ModelNetwork
	case ModelNetwork, ModelLinear, ModelLogistic:
	default:
		return fmt.Errorf("unknown model %q", c.Model)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be > 0 (got %d)", c.Iterations)
	}
	if c.Alpha <= 0 {
		return fmt.Errorf("alpha must be > 0 (got %v)", c.Alpha)
	}
	if c.Lambda < 0 {
		return fmt.Errorf("lambda must be >= 0 (got %v)", c.Lambda)
	}
	if c.HiddenSize <= 0 {
		c.HiddenSize = model.DefaultHidden
	}
	if c.EpsilonInit <= 0 {
		c.EpsilonInit = model.DefaultEpsilon
	}
	if c.LogEvery <= 0 {
		c.LogEvery = 50
	}
	switch c.Optimizer {
	case "":
		c.Optimizer = OptimizerDescent
	case OptimizerDescent:
	case OptimizerCG, OptimizerLBFGS:
		if c.Model != ModelNetwork {
			return fmt.Errorf("optimizer %q is only available for the %s model", c.Optimizer, ModelNetwork)
		}
	default:
		return fmt.Errorf("unknown optimizer %q", c.Optimizer)
	}
	if c.LogLevel == "" {
		c.LogLevel = zerolog.InfoLevel.String()
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}
