package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"backprop-forge/internal/config"
	"backprop-forge/internal/dataset"
	"backprop-forge/internal/metrics"
	"backprop-forge/internal/trainer"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config")
	data := flag.String("data", "", "Override dataset path (CSV file or directory)")
	modelKind := flag.String("model", "", "Override model: network, linear or logistic")
	hidden := flag.Int("hidden", 0, "Hidden layer size")
	iterations := flag.Int("iterations", 0, "Number of training iterations")
	alpha := flag.Float64("alpha", 0, "Learning rate")
	lambda := flag.Float64("lambda", 0, "Regularization strength")
	seed := flag.Int64("seed", 0, "PRNG seed")
	logEvery := flag.Int("log-every", 0, "Log every N iterations")
	optimizer := flag.String("optimizer", "", "Override optimizer: descent, cg or lbfgs")
	normalize := flag.Bool("normalize", false, "Z-score normalize features")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address")

	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Fatal().Err(err).Str("path", *cfgPath).Msg("failed to load config")
		}
	}

	overrides := config.Overrides{
		Data:        *data,
		Model:       *modelKind,
		HiddenSize:  *hidden,
		Iterations:  *iterations,
		Alpha:       *alpha,
		LogEvery:    *logEvery,
		Optimizer:   *optimizer,
		MetricsAddr: *metricsAddr,
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lambda":
			overrides.Lambda = lambda
		case "seed":
			overrides.Seed = seed
		}
	})
	cfg.ApplyOverrides(overrides)
	if *normalize {
		cfg.Normalize = true
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	zerolog.SetGlobalLevel(level)

	ds, err := dataset.Load(cfg.Data)
	if err != nil {
		log.Fatal().Err(err).Str("data", cfg.Data).Msg("failed to load dataset")
	}
	log.Info().Str("data", cfg.Data).Int("examples", ds.Len()).Int("features", ds.Features()).Msg("loaded dataset")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var collector *metrics.Collector
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		if collector, err = metrics.NewCollector(reg); err != nil {
			log.Fatal().Err(err).Msg("failed to register metrics")
		}
		serveMetrics(ctx, cfg.MetricsAddr, reg)
	}

	runCfg := trainer.RunConfig{
		Data:       ds,
		Model:      cfg.Model,
		Hidden:     cfg.HiddenSize,
		Iterations: cfg.Iterations,
		Alpha:      cfg.Alpha,
		Lambda:     cfg.Lambda,
		Epsilon:    cfg.EpsilonInit,
		Optimizer:  cfg.Optimizer,
		Normalize:  cfg.Normalize,
		LogEvery:   cfg.LogEvery,
		Seed:       cfg.Seed,
		Metrics:    collector,
	}

	if _, err := trainer.Run(ctx, runCfg); err != nil {
		log.Fatal().Err(err).Msg("training failed")
	}
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info().Str("addr", addr).Msg("serving metrics")
}
