package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/sparten/internal/algos"
	"github.com/danmuck/sparten/internal/axis"
	"github.com/danmuck/sparten/internal/config"
	"github.com/danmuck/sparten/internal/observability"
	"github.com/danmuck/sparten/internal/tnsio"
	"github.com/danmuck/sparten/internal/trace"
)

const (
	minElapsed = 3 * time.Second
	minRounds  = 5
)

func main() {
	observability.InitLogger("ttmctl")

	configPath := flag.String("config", "", "optional TOML run config, flags override")
	input := flag.String("input", "", "input tensor file (.tns)")
	mode := flag.Int("mode", 0, "common axis of the tensor, counting from 0")
	rank := flag.Int("rank", 16, "number of columns in the random matrix")
	algo := flag.String("algo", "scoo", "kernel: coo (fully sparse input) | scoo")
	workers := flag.Int("workers", 0, "value-phase workers, 0 = all cores, 1 = serial")
	tracePath := flag.String("trace", "", "performance trace output, '-' for the log")
	seed := flag.Int64("seed", 42, "random seed for the matrix")
	flag.Parse()

	cfg := config.RunConfig{
		Input: *input, Mode: *mode, Rank: *rank, Algo: *algo,
		Workers: *workers, Trace: *tracePath, Seed: *seed,
	}
	if *configPath != "" {
		loaded, err := config.LoadRunConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load run config")
		}
		cfg = loaded
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "input":
				cfg.Input = *input
			case "mode":
				cfg.Mode = *mode
			case "rank":
				cfg.Rank = *rank
			case "algo":
				cfg.Algo = *algo
			case "workers":
				cfg.Workers = *workers
			case "trace":
				cfg.Trace = *tracePath
			case "seed":
				cfg.Seed = *seed
			}
		})
	}
	if err := config.ValidateRunConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid run config")
	}
	if err := run(context.Background(), cfg); err != nil {
		log.Fatal().Err(err).Msg("ttm run failed")
	}
}

func run(ctx context.Context, cfg config.RunConfig) error {
	var tracer *trace.Tracer
	if cfg.Trace != "" {
		t, err := trace.NewFileTracer(cfg.Trace)
		if err != nil {
			return err
		}
		tracer = t
		defer func() {
			if err := tracer.Close(); err != nil {
				log.Error().Err(err).Msg("trace output failed")
			}
		}()
	}

	log.Info().Str("path", cfg.Input).Msg("reading tensor")
	f, err := os.Open(cfg.Input)
	if err != nil {
		return err
	}
	tsr, err := tnsio.Read[uint32, float32](f, tnsio.ReadOptions{})
	f.Close()
	if err != nil {
		return err
	}
	log.Info().
		Str("shape", axis.Format(tsr.Shape())).
		Int("elements", tsr.NumNonZeros()).
		Msg("input tensor")

	if cfg.Mode >= tsr.NDim() {
		return fmt.Errorf("mode %d out of range, tensor has %d axes", cfg.Mode, tsr.NDim())
	}
	if cfg.Algo == "coo" && tsr.BlockSize() != 1 {
		return fmt.Errorf("algo coo needs a fully sparse tensor, block size is %d", tsr.BlockSize())
	}
	common := tsr.Shape()[cfg.Mode]
	cols := axis.New[uint32]("rank", 0, uint32(cfg.Rank))
	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)))
	matrix, err := algos.RandomDenseMatrix[uint32, float32](rng, common, cols, 0, 1)
	if err != nil {
		return err
	}
	log.Info().
		Str("shape", axis.Format(matrix.Shape())).
		Int("elements", matrix.NumNonZeros()).
		Msg("random matrix")

	var order axis.Axes[uint32]
	for _, ax := range tsr.SparseAxes() {
		if ax != common {
			order = append(order, ax)
		}
	}
	order = append(order, common)
	log.Info().Str("order", axis.Format(order)).Msg("sorting tensor")
	if err := algos.Sort(tsr, order); err != nil {
		return err
	}

	effective := cfg.Workers
	if effective == 0 {
		effective = runtime.GOMAXPROCS(0)
	}
	task := &algos.TTM[uint32, float32]{Tensor: tsr, Matrix: matrix, Workers: cfg.Workers}
	log.Info().Str("algo", cfg.Algo).Int("workers", effective).Msg("warming up")
	out, err := task.Execute(ctx)
	if err != nil {
		return err
	}
	log.Info().
		Str("shape", axis.Format(out.Shape())).
		Int("elements", out.NumNonZeros()).
		Msg("output tensor")

	log.Info().Msg("running benchmark")
	task.Tracer = tracer
	var elapsed time.Duration
	rounds := 0
	for rounds < minRounds || elapsed < minElapsed {
		start := time.Now()
		if _, err := task.Execute(ctx); err != nil {
			return err
		}
		elapsed += time.Since(start)
		rounds++
	}
	log.Info().
		Int("rounds", rounds).
		Dur("per_iteration", elapsed/time.Duration(rounds)).
		Msg("benchmark finished")
	return nil
}
