package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/sparten/internal/algos"
	"github.com/danmuck/sparten/internal/axis"
	"github.com/danmuck/sparten/internal/config"
	"github.com/danmuck/sparten/internal/observability"
	"github.com/danmuck/sparten/internal/tnsio"
)

func main() {
	observability.InitLogger("tnsgen")

	configPath := flag.String("config", "", "optional TOML gen config, flags override")
	output := flag.String("output", "", "output tensor file (.tns)")
	shape := flag.String("shape", "", "axis lengths, e.g. 64x64x64")
	density := flag.Float64("density", 0.01, "filled fraction of the coordinate space")
	mean := flag.Float64("mean", 0, "mean of the value distribution")
	stddev := flag.Float64("stddev", 1, "standard deviation of the value distribution")
	seed := flag.Int64("seed", 42, "random seed")
	oneBased := flag.Bool("one-based", false, "write 1-based coordinates")
	flag.Parse()

	cfg := config.GenConfig{
		Output: *output, Density: *density, Mean: *mean,
		StdDev: *stddev, Seed: *seed, OneBased: *oneBased,
	}
	if *shape != "" {
		dims, err := parseShape(*shape)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid -shape")
		}
		cfg.Shape = dims
	}
	if *configPath != "" {
		loaded, err := config.LoadGenConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load gen config")
		}
		merged := loaded
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "output":
				merged.Output = cfg.Output
			case "shape":
				merged.Shape = cfg.Shape
			case "density":
				merged.Density = cfg.Density
			case "mean":
				merged.Mean = cfg.Mean
			case "stddev":
				merged.StdDev = cfg.StdDev
			case "seed":
				merged.Seed = cfg.Seed
			case "one-based":
				merged.OneBased = cfg.OneBased
			}
		})
		cfg = merged
	}
	if err := config.ValidateGenConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid gen config")
	}
	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("generation failed")
	}
}

func run(cfg config.GenConfig) error {
	shape := make(axis.Axes[uint32], len(cfg.Shape))
	for i, n := range cfg.Shape {
		lower := int64(0)
		if cfg.OneBased {
			lower = 1
		}
		shape[i] = axis.Range(uint32(lower), uint32(lower+n))
	}

	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)))
	tsr, err := algos.RandomCOO[uint32, float32](rng, shape, cfg.Density, cfg.Mean, cfg.StdDev)
	if err != nil {
		return err
	}
	log.Info().
		Str("shape", axis.Format(tsr.Shape())).
		Int("elements", tsr.NumNonZeros()).
		Msg("tensor generated")

	f, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}
	if err := tnsio.Write(f, tsr, tnsio.WriteOptions{}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info().Str("path", cfg.Output).Msg("tensor written")
	return nil
}

func parseShape(s string) ([]int64, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == 'x' || r == ',' })
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty shape")
	}
	dims := make([]int64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("bad axis length %q", p)
		}
		dims[i] = n
	}
	return dims, nil
}
