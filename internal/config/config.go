package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// RunConfig drives ttmctl: which tensor to load and how to multiply it.
type RunConfig struct {
	Input   string `toml:"input"`
	Mode    int    `toml:"mode"`
	Rank    int    `toml:"rank"`
	Algo    string `toml:"algo"`
	Workers int    `toml:"workers"`
	Trace   string `toml:"trace"`
	Seed    int64  `toml:"seed"`
}

// GenConfig drives tnsgen: the shape and distribution of a generated tensor.
type GenConfig struct {
	Output   string  `toml:"output"`
	Shape    []int64 `toml:"shape"`
	Density  float64 `toml:"density"`
	Mean     float64 `toml:"mean"`
	StdDev   float64 `toml:"std_dev"`
	Seed     int64   `toml:"seed"`
	OneBased bool    `toml:"one_based"`
}

func LoadRunConfig(path string) (RunConfig, error) {
	var cfg RunConfig
	if err := loadToml(path, &cfg); err != nil {
		return RunConfig{}, err
	}
	if cfg.Rank == 0 {
		cfg.Rank = 16
	}
	if cfg.Algo == "" {
		cfg.Algo = "scoo"
	}
	if err := ValidateRunConfig(cfg); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

func LoadGenConfig(path string) (GenConfig, error) {
	var cfg GenConfig
	if err := loadToml(path, &cfg); err != nil {
		return GenConfig{}, err
	}
	if cfg.Density == 0 {
		cfg.Density = 0.01
	}
	if cfg.StdDev == 0 {
		cfg.StdDev = 1
	}
	if err := ValidateGenConfig(cfg); err != nil {
		return GenConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateRunConfig(cfg RunConfig) error {
	if strings.TrimSpace(cfg.Input) == "" {
		return fmt.Errorf("run config missing input")
	}
	if cfg.Mode < 0 {
		return fmt.Errorf("run config mode must not be negative")
	}
	if cfg.Rank <= 0 {
		return fmt.Errorf("run config rank must be positive")
	}
	switch cfg.Algo {
	case "coo", "scoo":
	default:
		return fmt.Errorf("run config algo must be coo or scoo, got %q", cfg.Algo)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("run config workers must not be negative")
	}
	return nil
}

func ValidateGenConfig(cfg GenConfig) error {
	if strings.TrimSpace(cfg.Output) == "" {
		return fmt.Errorf("gen config missing output")
	}
	if len(cfg.Shape) == 0 {
		return fmt.Errorf("gen config missing shape")
	}
	for i, n := range cfg.Shape {
		if n <= 0 {
			return fmt.Errorf("gen config shape[%d] must be positive, got %d", i, n)
		}
	}
	if cfg.Density <= 0 || cfg.Density > 1 {
		return fmt.Errorf("gen config density must lie in (0, 1], got %v", cfg.Density)
	}
	if cfg.StdDev < 0 {
		return fmt.Errorf("gen config std_dev must not be negative")
	}
	return nil
}
