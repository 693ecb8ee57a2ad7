package main

import (
	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
)

// benchConfig holds the workload parameters. Every field can be set via environment variables.
type benchConfig struct {
	// Number of entities alive at any time.
	Entities int `env:"BENCH_ENTITIES" envDefault:"10000" json:"entities"`

	// Number of simulated ticks.
	Ticks int `env:"BENCH_TICKS" envDefault:"100" json:"ticks"`

	// Fraction of entities despawned and replaced every tick.
	Churn float64 `env:"BENCH_CHURN" envDefault:"0.01" json:"churn"`

	// Fraction of entities that gain or lose the frozen tag every tick.
	Toggle float64 `env:"BENCH_TOGGLE" envDefault:"0.05" json:"toggle"`

	// Seed for the workload's PRNG.
	Seed uint64 `env:"BENCH_SEED" envDefault:"1" json:"seed"`

	// File the JSON report is written to. Empty writes to stdout.
	Output string `env:"BENCH_OUTPUT" json:"-"`
}

// loadBenchConfig loads the configuration from environment variables.
func loadBenchConfig() (benchConfig, error) {
	cfg := benchConfig{}

	if err := env.Parse(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to parse bench config")
	}

	if err := cfg.validate(); err != nil {
		return cfg, eris.Wrap(err, "failed to validate bench config")
	}

	return cfg, nil
}

// validate performs validation on the loaded configuration.
func (cfg *benchConfig) validate() error {
	if cfg.Entities <= 0 {
		return eris.New("entities must be positive")
	}
	if cfg.Ticks <= 0 {
		return eris.New("ticks must be positive")
	}
	if cfg.Churn < 0.0 || cfg.Churn > 1.0 {
		return eris.New("churn must be between 0.0 and 1.0")
	}
	if cfg.Toggle < 0.0 || cfg.Toggle > 1.0 {
		return eris.New("toggle must be between 0.0 and 1.0")
	}
	return nil
}
