package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBenchConfig_Defaults(t *testing.T) {
	cfg, err := loadBenchConfig()
	require.NoError(t, err)

	assert.Equal(t, 10000, cfg.Entities)
	assert.Equal(t, 100, cfg.Ticks)
	assert.InDelta(t, 0.01, cfg.Churn, 1e-9)
	assert.InDelta(t, 0.05, cfg.Toggle, 1e-9)
	assert.Equal(t, uint64(1), cfg.Seed)
	assert.Empty(t, cfg.Output)
}

func TestLoadBenchConfig_FromEnv(t *testing.T) {
	t.Setenv("BENCH_ENTITIES", "500")
	t.Setenv("BENCH_TICKS", "3")
	t.Setenv("BENCH_CHURN", "0.5")
	t.Setenv("BENCH_SEED", "42")
	t.Setenv("BENCH_OUTPUT", "report.json")

	cfg, err := loadBenchConfig()
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Entities)
	assert.Equal(t, 3, cfg.Ticks)
	assert.InDelta(t, 0.5, cfg.Churn, 1e-9)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, "report.json", cfg.Output)
}

func TestLoadBenchConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero entities", key: "BENCH_ENTITIES", value: "0"},
		{name: "negative ticks", key: "BENCH_TICKS", value: "-1"},
		{name: "churn above one", key: "BENCH_CHURN", value: "1.5"},
		{name: "negative toggle", key: "BENCH_TOGGLE", value: "-0.1"},
		{name: "unparsable seed", key: "BENCH_SEED", value: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := loadBenchConfig()
			require.Error(t, err)
		})
	}
}
