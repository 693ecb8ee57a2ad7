// Command ecsbench runs a synthetic simulation against an ecs.World and prints a JSON report.
//
// The workload integrates positions in parallel, freezes and thaws entities (each one an
// archetype migration), and replaces a fraction of the entities every tick. It is configured
// through BENCH_* environment variables; logging through LOG_LEVEL and LOG_FORMAT. Logs go to
// stderr, so stdout carries only the report.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/argus-labs/columnar/pkg/telemetry"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

func main() {
	tel, err := telemetry.New(telemetry.Options{ServiceName: "ecsbench"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	logger := tel.GetLogger("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, tel, os.Stdout)
	stop()
	if err != nil {
		logger.Fatal().Err(err).Msg("benchmark failed")
	}
}

// run executes the configured benchmark. The report goes to BENCH_OUTPUT, or to stdout when it
// is empty; logs never share that stream.
func run(ctx context.Context, tel telemetry.Telemetry, stdout io.Writer) error {
	cfg, err := loadBenchConfig()
	if err != nil {
		return err
	}

	runID := uuid.New()
	logger := tel.GetLogger("bench").With().Str("run_id", runID.String()).Logger()
	logger.Info().
		Int("entities", cfg.Entities).
		Int("ticks", cfg.Ticks).
		Uint64("seed", cfg.Seed).
		Msg("starting benchmark")

	r, err := newBench(cfg, tel.GetLogger("world")).run(ctx)
	if err != nil {
		return err
	}
	r.RunID = runID.String()

	logger.Info().
		Float64("elapsed_ms", r.ElapsedMS).
		Float64("ticks_per_second", r.TicksPerSecond).
		Int("archetypes", len(r.Archetypes)).
		Msg("benchmark finished")

	return writeReportTo(cfg.Output, stdout, &r, logger)
}

// writeReportTo writes the report to path, or to stdout if path is empty.
func writeReportTo(path string, stdout io.Writer, r *report, logger zerolog.Logger) error {
	out := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "failed to create %s", path)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Error().Err(err).Str("path", path).Msg("failed to close report")
			}
		}()
		out = f
	}
	return r.write(out)
}
