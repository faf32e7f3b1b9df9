package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangsam/buildlens/schema"
)

// BenchOperation runs one iteration of a benchmarked operation and
// reports its own duration in milliseconds. Implementations time the
// interesting region themselves so harness overhead never leaks into
// the samples.
type BenchOperation func(ctx context.Context) (float64, error)

// ErrBenchmarkFailed wraps any iteration error from a benchmark run.
var ErrBenchmarkFailed = errors.New("benchmark failed")

// RunBenchmark measures op by running opts.WarmupRuns iterations whose
// results are discarded, then opts.SampleRuns recorded iterations.
// Iterations run strictly one after another, never concurrently. The
// first failing iteration aborts the whole run, as does context
// cancellation between iterations. The recorded samples are summarized
// with the standard outlier threshold.
func RunBenchmark(ctx context.Context, name string, op BenchOperation, opts schema.BenchOptions) (schema.StatSummary, error) {
	if err := opts.Validate(); err != nil {
		return schema.StatSummary{}, fmt.Errorf("benchmark %q: %w", name, err)
	}

	for i := range opts.WarmupRuns {
		if err := ctx.Err(); err != nil {
			return schema.StatSummary{}, fmt.Errorf("benchmark %q warmup: %w", name, err)
		}
		if _, err := op(ctx); err != nil {
			return schema.StatSummary{}, fmt.Errorf("benchmark %q warmup run %d: %w: %w", name, i+1, ErrBenchmarkFailed, err)
		}
	}

	samples := make([]float64, 0, opts.SampleRuns)
	for i := range opts.SampleRuns {
		if err := ctx.Err(); err != nil {
			return schema.StatSummary{}, fmt.Errorf("benchmark %q: %w", name, err)
		}
		ms, err := op(ctx)
		if err != nil {
			return schema.StatSummary{}, fmt.Errorf("benchmark %q run %d: %w: %w", name, i+1, ErrBenchmarkFailed, err)
		}
		samples = append(samples, ms)
	}

	return CalculateStats(name, samples, schema.DefaultAnalysisOptions())
}
