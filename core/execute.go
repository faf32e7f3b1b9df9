package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/huangsam/buildlens/internal/contract"
	"github.com/huangsam/buildlens/internal/outwriter"
	"github.com/huangsam/buildlens/schema"
)

// ExecuteBuildlensAnalyze runs the analyze command: read a report, compare
// it against stored history, persist the outcome, and write the results.
// It serves as the main entry point for the 'analyze' verb.
func ExecuteBuildlensAnalyze(_ context.Context, cfg *contract.Config, store contract.HistoryStore) error {
	start := time.Now()

	report, err := LoadBuildReport(cfg)
	if err != nil {
		return err
	}

	history, err := LoadHistory(store, report.Build.Repo, historyLimitFor(cfg))
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	analysis := AnalyzeBuild(report, history, cfg.Analysis)

	if !cfg.DryRun {
		if err := recordAnalysis(store, analysis); err != nil {
			return fmt.Errorf("failed to record analysis: %w", err)
		}
	}

	writer := outwriter.NewOutWriter()
	if err := writer.WriteAnalysis(analysis, cfg, time.Since(start)); err != nil {
		return err
	}

	if cfg.FailOnRegression && analysis.Comparison.Summary.Regressions > 0 {
		fmt.Printf("%d regression(s) found\n", analysis.Comparison.Summary.Regressions)
		os.Exit(1)
	}
	return nil
}

// ExecuteBuildlensStats summarizes raw duration samples given as command
// arguments, in a file, or on standard input.
func ExecuteBuildlensStats(_ context.Context, cfg *contract.Config, args []string, inputFile, name string) error {
	start := time.Now()

	samples, err := gatherSamples(args, inputFile)
	if err != nil {
		return err
	}

	summary, err := CalculateStats(name, samples, cfg.Analysis)
	if err != nil {
		return err
	}

	writer := outwriter.NewOutWriter()
	return writer.WriteStats([]schema.StatSummary{summary}, cfg, time.Since(start))
}

// ExecuteBuildlensBench benchmarks an external command with warmup and
// sample runs, then summarizes the wall-clock durations in milliseconds.
func ExecuteBuildlensBench(ctx context.Context, cfg *contract.Config, command []string) error {
	if len(command) == 0 {
		return errors.New("bench requires a command to run")
	}

	start := time.Now()
	name := strings.Join(command, " ")

	op := func(ctx context.Context) (float64, error) {
		iterStart := time.Now()
		cmd := exec.CommandContext(ctx, command[0], command[1:]...)
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
		if err := cmd.Run(); err != nil {
			return 0, err
		}
		return float64(time.Since(iterStart)) / float64(time.Millisecond), nil
	}

	summary, err := RunBenchmark(ctx, name, op, cfg.Bench)
	if err != nil {
		return err
	}

	writer := outwriter.NewOutWriter()
	return writer.WriteStats([]schema.StatSummary{summary}, cfg, time.Since(start))
}

// ExecuteBuildlensBaseline computes and writes the rolling baseline from
// stored history.
func ExecuteBuildlensBaseline(_ context.Context, cfg *contract.Config, store contract.HistoryStore) error {
	history, err := LoadHistory(store, cfg.Build.Repo, historyLimitFor(cfg))
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	baseline := CalculateBaseline(history, cfg.Analysis.BaselineWindow)

	writer := outwriter.NewOutWriter()
	return writer.WriteBaseline(baseline, cfg)
}

// ExecuteBuildlensTrends writes per-metric trend directions over recent
// stored history.
func ExecuteBuildlensTrends(_ context.Context, cfg *contract.Config, store contract.HistoryStore) error {
	start := time.Now()

	history, err := LoadHistory(store, cfg.Build.Repo, cfg.HistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	trends := AnalyzeTrends(history, cfg.Analysis)

	writer := outwriter.NewOutWriter()
	return writer.WriteTrends(trends, cfg, time.Since(start))
}

// ExecuteBuildlensCheck runs the check command for CI/CD gating.
// It analyzes the report against history, evaluates the gate policy, and
// exits with a non-zero code when the gate fails.
func ExecuteBuildlensCheck(_ context.Context, cfg *contract.Config, store contract.HistoryStore) error {
	report, err := LoadBuildReport(cfg)
	if err != nil {
		return err
	}

	history, err := LoadHistory(store, report.Build.Repo, historyLimitFor(cfg))
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	analysis := AnalyzeBuild(report, history, cfg.Analysis)
	result := EvaluateGate(analysis, cfg.Gate)

	writer := outwriter.NewOutWriter()
	if err := writer.WriteGate(result, cfg); err != nil {
		return err
	}

	if !result.Passed {
		os.Exit(1)
	}
	return nil
}

// ExecuteBuildlensRecord stores the report metrics without analyzing them.
func ExecuteBuildlensRecord(_ context.Context, cfg *contract.Config, store contract.HistoryStore) error {
	report, err := LoadBuildReport(cfg)
	if err != nil {
		return err
	}

	id, err := store.RecordBuild(schema.BuildRecord{
		Repo:      report.Build.Repo,
		Branch:    report.Build.Branch,
		Commit:    report.Build.Commit,
		BuildNum:  report.Build.BuildNum,
		Metrics:   report.Metrics,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to record build: %w", err)
	}

	fmt.Printf("Recorded build %s for %s\n", id, report.Build.Repo)
	return nil
}

// LoadBuildReport reads and decodes the configured build report, from
// standard input when the path is "-". Identity flags win over whatever
// the document carries.
func LoadBuildReport(cfg *contract.Config) (schema.BuildReport, error) {
	var data []byte
	var err error
	if cfg.ReportPath == contract.StdinPath {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(cfg.ReportPath)
	}
	if err != nil {
		return schema.BuildReport{}, fmt.Errorf("failed to read build report: %w", err)
	}

	report, err := schema.ParseBuildReport(data)
	if err != nil {
		return schema.BuildReport{}, err
	}

	applyBuildOverrides(&report, cfg.Build)
	return report, nil
}

// applyBuildOverrides lets --repo, --branch, --commit and --build-num
// override the identity fields of the report document.
func applyBuildOverrides(report *schema.BuildReport, override schema.BuildInfo) {
	if override.Repo != "" {
		report.Build.Repo = override.Repo
	}
	if override.Branch != "" {
		report.Build.Branch = override.Branch
	}
	if override.Commit != "" {
		report.Build.Commit = override.Commit
	}
	if override.BuildNum > 0 {
		report.Build.BuildNum = override.BuildNum
	}
}

// LoadRecords fetches up to limit build records, newest first. A blank
// repo means builds from every repository.
func LoadRecords(store contract.HistoryStore, repo string, limit int) ([]schema.BuildRecord, error) {
	if repo == "" {
		return store.AllBuilds(limit)
	}
	return store.RecentBuilds(repo, limit)
}

// LoadHistory fetches build records and returns their metrics oldest
// first, the order the analysis functions expect.
func LoadHistory(store contract.HistoryStore, repo string, limit int) ([]schema.BuildMetrics, error) {
	records, err := LoadRecords(store, repo, limit)
	if err != nil {
		return nil, err
	}
	return schema.ReverseMetrics(schema.MetricsFromRecords(records)), nil
}

// historyLimitFor returns how many rows to fetch so a baseline window
// larger than the display limit still gets enough history.
func historyLimitFor(cfg *contract.Config) int {
	return max(cfg.HistoryLimit, cfg.Analysis.BaselineWindow)
}

// recordAnalysis persists the analyzed build and its insight summary.
func recordAnalysis(store contract.HistoryStore, analysis schema.BuildAnalysis) error {
	buildID, err := store.RecordBuild(schema.BuildRecord{
		Repo:      analysis.Build.Repo,
		Branch:    analysis.Build.Branch,
		Commit:    analysis.Build.Commit,
		BuildNum:  analysis.Build.BuildNum,
		Metrics:   analysis.Current,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}

	summary, err := json.Marshal(analysis)
	if err != nil {
		return err
	}

	_, err = store.RecordInsight(schema.InsightRecord{
		BuildID:         buildID,
		Summary:         string(summary),
		Regressions:     analysis.Comparison.Summary.Regressions,
		Anomalies:       len(analysis.Anomalies),
		Recommendations: len(analysis.Recommendations),
		CreatedAt:       time.Now(),
	})
	return err
}

// gatherSamples parses float samples from args, or an input file, or
// standard input when neither is given. Samples may be separated by
// whitespace or commas.
func gatherSamples(args []string, inputFile string) ([]float64, error) {
	raw := strings.Join(args, " ")
	if raw == "" {
		var data []byte
		var err error
		if inputFile != "" {
			data, err = os.ReadFile(inputFile)
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read samples: %w", err)
		}
		raw = string(data)
	}

	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})

	samples := make([]float64, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid sample %q: %w", field, err)
		}
		samples = append(samples, v)
	}
	return samples, nil
}
