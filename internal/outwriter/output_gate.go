package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/buildlens/internal/contract"
	"github.com/huangsam/buildlens/schema"
)

// WriteGateResults outputs the gate verdict, dispatching based on the output format configured.
func WriteGateResults(result schema.GateResult, cfg *contract.Config) error {
	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeGateJSONResults(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeGateCSVResults(result, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable verdict
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeGateVerdict(result, cfg, w)
		}, "Wrote verdict")
	}
	return nil
}

// writeGateJSONResults handles opening the file and calling the JSON writer.
func writeGateJSONResults(result schema.GateResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, result)
	}, "Wrote JSON")
}

// writeGateCSVResults handles opening the file and calling the CSV writer.
// A passing gate produces only the header row.
func writeGateCSVResults(result schema.GateResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		header := []string{"rule", "message"}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, violation := range result.Violations {
				if err := cw.Write([]string{violation.Rule, violation.Message}); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeGateVerdict writes the pass/fail verdict and any violations.
func writeGateVerdict(result schema.GateResult, cfg *contract.Config, writer io.Writer) error {
	if result.Passed {
		verdict := "Gate passed"
		if cfg.UseEmojis {
			verdict = "✅ " + verdict
		}
		if cfg.UseColors {
			verdict = contract.ImprovementColor.Sprint(verdict)
		}
		_, err := fmt.Fprintln(writer, verdict)
		return err
	}

	verdict := fmt.Sprintf("Gate failed with %d violations", len(result.Violations))
	if cfg.UseEmojis {
		verdict = "❌ " + verdict
	}
	if cfg.UseColors {
		verdict = contract.CriticalColor.Sprint(verdict)
	}
	if _, err := fmt.Fprintln(writer, verdict); err != nil {
		return err
	}
	for _, violation := range result.Violations {
		if _, err := fmt.Fprintf(writer, "  - [%s] %s\n", violation.Rule, violation.Message); err != nil {
			return err
		}
	}
	return nil
}
