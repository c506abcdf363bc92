package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/picalc/internal/config"
	"github.com/agbru/picalc/internal/pi"
)

// GetCalculatorsToRun determines which calculators should be executed based on
// the configuration. Returns calculators in alphabetically sorted order for
// consistent, reproducible behavior.
//
// Parameters:
//   - cfg: The application configuration containing the algorithm selection.
//   - factory: The calculator factory to retrieve implementations from.
//
// Returns:
//   - []pi.Calculator: A slice of calculators to execute.
func GetCalculatorsToRun(cfg config.AppConfig, factory pi.CalculatorFactory) []pi.Calculator {
	if cfg.Algo == "all" {
		keys := factory.List() // List() returns sorted keys
		calculators := make([]pi.Calculator, 0, len(keys))
		for _, k := range keys {
			if calc, err := factory.Get(k); err == nil {
				calculators = append(calculators, calc)
			}
		}
		return calculators
	}
	if calc, err := factory.Get(cfg.Algo); err == nil {
		return []pi.Calculator{calc}
	}
	return nil
}

// PrintExecutionConfig displays the current execution configuration to the user.
// It shows the requested digit count, timeout, environment details, worker
// tuning parameters, and the estimated peak memory for the run.
//
// Parameters:
//   - cfg: The application configuration.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	writeOut(out, "--- Execution Configuration ---\n")
	writeOut(out, "Computing %s%s%s digits of π with a timeout of %s%s%s.\n",
		ColorMagenta(), formatNumberString(fmt.Sprintf("%d", cfg.Digits)), ColorReset(),
		ColorYellow(), cfg.Timeout, ColorReset())
	writeOut(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ColorCyan(), runtime.NumCPU(), ColorReset(), ColorCyan(), runtime.Version(), ColorReset())
	writeOut(out, "Worker tuning: threads=%s%d%s, chunk size=%s%d%s terms, hybrid threshold=%s%d%s digits.\n",
		ColorCyan(), cfg.Threads, ColorReset(),
		ColorCyan(), cfg.ChunkSize, ColorReset(),
		ColorCyan(), cfg.HybridThreshold, ColorReset())

	plan, err := pi.Plan(cfg.Digits, pi.AlgorithmChudnovskyDirect, cfg.ToComputationOptions())
	if err == nil {
		mem := pi.EstimateMemory(plan, cfg.Threads)
		writeOut(out, "Estimated peak memory: %s%s%s bytes.\n",
			ColorCyan(), formatNumberString(fmt.Sprintf("%d", mem)), ColorReset())
		writeOut(out, "Series plan: %s%s%s Chudnovsky terms securing ~%s%.0f%s digits.\n",
			ColorCyan(), formatNumberString(fmt.Sprintf("%d", plan.Terms)), ColorReset(),
			ColorCyan(), pi.EstimateSecuredDigits(plan.Terms), ColorReset())
	}
}

// PrintExecutionMode displays the execution mode (single algorithm vs comparison).
//
// Parameters:
//   - calculators: The slice of calculators that will be executed.
//   - out: The writer for standard output.
func PrintExecutionMode(calculators []pi.Calculator, out io.Writer) {
	var modeDesc string
	if len(calculators) > 1 {
		modeDesc = "Parallel comparison of all algorithms"
	} else {
		modeDesc = fmt.Sprintf("Single computation with the %s%s%s algorithm",
			ColorGreen(), calculators[0].Name(), ColorReset())
	}
	writeOut(out, "Execution mode: %s.\n", modeDesc)
	writeOut(out, "\n--- Starting Execution ---\n")
}

// writeOut writes a formatted string to the output writer.
//
// Parameters:
//   - out: The destination writer.
//   - format: The format string (see fmt.Printf).
//   - a: Arguments for the format string.
func writeOut(out io.Writer, format string, a ...any) {
	fmt.Fprintf(out, format, a...)
}
