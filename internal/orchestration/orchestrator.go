package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/picalc/internal/cli"
	"github.com/agbru/picalc/internal/config"
	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/pi"
	"github.com/agbru/picalc/internal/ui"
)

// ComputationResult encapsulates the outcome of a single π computation.
// It serves as a standardized container for results from different algorithms,
// facilitating comparison and reporting.
type ComputationResult struct {
	// Name is the identifier of the algorithm used (e.g., "chudnovsky-split").
	Name string
	// Result is the computed approximation. It is nil if an error occurred.
	Result *pi.Approximation
	// Duration is the time taken to complete the computation.
	Duration time.Duration
	// Err contains any error that occurred during the computation.
	Err error
}

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of blocking computation
// goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

// ExecuteComputations orchestrates the concurrent execution of one or more
// π computations.
//
// It manages the lifecycle of computation goroutines, collects their results,
// and coordinates the display of progress updates. This function is the core of
// the application's concurrency model.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - calculators: A slice of calculators to execute.
//   - cfg: The application configuration (digits, threads, etc.).
//   - out: The io.Writer for displaying progress updates.
//
// Returns:
//   - []ComputationResult: A slice containing the results of each computation.
func ExecuteComputations(ctx context.Context, calculators []pi.Calculator, cfg config.AppConfig, out io.Writer) []ComputationResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]ComputationResult, len(calculators))
	progressChan := make(chan pi.ProgressUpdate, len(calculators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, progressChan, len(calculators), out)

	for i, calc := range calculators {
		idx, calculator := i, calc
		g.Go(func() error {
			startTime := time.Now()
			res, err := calculator.Compute(ctx, progressChan, idx, cfg.Digits, cfg.ToComputationOptions())
			results[idx] = ComputationResult{
				Name: calculator.Name(), Result: res, Duration: time.Since(startTime), Err: err,
			}
			return nil
		})
	}

	g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// AnalyzeComparisonResults processes the results from multiple algorithms and
// generates a summary report.
//
// It sorts the results by execution time, validates digit consistency across
// successful computations, and displays a comparative table. It handles the
// logic for determining global success or failure based on the individual
// outcomes.
//
// Parameters:
//   - results: The slice of computation results to analyze.
//   - cfg: The application configuration.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeComparisonResults(results []ComputationResult, cfg config.AppConfig, out io.Writer) int {
	sort.Slice(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValid *ComputationResult
	var firstError error
	successCount := 0

	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "%sAlgorithm%s\t%sDuration%s\t%sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())

	for i := range results {
		res := &results[i]
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
			if firstError == nil {
				firstError = res.Err
			}
		} else {
			status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
			successCount++
			if firstValid == nil {
				firstValid = res
			}
		}
		duration := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(),
			ui.ColorYellow(), duration, ui.ColorReset(),
			status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the computation.\n")
		return apperrors.HandleComputationError(firstError, cfg.Timeout, out, cli.CLIColorProvider{})
	}

	mismatch := false
	for i := range results {
		res := &results[i]
		if res.Err == nil && !res.Result.DigitsEqual(firstValid.Result) {
			mismatch = true
			break
		}
	}
	if mismatch {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! An inconsistency was detected between the digits produced by the algorithms.")
		return apperrors.ExitErrorMismatch
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.")
	outputCfg := cli.OutputConfig{
		OutputFile: cfg.OutputFile,
		Quiet:      cfg.Quiet,
		Verbose:    cfg.Verbose,
		Details:    cfg.Details,
		Stream:     cfg.Stream,
	}
	if err := cli.DisplayResultWithConfig(out, firstValid.Result, firstValid.Duration, firstValid.Name, outputCfg); err != nil {
		fmt.Fprintf(out, "\n%sWarning: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
	}
	return apperrors.ExitSuccess
}
