package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/agbru/picalc/internal/calibration"
	"github.com/agbru/picalc/internal/cli"
	"github.com/agbru/picalc/internal/config"
	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/logging"
	"github.com/agbru/picalc/internal/orchestration"
	"github.com/agbru/picalc/internal/pi"
	"github.com/agbru/picalc/internal/ui"
)

// Application represents the picalc application instance.
// It encapsulates the configuration and provides methods to run
// the application in its various modes (computation, calibration).
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Factory provides access to the π calculator implementations.
	// Uses the interface type for better testability and dependency injection.
	Factory pi.CalculatorFactory
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or validation fails.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	factory := pi.GlobalFactory()
	availableAlgos := factory.List()

	// args[0] is program name, args[1:] are the actual arguments
	programName := "picalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, availableAlgos)
	if err != nil {
		return nil, err
	}

	// Try to load cached calibration profile first
	// This allows the application to use optimal tuning found in previous runs
	if cfgWithProfile, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
		cfg = cfgWithProfile
	} else {
		// Fallback to adaptive tuning based on hardware characteristics
		// This provides automatic optimization without requiring --auto-calibrate
		cfg = applyAdaptiveTuning(cfg)
	}

	return &Application{
		Config:    cfg,
		Factory:   factory,
		ErrWriter: errWriter,
	}, nil
}

// applyAdaptiveTuning adjusts the configuration tuning parameters based on
// hardware characteristics (CPU cores, architecture) when default values
// are detected. This provides automatic performance optimization without
// requiring explicit calibration.
//
// The function only modifies parameters that are set to their static default
// values, preserving any user-specified overrides via command-line flags.
//
// Parameters:
//   - cfg: The initial configuration with potentially default tuning values.
//
// Returns:
//   - config.AppConfig: The configuration with adaptive tuning applied.
func applyAdaptiveTuning(cfg config.AppConfig) config.AppConfig {
	// Only adjust parameters at their static default values.
	// This preserves explicit user overrides via --chunk-size and
	// --hybrid-threshold.

	if cfg.ChunkSize == pi.DefaultChunkSize {
		cfg.ChunkSize = calibration.EstimateOptimalChunkSize()
	}

	if cfg.HybridThreshold == pi.DefaultHybridThreshold {
		cfg.HybridThreshold = calibration.EstimateOptimalHybridThreshold()
	}

	return cfg
}

// Run executes the application based on the configured mode.
// It dispatches to the appropriate handler (calibration or computation).
//
// Parameters:
//   - ctx: The context for managing cancellation and timeouts.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	// Initialize CLI theme (respects --no-color flag and NO_COLOR env var)
	ui.InitTheme(a.Config.NoColor)

	logger := setupLogging(a.Config.Verbose)
	logger.Debug("application starting",
		logging.Uint64("digits", a.Config.Digits),
		logging.Int("threads", a.Config.Threads),
		logging.String("algorithm", a.Config.Algo),
		logging.Uint64("chunk_size", a.Config.ChunkSize),
		logging.Uint64("hybrid_threshold", a.Config.HybridThreshold),
	)

	// Calibration mode
	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}

	// Run auto-calibration if enabled
	a.Config = a.runAutoCalibrationIfEnabled(ctx, out)

	// Standard CLI computation mode
	return a.runCompute(ctx, out)
}

// setupLogging configures the global zerolog level from the verbosity flag
// and returns the application logger. In non-verbose mode the level is raised
// to warn so the instrumented calculators do not pollute the CLI output.
func setupLogging(verbose bool) logging.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	return logging.NewDefaultLogger()
}

// runCalibration runs the full calibration mode.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	return calibration.RunCalibration(ctx, out, a.Factory.GetAll())
}

// runAutoCalibrationIfEnabled runs auto-calibration if enabled in the configuration.
// Returns the potentially updated configuration with calibrated tuning values.
func (a *Application) runAutoCalibrationIfEnabled(ctx context.Context, out io.Writer) config.AppConfig {
	if a.Config.AutoCalibrate {
		if updated, ok := calibration.AutoCalibrate(ctx, a.Config, out, a.Factory.GetAll()); ok {
			return updated
		}
	}
	return a.Config
}

// runCompute orchestrates the execution of the CLI computation command.
func (a *Application) runCompute(ctx context.Context, out io.Writer) int {
	// Setup lifecycle (timeout + signals)
	ctx, cancels := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancels.Cleanup()

	// Get calculators to run
	calculatorsToRun := cli.GetCalculatorsToRun(a.Config, a.Factory)
	if len(calculatorsToRun) == 0 {
		fmt.Fprintf(a.ErrWriter, "Error: no calculator available for algorithm %q\n", a.Config.Algo)
		return apperrors.ExitErrorConfig
	}

	// Skip verbose output in quiet mode
	if !a.Config.JSONOutput && !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(calculatorsToRun, out)
	}

	// In quiet mode, use a discard writer for progress display
	progressOut := out
	if a.Config.Quiet || a.Config.JSONOutput {
		progressOut = io.Discard
	}

	// Execute computations
	results := orchestration.ExecuteComputations(ctx, calculatorsToRun, a.Config, progressOut)

	// Handle JSON output
	if a.Config.JSONOutput {
		return printJSONResults(results, out)
	}

	// Build output config for the CLI options
	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		Details:    a.Config.Details,
		Stream:     a.Config.Stream,
	}

	return a.analyzeResultsWithOutput(results, outputCfg, out)
}

func (a *Application) analyzeResultsWithOutput(results []orchestration.ComputationResult, outputCfg cli.OutputConfig, out io.Writer) int {
	bestResult := findBestResult(results)

	// Handle quiet mode for single result
	if outputCfg.Quiet && bestResult != nil {
		cli.DisplayQuietResult(out, bestResult.Result)

		// Save to file if requested
		if err := a.saveResultIfNeeded(bestResult, outputCfg); err != nil {
			return apperrors.ExitErrorGeneric
		}

		return apperrors.ExitSuccess
	}

	// Use standard analysis for non-quiet mode. The analysis handles the
	// consistency check, result display, and file output.
	return orchestration.AnalyzeComparisonResults(results, a.Config, out)
}

// IsHelpError checks if the error is a help flag error (--help was used).
// This is useful for determining if the application should exit with success
// after displaying help text.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

func findBestResult(results []orchestration.ComputationResult) *orchestration.ComputationResult {
	var bestResult *orchestration.ComputationResult
	for i := range results {
		if results[i].Err == nil {
			if bestResult == nil || results[i].Duration < bestResult.Duration {
				bestResult = &results[i]
			}
		}
	}
	return bestResult
}

func (a *Application) saveResultIfNeeded(res *orchestration.ComputationResult, cfg cli.OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}
	if err := cli.WriteResultToFile(res.Result, res.Duration, res.Name, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving result: %v\n", err)
		return err
	}
	return nil
}

// jsonResult represents a single computation result in JSON format.
type jsonResult struct {
	Algorithm string `json:"algorithm"`
	Duration  string `json:"duration"`
	Digits    uint64 `json:"digits,omitempty"`
	Result    string `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
}

// printJSONResults formats the computation results as a JSON array and writes
// them to the output. This is useful for programmatic consumption of the results.
func printJSONResults(results []orchestration.ComputationResult, out io.Writer) int {
	output := make([]jsonResult, len(results))
	for i, res := range results {
		jr := jsonResult{
			Algorithm: res.Name,
			Duration:  res.Duration.String(),
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		} else {
			jr.Digits = res.Result.Digits()
			jr.Result = res.Result.PlainDigits()
		}
		output[i] = jr
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
