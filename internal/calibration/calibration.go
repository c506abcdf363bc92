package calibration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/agbru/picalc/internal/cli"
	"github.com/agbru/picalc/internal/config"
	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/pi"
)

// CalibrationOptions configures the calibration process.
type CalibrationOptions struct {
	// ProfilePath is the path to save/load the calibration profile.
	// If empty, uses the default path.
	ProfilePath string
	// SaveProfile indicates whether to save the calibration results.
	SaveProfile bool
	// LoadProfile indicates whether to try loading an existing profile.
	LoadProfile bool
}

// calibrationResult holds the result of a single chunk size test.
type calibrationResult struct {
	ChunkSize uint64
	Duration  time.Duration
	Err       error
}

// RunCalibration executes a comprehensive benchmark to determine the optimal
// work-stealing chunk size for the current hardware.
//
// It uses adaptive candidate generation based on CPU characteristics and
// iterates through the generated chunk sizes, executing a standard π
// computation for each. The execution times are recorded and compared to
// identify the chunk size that yields the fastest performance.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - out: The io.Writer to which progress and results will be written.
//   - calculatorRegistry: A map of available calculators, which must include
//     the "chudnovsky" algorithm.
//
// Returns:
//   - int: The exit code (0 for success, non-zero for errors).
func RunCalibration(ctx context.Context, out io.Writer, calculatorRegistry map[string]pi.Calculator) int {
	return RunCalibrationWithOptions(ctx, out, calculatorRegistry, CalibrationOptions{
		SaveProfile: true,
		LoadProfile: false, // Full calibration should run fresh
	})
}

// RunCalibrationWithOptions executes calibration with the specified options.
func RunCalibrationWithOptions(ctx context.Context, out io.Writer, calculatorRegistry map[string]pi.Calculator, opts CalibrationOptions) int {
	fmt.Fprintf(out, "--- Calibration Mode: Finding the Optimal Chunk Size ---\n")

	// Try to load existing profile if requested
	if opts.LoadProfile {
		profile, loaded := LoadOrCreateProfile(opts.ProfilePath)
		if loaded && profile.IsValid() {
			fmt.Fprintf(out, "%sLoaded existing calibration profile from %s%s\n",
				cli.ColorGreen(), GetDefaultProfilePath(), cli.ColorReset())
			fmt.Fprintf(out, "Profile: %s\n", profile.String())
			fmt.Fprintf(out, "\n%s✅ Using cached calibration: %s--chunk-size %d%s\n",
				cli.ColorGreen(), cli.ColorYellow(), profile.OptimalChunkSize, cli.ColorReset())
			return apperrors.ExitSuccess
		}
	}

	calculator := calculatorRegistry["chudnovsky"]
	if calculator == nil {
		fmt.Fprintf(out, "%sCritical error: the 'chudnovsky' algorithm is required for calibration but was not found.%s\n", cli.ColorRed(), cli.ColorReset())
		return apperrors.ExitErrorGeneric
	}

	// Use adaptive candidates based on CPU characteristics
	chunksToTest := GenerateChunkSizes()
	fmt.Fprintf(out, "%sUsing adaptive chunk sizes for %d CPU cores%s\n",
		cli.ColorCyan(), runtime.NumCPU(), cli.ColorReset())

	results := make([]calibrationResult, 0, len(chunksToTest))
	bestDuration := time.Duration(1<<63 - 1)
	bestChunk := uint64(0)
	calibrationStart := time.Now()

	var wg sync.WaitGroup
	progressChan := make(chan pi.ProgressUpdate, 5)
	wg.Add(1)
	go cli.DisplayProgress(&wg, progressChan, 1, out)

	for _, chunk := range chunksToTest {
		if ctx.Err() != nil {
			fmt.Fprintf(out, "\n%sCalibration interrupted.%s\n", cli.ColorYellow(), cli.ColorReset())
			close(progressChan)
			wg.Wait()
			return apperrors.ExitErrorCanceled
		}

		startTime := time.Now()
		_, err := calculator.Compute(ctx, progressChan, 0, pi.CalibrationDigits, pi.Options{ChunkSize: chunk})
		duration := time.Since(startTime)

		if err != nil {
			fmt.Fprintf(out, "%s❌ Failure (%v)%s\n", cli.ColorRed(), err, cli.ColorReset())
			results = append(results, calibrationResult{chunk, 0, err})
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				close(progressChan)
				wg.Wait()
				return apperrors.HandleComputationError(err, duration, out, cli.CLIColorProvider{})
			}
			continue
		}

		results = append(results, calibrationResult{chunk, duration, nil})
		if duration < bestDuration {
			bestDuration, bestChunk = duration, chunk
		}
	}
	close(progressChan)
	wg.Wait()

	// Check if we found any valid result
	if bestDuration == time.Duration(1<<63-1) {
		fmt.Fprintf(out, "\n%sCalibration failed: no valid results obtained.%s\n", cli.ColorRed(), cli.ColorReset())
		return apperrors.ExitErrorGeneric
	}

	calibrationDuration := time.Since(calibrationStart)

	// Print results table
	printCalibrationResults(out, results, bestChunk)

	fmt.Fprintf(out, "\n%s✅ Recommendation for this machine: %s--chunk-size %d%s\n",
		cli.ColorGreen(), cli.ColorYellow(), bestChunk, cli.ColorReset())

	// Save profile if requested
	if opts.SaveProfile {
		profile := NewProfile()
		profile.OptimalChunkSize = bestChunk
		profile.OptimalHybridThreshold = EstimateOptimalHybridThreshold()
		profile.CalibrationDigits = pi.CalibrationDigits
		profile.CalibrationTime = calibrationDuration.String()

		if err := profile.SaveProfile(opts.ProfilePath); err != nil {
			fmt.Fprintf(out, "%sWarning: failed to save profile: %v%s\n",
				cli.ColorYellow(), err, cli.ColorReset())
		} else {
			fmt.Fprintf(out, "%sCalibration profile saved to %s%s\n",
				cli.ColorGreen(), GetDefaultProfilePath(), cli.ColorReset())
		}
	}

	return apperrors.ExitSuccess
}

// AutoCalibrate runs a quick startup calibration to fine-tune performance
// parameters.
//
// Unlike the full `RunCalibration`, this function performs a heuristic search
// for optimal chunk size and hybrid threshold values using a subset of
// candidates generated adaptively based on CPU characteristics. It is designed
// to be fast enough to run at application startup without significant delay.
//
// The function first checks for an existing valid calibration profile. If found
// and valid for the current hardware, it uses the cached values instead of
// running benchmarks.
//
// Parameters:
//   - parentCtx: The context used to manage the calibration timeout.
//   - cfg: The initial application configuration, providing starting values.
//   - out: The io.Writer for logging calibration results.
//   - calculatorRegistry: The map of available calculators.
//
// Returns:
//   - config.AppConfig: The updated configuration with optimized tuning.
//   - bool: True if calibration was successful, false otherwise.
func AutoCalibrate(parentCtx context.Context, cfg config.AppConfig, out io.Writer, calculatorRegistry map[string]pi.Calculator) (updated config.AppConfig, ok bool) {
	return AutoCalibrateWithProfile(parentCtx, cfg, out, calculatorRegistry, cfg.CalibrationProfile)
}

// AutoCalibrateWithProfile runs auto-calibration with a specific profile path.
// It first tries to load a cached profile, then falls back to quick micro-benchmarks,
// and finally uses trial runs if needed.
func AutoCalibrateWithProfile(parentCtx context.Context, cfg config.AppConfig, out io.Writer, calculatorRegistry map[string]pi.Calculator, profilePath string) (updated config.AppConfig, ok bool) {
	// Check if calculators are available before attempting calibration
	chudCalc := calculatorRegistry["chudnovsky"]
	if chudCalc == nil {
		// No calculators available - cannot calibrate
		return cfg, false
	}

	// Try to load existing profile first
	if profile, loaded := LoadOrCreateProfile(profilePath); loaded && profile.IsValid() {
		// Use cached calibration
		updated := cfg
		updated.ChunkSize = profile.OptimalChunkSize
		updated.HybridThreshold = profile.OptimalHybridThreshold

		fmt.Fprintf(out, "%sUsing cached calibration%s: chunk size=%s%d%s terms, hybrid threshold=%s%d%s digits\n",
			cli.ColorGreen(), cli.ColorReset(),
			cli.ColorYellow(), updated.ChunkSize, cli.ColorReset(),
			cli.ColorYellow(), updated.HybridThreshold, cli.ColorReset())
		return updated, true
	}

	// Try quick micro-benchmarks first (~100ms)
	microResults, err := QuickCalibrate(parentCtx)
	if err == nil && microResults.Confidence >= 0.5 {
		updated := cfg
		updated.ChunkSize = microResults.ChunkSize
		updated.HybridThreshold = microResults.HybridThreshold

		fmt.Fprintf(out, "%sQuick calibration%s (%v): chunk size=%s%d%s terms, hybrid threshold=%s%d%s digits (confidence: %.0f%%)\n",
			cli.ColorGreen(), cli.ColorReset(),
			microResults.Duration.Round(time.Millisecond),
			cli.ColorYellow(), updated.ChunkSize, cli.ColorReset(),
			cli.ColorYellow(), updated.HybridThreshold, cli.ColorReset(),
			microResults.Confidence*100)

		// Save profile for future use
		saveCalibrationProfile(updated, profilePath, out)
		return updated, true
	}

	// Fall back to trial runs if quick calibration failed or has low confidence

	runner := newCalibrationRunner(parentCtx, cfg.Timeout)

	// Find optimal tuning
	bestChunk, bestChunkDur := runner.findBestChunkSize(chudCalc, cfg.ChunkSize)

	// Find optimal hybrid threshold using the auto-selecting calculator
	bestHybrid := cfg.HybridThreshold
	bestHybridDur := time.Duration(1<<63 - 1)
	if autoCalc := calculatorRegistry["auto"]; autoCalc != nil {
		bestHybrid, bestHybridDur = runner.findBestHybridThreshold(autoCalc, bestChunk, cfg.HybridThreshold)
	}

	// Apply results and check if calibration was successful
	updated, ok = applyCalibrationResults(cfg, bestChunk, bestChunkDur, bestHybrid, bestHybridDur)
	if !ok {
		return cfg, false
	}

	// Save profile and print output
	saveCalibrationProfile(updated, profilePath, out)
	printCalibrationOutput(updated, out)

	return updated, true
}

// LoadCachedCalibration attempts to load a cached calibration profile and
// apply it to the configuration. Returns the updated config and true if
// a valid cached profile was found.
func LoadCachedCalibration(cfg config.AppConfig, profilePath string) (updated config.AppConfig, ok bool) {
	profile, loaded := LoadOrCreateProfile(profilePath)
	if !loaded || !profile.IsValid() {
		return cfg, false
	}

	updated = cfg
	updated.ChunkSize = profile.OptimalChunkSize
	updated.HybridThreshold = profile.OptimalHybridThreshold
	return updated, true
}

// applyCalibrationResults updates the configuration with the calibration results.
//
// Parameters:
//   - cfg: The original configuration.
//   - bestChunk: The best chunk size found.
//   - bestChunkDur: The duration achieved with the best chunk size.
//   - bestHybrid: The best hybrid threshold found.
//   - bestHybridDur: The duration achieved with the best hybrid threshold.
//
// Returns:
//   - config.AppConfig: The updated configuration.
//   - bool: true if any valid results were found, false otherwise.
func applyCalibrationResults(cfg config.AppConfig, bestChunk uint64, bestChunkDur time.Duration, bestHybrid uint64, bestHybridDur time.Duration) (updated config.AppConfig, ok bool) {
	maxDuration := time.Duration(1<<63 - 1)
	if bestChunkDur == maxDuration && bestHybridDur == maxDuration {
		return cfg, false
	}

	updated = cfg
	if bestChunkDur != maxDuration {
		updated.ChunkSize = bestChunk
	}
	if bestHybridDur != maxDuration {
		updated.HybridThreshold = bestHybrid
	}
	return updated, true
}

// saveCalibrationProfile saves the calibration results to a profile.
//
// Parameters:
//   - cfg: The updated configuration with calibration results.
//   - profilePath: The path to save the profile.
//   - out: The writer for warning messages.
func saveCalibrationProfile(cfg config.AppConfig, profilePath string, out io.Writer) {
	profile := NewProfile()
	profile.OptimalChunkSize = cfg.ChunkSize
	profile.OptimalHybridThreshold = cfg.HybridThreshold
	profile.CalibrationDigits = pi.CalibrationDigits

	if err := profile.SaveProfile(profilePath); err != nil {
		fmt.Fprintf(out, "%sWarning: could not save calibration profile: %v%s\n",
			cli.ColorYellow(), err, cli.ColorReset())
	}
}
