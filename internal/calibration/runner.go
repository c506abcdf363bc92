package calibration

import (
	"context"
	"time"

	"github.com/agbru/picalc/internal/pi"
)

// calibrationRunner encapsulates the trial run logic for calibration.
type calibrationRunner struct {
	ctx      context.Context
	perTrial time.Duration
}

// newCalibrationRunner creates a new calibration runner.
func newCalibrationRunner(ctx context.Context, timeout time.Duration) *calibrationRunner {
	perTrial := timeout / 6
	if perTrial < 2*time.Second {
		perTrial = 2 * time.Second
	}
	return &calibrationRunner{ctx: ctx, perTrial: perTrial}
}

// runTrial executes a single calibration trial with the given calculator and options.
//
// Parameters:
//   - calc: The calculator to use for the trial.
//   - opts: The options for the computation.
//
// Returns:
//   - time.Duration: The duration of the computation.
//   - error: An error if the computation failed or timed out.
func (r *calibrationRunner) runTrial(calc pi.Calculator, opts pi.Options) (duration time.Duration, err error) {
	ctx, cancel := context.WithTimeout(r.ctx, r.perTrial)
	defer cancel()
	start := time.Now()
	_, err = calc.Compute(ctx, nil, 0, pi.CalibrationDigits, opts)
	return time.Since(start), err
}

// findBestChunkSize finds the optimal work-stealing chunk size.
//
// Parameters:
//   - calc: The calculator to use for testing.
//   - defaultChunk: The default chunk size to use if no better one is found.
//
// Returns:
//   - uint64: The best chunk size found.
//   - time.Duration: The duration achieved with the best chunk size.
func (r *calibrationRunner) findBestChunkSize(calc pi.Calculator, defaultChunk uint64) (chunkSize uint64, duration time.Duration) {
	candidates := GenerateQuickChunkSizes()
	best := defaultChunk
	bestDur := time.Duration(1<<63 - 1)

	for _, cand := range candidates {
		dur, err := r.runTrial(calc, pi.Options{ChunkSize: cand})
		if err != nil {
			continue
		}
		if dur < bestDur {
			bestDur, best = dur, cand
		}
	}
	return best, bestDur
}

// findBestHybridThreshold finds the optimal hybrid crossover.
//
// Parameters:
//   - calc: The auto-selecting calculator to use for testing.
//   - chunkSize: The chunk size to use during testing.
//   - defaultThreshold: The default threshold to use if no better one is found.
//
// Returns:
//   - uint64: The best hybrid threshold found.
//   - time.Duration: The duration achieved with the best threshold.
func (r *calibrationRunner) findBestHybridThreshold(calc pi.Calculator, chunkSize, defaultThreshold uint64) (threshold uint64, duration time.Duration) {
	candidates := GenerateQuickHybridThresholds()
	best := defaultThreshold
	bestDur := time.Duration(1<<63 - 1)

	for _, cand := range candidates {
		dur, err := r.runTrial(calc, pi.Options{ChunkSize: chunkSize, HybridThreshold: cand})
		if err != nil {
			continue
		}
		if dur < bestDur {
			bestDur, best = dur, cand
		}
	}
	return best, bestDur
}
