// Package calibration provides performance calibration for the pi calculator.
// This file implements fast micro-benchmarks for quick tuning estimation (~100ms).
package calibration

import (
	"context"
	"math/big"
	"runtime"
	"sync"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Micro-benchmark Configuration
// ─────────────────────────────────────────────────────────────────────────────

const (
	// MicroBenchIterations is the number of iterations per test for averaging.
	MicroBenchIterations = 3

	// MicroBenchTimeout is the maximum time for the entire micro-benchmark suite.
	MicroBenchTimeout = 150 * time.Millisecond

	// targetChunkDuration is the wall-clock time a single work-stealing chunk
	// should take. Long enough to amortize the atomic cursor, short enough to
	// keep progress updates responsive.
	targetChunkDuration = 5 * time.Millisecond
)

// MicroBenchTestPrecisions defines the precisions in bits to test for tuning
// estimation. These sizes span the range where the direct-summation and
// binary-splitting cost curves cross.
var MicroBenchTestPrecisions = []uint{
	8192,   // ~2.5K digits - direct summation territory
	32768,  // ~10K digits - near the default hybrid crossover
	131072, // ~40K digits - binary splitting territory
	262144, // ~80K digits - clearly binary splitting
}

// ─────────────────────────────────────────────────────────────────────────────
// Micro-benchmark Types
// ─────────────────────────────────────────────────────────────────────────────

// MicroBenchmark performs fast tests to estimate optimal tuning parameters.
type MicroBenchmark struct {
	// TestPrecisions are the precisions in bits to test (default: MicroBenchTestPrecisions)
	TestPrecisions []uint
	// Iterations is the number of iterations per test (default: MicroBenchIterations)
	Iterations int
	// Timeout is the maximum duration for the entire benchmark
	Timeout time.Duration
}

// TuningResults contains the estimated optimal tuning from micro-benchmarks.
type TuningResults struct {
	// ChunkSize is the estimated optimal work-stealing chunk size in terms
	ChunkSize uint64
	// HybridThreshold is the estimated crossover in digits between direct
	// summation and binary splitting
	HybridThreshold uint64
	// Confidence is a score from 0-1 indicating result reliability
	Confidence float64
	// Duration is how long the micro-benchmark took
	Duration time.Duration
}

// testResult holds timing data for a single configuration test.
type testResult struct {
	precision uint
	intPath   bool
	duration  time.Duration
	err       error
}

// ─────────────────────────────────────────────────────────────────────────────
// Micro-benchmark Implementation
// ─────────────────────────────────────────────────────────────────────────────

// NewMicroBenchmark creates a new MicroBenchmark with default settings.
func NewMicroBenchmark() *MicroBenchmark {
	return &MicroBenchmark{
		TestPrecisions: MicroBenchTestPrecisions,
		Iterations:     MicroBenchIterations,
		Timeout:        MicroBenchTimeout,
	}
}

// RunQuick performs rapid micro-benchmarks to estimate optimal tuning.
// It times full-precision float multiplications (the dominant cost of direct
// series summation) against integer multiplications of comparable size (the
// dominant cost of binary splitting) and derives the hybrid crossover and a
// chunk size from the measured costs.
//
// Returns:
//   - TuningResults: The estimated optimal tuning parameters
//   - error: An error if the benchmark failed critically
func (mb *MicroBenchmark) RunQuick(ctx context.Context) (TuningResults, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, mb.Timeout)
	defer cancel()

	// Run tests in parallel for speed
	results := mb.runParallelTests(ctx)

	// Analyze results to determine optimal tuning
	tuning := mb.analyzeResults(results)
	tuning.Duration = time.Since(start)

	return tuning, nil
}

// runParallelTests executes multiplication tests in parallel.
func (mb *MicroBenchmark) runParallelTests(ctx context.Context) []testResult {
	var results []testResult
	var mu sync.Mutex
	var wg sync.WaitGroup

	type testConfig struct {
		precision uint
		intPath   bool
	}

	configs := make([]testConfig, 0, len(mb.TestPrecisions)*2)
	for _, prec := range mb.TestPrecisions {
		// For each precision, test the float path and the integer path
		configs = append(configs,
			testConfig{prec, false},
			testConfig{prec, true},
		)
	}

	// Limit concurrency to avoid overwhelming the system
	semaphore := make(chan struct{}, runtime.NumCPU())

	for _, cfg := range configs {
		wg.Add(1)
		go func(c testConfig) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			}

			dur, err := mb.runSingleTest(ctx, c.precision, c.intPath)

			mu.Lock()
			results = append(results, testResult{
				precision: c.precision,
				intPath:   c.intPath,
				duration:  dur,
				err:       err,
			})
			mu.Unlock()
		}(cfg)
	}

	wg.Wait()
	return results
}

// runSingleTest times a single multiplication configuration.
func (mb *MicroBenchmark) runSingleTest(ctx context.Context, precision uint, intPath bool) (time.Duration, error) {
	// Warm up
	_ = multiplyTest(precision, intPath)

	var totalDuration time.Duration
	for i := 0; i < mb.Iterations; i++ {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		start := time.Now()
		_ = multiplyTest(precision, intPath)
		totalDuration += time.Since(start)
	}

	return totalDuration / time.Duration(mb.Iterations), nil
}

// generateTestInt creates a deterministic big.Int with the specified bit length.
func generateTestInt(bits uint) *big.Int {
	words := int(bits / uint(32<<(^uint(0)>>63)))
	if words == 0 {
		words = 1
	}
	limbs := make([]big.Word, words)
	for i := range limbs {
		// Pattern that exercises all bits without being uniform
		limbs[i] = big.Word(0xAAAAAAAAAAAAAAAA ^ uint64(i*0x1234567))
	}
	z := new(big.Int)
	z.SetBits(limbs)
	return z
}

// multiplyTest performs one multiplication at the given precision.
// The integer path models a binary-splitting merge; the float path models a
// direct-summation term update at full working precision.
func multiplyTest(precision uint, intPath bool) int {
	x := generateTestInt(precision)
	if intPath {
		z := new(big.Int).Mul(x, x)
		return z.BitLen()
	}
	fx := new(big.Float).SetPrec(precision).SetInt(x)
	fz := new(big.Float).SetPrec(precision).Mul(fx, fx)
	return int(fz.MinPrec())
}

// analyzeResults examines test results to determine optimal tuning.
func (mb *MicroBenchmark) analyzeResults(results []testResult) TuningResults {
	tr := TuningResults{
		// Start with conservative defaults
		ChunkSize:       EstimateOptimalChunkSize(),
		HybridThreshold: EstimateOptimalHybridThreshold(),
		Confidence:      0.5,
	}

	if len(results) == 0 {
		// No results obtained (e.g. timeout)
		tr.Confidence = 0.0
		return tr
	}

	// Group results by precision
	byPrecision := make(map[uint][]testResult)
	for _, r := range results {
		if r.err == nil {
			byPrecision[r.precision] = append(byPrecision[r.precision], r)
		}
	}

	// Analyze the integer/float crossover point
	crossover := mb.findHybridCrossover(byPrecision)
	if crossover > 0 {
		tr.HybridThreshold = crossover
		tr.Confidence += 0.2
	}

	// Size chunks from the measured float-path cost
	chunk := mb.estimateChunkSize(byPrecision)
	if chunk > 0 {
		tr.ChunkSize = chunk
		tr.Confidence += 0.2
	}

	if tr.Confidence > 1.0 {
		tr.Confidence = 1.0
	}

	return tr
}

// findHybridCrossover determines the digit count where the integer path
// becomes faster than the float path.
func (mb *MicroBenchmark) findHybridCrossover(byPrecision map[uint][]testResult) uint64 {
	var crossoverBits uint

	for prec, results := range byPrecision {
		var floatDur, intDur time.Duration
		var floatCount, intCount int

		for _, r := range results {
			if r.intPath {
				intDur += r.duration
				intCount++
			} else {
				floatDur += r.duration
				floatCount++
			}
		}

		if floatCount > 0 && intCount > 0 {
			avgFloat := floatDur / time.Duration(floatCount)
			avgInt := intDur / time.Duration(intCount)

			// Integer path is faster at this precision
			if avgInt < avgFloat {
				if crossoverBits == 0 || prec < crossoverBits {
					crossoverBits = prec
				}
			}
		}
	}

	if crossoverBits == 0 {
		return 0
	}

	// Bits to decimal digits, with some margin (splitting should be clearly
	// better before switching)
	digits := uint64(float64(crossoverBits) / 3.3219280948873626)
	return digits * 9 / 10
}

// estimateChunkSize derives a work-stealing chunk size from the measured cost
// of one float-path operation at the mid-range test precision.
func (mb *MicroBenchmark) estimateChunkSize(byPrecision map[uint][]testResult) uint64 {
	if len(mb.TestPrecisions) == 0 {
		return 0
	}
	mid := mb.TestPrecisions[len(mb.TestPrecisions)/2]

	var floatDur time.Duration
	var floatCount int
	for _, r := range byPrecision[mid] {
		if !r.intPath {
			floatDur += r.duration
			floatCount++
		}
	}
	if floatCount == 0 || floatDur == 0 {
		return 0
	}

	perOp := floatDur / time.Duration(floatCount)
	if perOp == 0 {
		return 0
	}

	chunk := uint64(targetChunkDuration / perOp)

	// Clamp and round down to a power of two
	if chunk < 16 {
		chunk = 16
	}
	if chunk > 1024 {
		chunk = 1024
	}
	pow := uint64(16)
	for pow*2 <= chunk {
		pow *= 2
	}
	return pow
}

// ─────────────────────────────────────────────────────────────────────────────
// Quick Calibration Function
// ─────────────────────────────────────────────────────────────────────────────

// QuickCalibrate performs a fast calibration using micro-benchmarks.
// This is designed to run in ~100ms and provide reasonable tuning estimates.
//
// Parameters:
//   - ctx: The context for cancellation
//
// Returns:
//   - TuningResults: The estimated optimal tuning parameters
//   - error: An error if calibration failed
func QuickCalibrate(ctx context.Context) (TuningResults, error) {
	mb := NewMicroBenchmark()
	return mb.RunQuick(ctx)
}

// QuickCalibrateWithDefaults performs quick calibration and returns values
// that can be directly used as configuration defaults.
//
// Parameters:
//   - ctx: The context for cancellation
//   - defaultChunk: The default chunk size to use if calibration fails
//   - defaultHybrid: The default hybrid threshold to use if calibration fails
//
// Returns:
//   - chunkSize: The calibrated or default chunk size
//   - hybridThreshold: The calibrated or default hybrid threshold
func QuickCalibrateWithDefaults(ctx context.Context, defaultChunk, defaultHybrid uint64) (uint64, uint64) {
	results, err := QuickCalibrate(ctx)
	if err != nil || results.Confidence < 0.3 {
		return defaultChunk, defaultHybrid
	}
	return results.ChunkSize, results.HybridThreshold
}
