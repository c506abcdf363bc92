// Package calibration provides performance calibration for the pi calculator.
// This file implements adaptive tuning candidate generation based on hardware
// characteristics.
package calibration

import (
	"runtime"
	"sort"
)

// ─────────────────────────────────────────────────────────────────────────────
// Adaptive Chunk Size Generation
// ─────────────────────────────────────────────────────────────────────────────

// GenerateChunkSizes generates a list of work-stealing chunk sizes to test
// based on the number of available CPU cores.
//
// The rationale:
// - Single-core: chunking only adds cursor traffic, test coarse chunks only
// - 2-4 cores: moderate chunks amortize the atomic cursor without starving workers
// - 8+ cores: smaller chunks keep more workers busy near the end of the range
// - 16+ cores: include very small chunks for fine-grained load balancing
func GenerateChunkSizes() []uint64 {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU == 1:
		// Single core: chunk granularity barely matters, keep the sweep short
		return []uint64{256, 1024}

	case numCPU <= 4:
		return []uint64{64, 128, 256, 512, 1024}

	case numCPU <= 8:
		return []uint64{32, 64, 128, 256, 512, 1024}

	case numCPU <= 16:
		return []uint64{16, 32, 64, 128, 256, 512}

	default:
		// High core count: fine granularity pays off
		return []uint64{8, 16, 32, 64, 128, 256}
	}
}

// GenerateQuickChunkSizes generates a smaller set of chunk sizes for quick
// auto-calibration at startup.
func GenerateQuickChunkSizes() []uint64 {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU == 1:
		return []uint64{256}
	case numCPU <= 4:
		return []uint64{64, 128, 512}
	case numCPU <= 8:
		return []uint64{32, 128, 512}
	default:
		return []uint64{16, 64, 256}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Adaptive Hybrid Threshold Generation
// ─────────────────────────────────────────────────────────────────────────────

// GenerateHybridThresholds generates hybrid crossover candidates to test.
// Below the threshold the direct series summation wins because its per-term
// floats stay small; above it, binary splitting's integer arithmetic wins
// because the series floats grow with the target precision.
//
// The crossover point depends on:
// - Integer multiplication speed (word size, vector units)
// - Memory bandwidth (binary splitting builds large intermediate integers)
// - Core count (both paths parallelize, but with different granularity)
func GenerateHybridThresholds() []uint64 {
	wordSize := 32 << (^uint(0) >> 63) // 32 or 64

	if wordSize == 64 {
		return []uint64{
			2000,
			5000,
			10000, // default
			20000,
			50000,
		}
	}
	// 32-bit systems: big.Int limbs are half as wide, splitting wins earlier
	return []uint64{
		1000,
		2000,
		5000,
		10000,
	}
}

// GenerateQuickHybridThresholds generates a smaller set for quick calibration.
func GenerateQuickHybridThresholds() []uint64 {
	return []uint64{5000, 10000, 20000}
}

// ─────────────────────────────────────────────────────────────────────────────
// Tuning Estimation (without benchmarking)
// ─────────────────────────────────────────────────────────────────────────────

// EstimateOptimalChunkSize provides a heuristic estimate of the optimal
// work-stealing chunk size without running benchmarks.
// This can be used as a fallback or starting point.
func EstimateOptimalChunkSize() uint64 {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU == 1:
		return 1024 // Minimize cursor traffic
	case numCPU <= 4:
		return 256
	case numCPU <= 8:
		return 128 // Default
	case numCPU <= 16:
		return 64
	default:
		return 32 // High core count - fine-grained balancing
	}
}

// EstimateOptimalHybridThreshold provides a heuristic estimate of the digit
// count where binary splitting overtakes direct summation, without running
// benchmarks.
func EstimateOptimalHybridThreshold() uint64 {
	wordSize := 32 << (^uint(0) >> 63)

	if wordSize == 64 {
		return 10000
	}
	return 5000 // Splitting wins earlier on 32-bit limbs
}

// ─────────────────────────────────────────────────────────────────────────────
// Tuning Validation
// ─────────────────────────────────────────────────────────────────────────────

// ValidateTuning ensures tuning parameters are within reasonable bounds.
func ValidateTuning(chunkSize, hybridThreshold uint64) (uint64, uint64) {
	// Chunk size: 1 to 65536 terms
	if chunkSize == 0 {
		chunkSize = 1
	}
	if chunkSize > 65536 {
		chunkSize = 65536
	}

	// Hybrid threshold: 100 to 10M digits
	if hybridThreshold < 100 {
		hybridThreshold = 100
	}
	if hybridThreshold > 10000000 {
		hybridThreshold = 10000000
	}

	return chunkSize, hybridThreshold
}

// ─────────────────────────────────────────────────────────────────────────────
// Combined Candidate Generation
// ─────────────────────────────────────────────────────────────────────────────

// TuningSet represents a complete set of tuning candidates to test.
type TuningSet struct {
	ChunkSizes       []uint64
	HybridThresholds []uint64
}

// GenerateFullTuningSet generates all candidates for comprehensive calibration.
func GenerateFullTuningSet() TuningSet {
	return TuningSet{
		ChunkSizes:       GenerateChunkSizes(),
		HybridThresholds: GenerateHybridThresholds(),
	}
}

// GenerateQuickTuningSet generates candidates for quick auto-calibration.
func GenerateQuickTuningSet() TuningSet {
	return TuningSet{
		ChunkSizes:       GenerateQuickChunkSizes(),
		HybridThresholds: GenerateQuickHybridThresholds(),
	}
}

// EstimatedTuning returns heuristic estimates without benchmarking.
func EstimatedTuning() (chunkSize, hybridThreshold uint64) {
	return EstimateOptimalChunkSize(), EstimateOptimalHybridThreshold()
}

// SortCandidates sorts each candidate slice in ascending order.
func (t *TuningSet) SortCandidates() {
	sort.Slice(t.ChunkSizes, func(i, j int) bool { return t.ChunkSizes[i] < t.ChunkSizes[j] })
	sort.Slice(t.HybridThresholds, func(i, j int) bool { return t.HybridThresholds[i] < t.HybridThresholds[j] })
}
