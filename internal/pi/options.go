// Package pi provides implementations for computing π to arbitrary decimal
// precision. This file contains configuration options for computations.
package pi

// Options configures a π computation.
type Options struct {
	// Threads is the number of worker goroutines used for term evaluation.
	// It must be strictly positive; a zero value is rejected with
	// InvalidThreadCountError before any work starts. The driver layer is
	// expected to default it to the host's logical core count.
	Threads int
	// ChunkSize is the number of consecutive term indices claimed per
	// acquisition of the work-stealing cursor. If 0, DefaultChunkSize is used.
	ChunkSize uint64
	// MaxDigits caps the accepted digit count. If 0, DefaultMaxDigits is used.
	MaxDigits uint64
	// HybridThreshold is the digit count above which the auto-selecting
	// strategy prefers binary splitting. If 0, DefaultHybridThreshold is used.
	HybridThreshold uint64
}

// normalizeOptions returns a copy of opts with default values filled in for
// zero values, ensuring consistent handling across all strategies. Threads is
// deliberately left untouched: a zero thread count is a validation error, not
// a request for a default.
func normalizeOptions(opts Options) Options {
	normalized := opts
	if normalized.ChunkSize == 0 {
		normalized.ChunkSize = DefaultChunkSize
	}
	if normalized.MaxDigits == 0 {
		normalized.MaxDigits = DefaultMaxDigits
	}
	if normalized.HybridThreshold == 0 {
		normalized.HybridThreshold = DefaultHybridThreshold
	}
	return normalized
}

// validateThreads rejects non-positive worker counts.
func validateThreads(opts Options) error {
	if opts.Threads <= 0 {
		return InvalidThreadCountError{Threads: opts.Threads}
	}
	return nil
}
