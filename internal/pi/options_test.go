package pi

import "testing"

func TestNormalizeOptions(t *testing.T) {
	t.Parallel()

	t.Run("fills defaults", func(t *testing.T) {
		t.Parallel()
		got := normalizeOptions(Options{Threads: 4})
		if got.ChunkSize != DefaultChunkSize {
			t.Errorf("ChunkSize = %d, want %d", got.ChunkSize, DefaultChunkSize)
		}
		if got.MaxDigits != DefaultMaxDigits {
			t.Errorf("MaxDigits = %d, want %d", got.MaxDigits, DefaultMaxDigits)
		}
		if got.HybridThreshold != DefaultHybridThreshold {
			t.Errorf("HybridThreshold = %d, want %d", got.HybridThreshold, DefaultHybridThreshold)
		}
		// Threads is validated, not defaulted
		if got.Threads != 4 {
			t.Errorf("Threads = %d, want 4", got.Threads)
		}
	})

	t.Run("preserves explicit values", func(t *testing.T) {
		t.Parallel()
		opts := Options{Threads: 2, ChunkSize: 64, MaxDigits: 500, HybridThreshold: 9}
		if got := normalizeOptions(opts); got != opts {
			t.Errorf("normalizeOptions(%+v) = %+v", opts, got)
		}
	})
}

func TestValidateThreads(t *testing.T) {
	t.Parallel()

	for _, threads := range []int{1, 2, 64} {
		if err := validateThreads(Options{Threads: threads}); err != nil {
			t.Errorf("threads=%d rejected: %v", threads, err)
		}
	}
	for _, threads := range []int{0, -1} {
		if err := validateThreads(Options{Threads: threads}); err == nil {
			t.Errorf("threads=%d should be rejected", threads)
		}
	}
}
