// Package pi provides implementations for computing π to arbitrary decimal
// precision. This file contains progress reporting types used by the
// computation strategies.
package pi

// ProgressUpdate is a data transfer object that encapsulates the progress
// state of a computation. It is sent over a channel from the calculator to
// the user interface to provide asynchronous progress updates.
type ProgressUpdate struct {
	// CalculatorIndex is a unique identifier for the calculator instance,
	// allowing the UI to distinguish between multiple concurrent computations.
	CalculatorIndex int
	// Value represents the normalized progress of the computation, ranging
	// from 0.0 to 1.0.
	Value float64
}

// ProgressReporter defines the functional type for a progress reporting
// callback. Core strategies report through it without being coupled to the
// channel-based communication of the broader application.
//
// Parameters:
//   - progress: The normalized progress value (0.0 to 1.0).
type ProgressReporter func(progress float64)

// reportProgress forwards the completed-terms fraction to the reporter.
// Progress in this engine is simply terms done over terms planned: every
// term is one unit of work, so no weighting model is needed. Nil reporters
// are tolerated so cores never have to branch on progress being wanted.
func reportProgress(reporter ProgressReporter, done, total uint64) {
	if reporter == nil || total == 0 {
		return
	}
	reporter(float64(done) / float64(total))
}
