// Package pi provides implementations for computing π to arbitrary decimal
// precision. This file defines the typed errors returned by the engine.
//
// Validation errors (digit count, thread count) are returned synchronously
// before any work starts. Execution errors (worker failure) abort the whole
// computation; no partial result is ever returned alongside an error.
package pi

import "fmt"

// InvalidDigitCountError reports a digit request that is zero or exceeds the
// configured maximum.
type InvalidDigitCountError struct {
	// Digits is the rejected digit count.
	Digits uint64
	// Max is the configured upper bound that applied at validation time.
	Max uint64
}

// Error returns the error message for an InvalidDigitCountError.
func (e InvalidDigitCountError) Error() string {
	if e.Digits == 0 {
		return "pi: digit count must be strictly positive"
	}
	return fmt.Sprintf("pi: digit count %d exceeds the configured maximum of %d", e.Digits, e.Max)
}

// InvalidThreadCountError reports a worker count that is not strictly
// positive.
type InvalidThreadCountError struct {
	// Threads is the rejected worker count.
	Threads int
}

// Error returns the error message for an InvalidThreadCountError.
func (e InvalidThreadCountError) Error() string {
	return fmt.Sprintf("pi: thread count must be strictly positive, got %d", e.Threads)
}

// InvalidRangeError reports malformed binary-splitting bounds (a ≥ b).
// Ranges are constructed internally by the reducer, so this error reaching a
// caller indicates a defect in the partitioning logic, not bad user input.
type InvalidRangeError struct {
	// A and B are the offending half-open bounds.
	A, B uint64
}

// Error returns the error message for an InvalidRangeError.
func (e InvalidRangeError) Error() string {
	return fmt.Sprintf("pi: invalid term range [%d, %d): lower bound must be less than upper bound", e.A, e.B)
}

// WorkerFailureError aggregates the abnormal termination of a computation
// worker. The first failure observed aborts the run; Cause carries it.
type WorkerFailureError struct {
	// Cause is the recovered panic value or underlying error.
	Cause error
}

// Error returns the error message for a WorkerFailureError.
func (e WorkerFailureError) Error() string {
	return fmt.Sprintf("pi: worker failed: %v", e.Cause)
}

// Unwrap returns the underlying cause, supporting errors.Is and errors.As.
func (e WorkerFailureError) Unwrap() error { return e.Cause }
