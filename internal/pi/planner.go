// Package pi provides implementations for computing π to arbitrary decimal
// precision. This file turns a requested digit count into a working binary
// precision and a series term count.
package pi

import "math"

// Algorithm identifies the series and evaluation policy used by a strategy.
type Algorithm int

const (
	// AlgorithmBBP is the Bailey–Borwein–Plouffe series evaluated by direct
	// floating summation.
	AlgorithmBBP Algorithm = iota
	// AlgorithmChudnovskyDirect is the Chudnovsky series evaluated term by
	// term at working precision.
	AlgorithmChudnovskyDirect
	// AlgorithmChudnovskySplit is the Chudnovsky series evaluated by exact
	// integer binary splitting.
	AlgorithmChudnovskySplit
)

// String returns the display name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmBBP:
		return "bbp"
	case AlgorithmChudnovskyDirect:
		return "chudnovsky"
	case AlgorithmChudnovskySplit:
		return "chudnovsky-split"
	default:
		return "unknown"
	}
}

// ExecutionPlan is the precision and work budget derived from a digit
// request. It is computed once per run and shared by the reducer, the
// assembler and the renderer.
type ExecutionPlan struct {
	// Digits is the requested number of correct fractional decimal digits.
	Digits uint64
	// PrecisionBits is the binary significand width carried through the
	// computation, always sufficient for Digits plus the guard margin.
	PrecisionBits uint
	// Terms is the number of series terms to evaluate, guard terms included.
	Terms uint64
}

// Plan derives the working precision and term count for the given digit
// request and algorithm.
//
// The precision bound is precision_bits = ceil(digits·log₂10) + GuardBits.
// The term bound follows the convergence rate of the selected series: ~4 bits
// per BBP term, ~14.18 decimal digits per Chudnovsky term, plus GuardTerms.
//
// Parameters:
//   - digits: The requested fractional digit count (must be positive).
//   - algo: The series the terms will be drawn from.
//   - opts: Options supplying the digit cap.
//
// Returns:
//   - ExecutionPlan: The derived precision and term budget.
//   - error: An InvalidDigitCountError if digits is zero or above the cap.
func Plan(digits uint64, algo Algorithm, opts Options) (ExecutionPlan, error) {
	opts = normalizeOptions(opts)
	if digits == 0 || digits > opts.MaxDigits {
		return ExecutionPlan{}, InvalidDigitCountError{Digits: digits, Max: opts.MaxDigits}
	}

	precisionBits := uint(math.Ceil(float64(digits)*Log2Of10)) + GuardBits

	var terms uint64
	switch algo {
	case AlgorithmBBP:
		terms = uint64(precisionBits)/BBPBitsPerTerm + GuardTerms
	default:
		terms = uint64(math.Ceil(float64(digits)/ChudnovskyDigitsPerTerm)) + GuardTerms
	}

	return ExecutionPlan{Digits: digits, PrecisionBits: precisionBits, Terms: terms}, nil
}

// EstimateMemory returns a rough upper bound, in bytes, on the resident
// memory of a computation: one working-precision significand per worker plus
// two for the accumulator and the final value. The driver layer surfaces this
// in its configuration banner before the run starts.
func EstimateMemory(plan ExecutionPlan, threads int) uint64 {
	perValue := uint64(plan.PrecisionBits) / 8
	return uint64(threads+2) * perValue
}
