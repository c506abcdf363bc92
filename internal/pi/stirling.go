package pi

import "math"

// This file contains fast float64 estimators used for planning and
// diagnostics. They deliberately trade correctness guarantees for speed and
// are never consulted by the exact computation paths.

// lnFactorial approximates ln(n!) with the Stirling series,
//
//	ln n! ≈ n·ln n − n + ln(2πn)/2 + 1/(12n)
//
// accurate to well under one part in 10⁶ for n ≥ 2, which is far more than
// the planning uses below require.
func lnFactorial(n uint64) float64 {
	if n < 2 {
		return 0
	}
	fn := float64(n)
	return fn*math.Log(fn) - fn + 0.5*math.Log(2*math.Pi*fn) + 1/(12*fn)
}

// EstimateTermMagnitude returns the approximate magnitude of Chudnovsky term
// k as a decimal exponent: term k ≈ 10^e with e the returned value. The
// estimate follows the term's closed form through factorial logarithms,
//
//	ln|t_k| = ln(6k)! + ln(A + B·k) − ln(3k)! − 3·ln k! − 3k·ln C.
//
// Used to predict how many digits a partial evaluation has already secured,
// e.g. for the pre-run series summary in the CLI banner.
//
// Parameters:
//   - k: The term index.
//
// Returns:
//   - float64: log₁₀ of the term's absolute value.
func EstimateTermMagnitude(k uint64) float64 {
	if k == 0 {
		return math.Log10(ChudnovskyA)
	}
	fk := float64(k)
	ln := lnFactorial(6*k) +
		math.Log(ChudnovskyA+ChudnovskyB*fk) -
		lnFactorial(3*k) -
		3*lnFactorial(k) -
		3*fk*math.Log(ChudnovskyC)
	return ln / math.Ln10
}

// EstimateSecuredDigits returns approximately how many fractional decimal
// digits are already correct once all terms below k have been summed. It is
// the planning-grade inverse of the per-term digit yield and intentionally
// ignores rounding effects.
func EstimateSecuredDigits(k uint64) float64 {
	if k == 0 {
		return 0
	}
	return -EstimateTermMagnitude(k)
}
