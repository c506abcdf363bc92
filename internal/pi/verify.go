package pi

import (
	"math/big"
	"strings"
)

// referencePi is π truncated to 100 fractional digits, used as the built-in
// accuracy oracle for computed values.
const referencePi = "3.1415926535897932384626433832795028841971693993751058209749445923078164062862089986280348253421170679"

// VerificationResult reports how a computed approximation compares against
// the built-in reference digits.
type VerificationResult struct {
	// Match is true when the integer part is 3 and every compared fractional
	// digit agrees with the reference.
	Match bool
	// Compared is the number of fractional digits checked:
	// min(100, Approximation.Digits()).
	Compared int
	// DivergenceIndex is the zero-based position of the first disagreeing
	// fractional digit. When Match is true it equals Compared. A wrong
	// integer part reports index 0.
	DivergenceIndex int
}

// Verify checks the approximation's leading fractional digits against the
// built-in 100-digit reference. At most min(100, digits) digits can be
// compared, so large computations are spot-checked on their head rather than
// proven correct.
//
// Parameters:
//   - a: The approximation to check.
//
// Returns:
//   - VerificationResult: The comparison outcome.
func Verify(a *Approximation) VerificationResult {
	reference := strings.TrimPrefix(referencePi, "3.")

	n := len(reference)
	if a.digits < uint64(n) {
		n = int(a.digits)
	}

	ipart, _, _ := a.fixedPoint()
	if ipart.Cmp(big.NewInt(3)) != 0 {
		return VerificationResult{Match: false, Compared: n, DivergenceIndex: 0}
	}

	// Draw only as many fractional digits as the comparison uses, so
	// verifying a hundred-million-digit run stays O(1).
	stream := a.Stream()
	for i := 0; i < n; i++ {
		d, ok := stream.Next()
		if !ok || '0'+d != reference[i] {
			return VerificationResult{Match: false, Compared: n, DivergenceIndex: i}
		}
	}
	return VerificationResult{Match: true, Compared: n, DivergenceIndex: n}
}
