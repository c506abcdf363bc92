// Package pi provides implementations for computing π to arbitrary decimal
// precision. This file centralizes the numeric constants shared by the
// planner, the term evaluators and the binary splitter.
package pi

// Log2Of10 is log₂(10), the number of binary digits needed per decimal digit.
// Used by the planner to convert a requested decimal digit count into a
// working binary precision.
const Log2Of10 = 3.321928094887362

// GuardBits is the fixed margin of extra binary precision carried beyond the
// minimum implied by the requested digit count.
//
// Derivation: every arithmetic operation at working precision loses at most
// 1/2 ulp to round-to-nearest. A BBP term costs four divisions and three
// subtractions; summing N terms therefore accumulates at most ~4N ulp of
// error, i.e. log₂(4N) bits. With the digit cap at 10⁸ the term count never
// exceeds 2⁴⁰, so 64 guard bits absorb the worst-case rounding drift of every
// supported strategy with room to spare for the final assembly (square root
// plus one division, a handful of ulps).
const GuardBits = 64

// GuardTerms is the fixed margin of extra series terms evaluated beyond the
// computed minimum. Each extra BBP term contributes ~4 bits and each extra
// Chudnovsky term ~47 bits, so four guard terms cover the truncation error of
// the ceil-based term estimate for both series.
const GuardTerms = 4

// BBPBitsPerTerm is the number of binary digits each BBP term contributes:
// term k is scaled by 16⁻ᵏ, i.e. 4 bits per index.
const BBPBitsPerTerm = 4

// ChudnovskyDigitsPerTerm is the number of decimal digits each Chudnovsky
// term contributes, log₁₀(640320³ / (24·6·2·6)) ≈ 14.1816.
const ChudnovskyDigitsPerTerm = 14.181647462725477

// Chudnovsky series constants: the series computes
//
//	1/π = 12 · Σ (−1)ᵏ (6k)! (A + B·k) / ((3k)! (k!)³ C^(3k+3/2))
//
// with A = 13591409, B = 545140134 and C = 640320.
const (
	ChudnovskyA = 13591409
	ChudnovskyB = 545140134
	ChudnovskyC = 640320
)

// chudnovskyC3Over24 is C³/24 = 640320³/24, the denominator factor of the
// term-to-term ratio f(k) = −(6k−5)(2k−1)(6k−1) / (k³·C³/24).
const chudnovskyC3Over24 = 10939058860032000

// assemblyScale is the integer prefactor of the closed form
// π = assemblyScale · √10005 / S, where S is the plain Chudnovsky sum.
// It equals C^(3/2) / (12·√10005) = 426880.
const assemblyScale = 426880

// DefaultMaxDigits caps the requested digit count. The cap bounds both the
// working precision (~416 MB of significand at the cap) and the term count,
// so a mistyped request fails fast instead of exhausting memory.
const DefaultMaxDigits = 100_000_000

// DefaultChunkSize is the number of consecutive term indices handed out per
// claim of the work-stealing cursor. Large enough to amortize the atomic
// increment and to keep the Chudnovsky factorial recurrence sequential within
// a chunk, small enough to balance uneven term costs across workers.
const DefaultChunkSize = 128

// CalibrationDigits is the digit count used for calibration trial runs. It is
// large enough for tuning differences to show in the timings while keeping a
// full calibration sweep under a few seconds on commodity hardware.
const CalibrationDigits = 50_000

// DefaultHybridThreshold is the digit count above which the auto-selecting
// strategy switches from direct summation to binary splitting. Below it the
// per-term float evaluation is cheap and has better constants; above it the
// exact integer merge wins asymptotically.
const DefaultHybridThreshold = 10_000
