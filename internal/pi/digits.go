// Package pi provides implementations for computing π to arbitrary decimal
// precision. This file turns a working-precision binary value into decimal
// digits and renders them.
package pi

import (
	"fmt"
	"io"
	"math/big"
	"strings"
)

// Approximation is an immutable π value carrying its guard precision. The
// computed digit count is the number of fractional decimal digits the value
// is guaranteed to be correct for; the underlying float carries more.
type Approximation struct {
	value  *big.Float
	digits uint64
}

func newApproximation(value *big.Float, plan ExecutionPlan) *Approximation {
	return &Approximation{value: value, digits: plan.Digits}
}

// Digits returns the number of guaranteed correct fractional digits.
func (a *Approximation) Digits() uint64 { return a.digits }

// Value returns a copy of the underlying float so callers cannot mutate the
// approximation.
func (a *Approximation) Value() *big.Float {
	return new(big.Float).Copy(a.value)
}

// fixedPoint decomposes the value into its integer part and an exact binary
// fixed-point fraction: frac / 2^shift equals the fractional part with no
// rounding. Every decimal digit derived from this pair is therefore a pure
// integer computation, which is what makes the streaming and chunked
// renderers byte-identical.
func (a *Approximation) fixedPoint() (ipart, frac *big.Int, shift uint) {
	ipart, _ = a.value.Int(nil)

	rem := new(big.Float).SetPrec(a.value.Prec())
	rem.Sub(a.value, new(big.Float).SetPrec(a.value.Prec()).SetInt(ipart))

	if rem.Sign() == 0 {
		return ipart, new(big.Int), 1
	}

	// rem = mant·2^exp with mant ∈ [0.5, 1); mant·2^p is an integer for
	// p = MinPrec(rem), so rem = m / 2^(p−exp) exactly.
	mant := new(big.Float)
	exp := rem.MantExp(mant)
	p := int(rem.MinPrec())
	scaled := new(big.Float).SetMantExp(mant, p)
	frac = new(big.Int)
	scaled.Int(frac)
	return ipart, frac, uint(p - exp)
}

// DigitStream yields the fractional decimal digits of the approximation one
// at a time, by truncation. Peak memory is one fixed-point remainder
// regardless of how many digits are drawn.
type DigitStream struct {
	frac  *big.Int
	shift uint
	tmp   *big.Int
	left  uint64
}

// Stream returns a digit stream positioned at the first fractional digit.
// The stream is bounded by the approximation's guaranteed digit count.
func (a *Approximation) Stream() *DigitStream {
	_, frac, shift := a.fixedPoint()
	return &DigitStream{frac: frac, shift: shift, tmp: new(big.Int), left: a.digits}
}

// Next returns the next digit (0 through 9) and false once the guaranteed
// digits are exhausted.
func (s *DigitStream) Next() (byte, bool) {
	if s.left == 0 {
		return 0, false
	}
	s.left--
	s.frac.Mul(s.frac, ten)
	s.tmp.Rsh(s.frac, s.shift)
	d := byte(s.tmp.Uint64())
	s.frac.Sub(s.frac, s.tmp.Lsh(s.tmp, s.shift))
	return d, true
}

var ten = big.NewInt(10)

// fracChunk returns the next n fractional digits starting at the stream's
// position as a zero-padded decimal string, advancing the remainder in one
// multiplication. It is the bulk counterpart of Next and produces the same
// digits.
func (s *DigitStream) fracChunk(n uint64) string {
	if n > s.left {
		n = s.left
	}
	if n == 0 {
		return ""
	}
	s.left -= n

	pow := new(big.Int).Exp(ten, new(big.Int).SetUint64(n), nil)
	s.frac.Mul(s.frac, pow)
	chunk := new(big.Int).Rsh(s.frac, s.shift)
	s.frac.Sub(s.frac, new(big.Int).Lsh(chunk, s.shift))
	return fmt.Sprintf("%0*d", int(n), chunk)
}

// digitFormatter lays fractional digits out in the house style: blocks of
// ten separated by a single space, a newline instead of the space after
// every fifth block, no trailing separator.
type digitFormatter struct {
	w       io.Writer
	written uint64
	err     error
}

func (f *digitFormatter) writeDigit(d byte) {
	if f.err != nil {
		return
	}
	if f.written > 0 {
		switch {
		case f.written%50 == 0:
			_, f.err = io.WriteString(f.w, "\n")
		case f.written%10 == 0:
			_, f.err = io.WriteString(f.w, " ")
		}
		if f.err != nil {
			return
		}
	}
	_, f.err = f.w.Write([]byte{'0' + d})
	f.written++
}

func (f *digitFormatter) writeDigits(s string) {
	for i := 0; i < len(s); i++ {
		f.writeDigit(s[i] - '0')
	}
}

// chunkDigits is the number of fractional digits converted per remainder
// multiplication in chunked rendering. A multiple of 50 so chunk boundaries
// coincide with line boundaries.
const chunkDigits = 1000

// WriteFormatted renders the approximation digit by digit: the integer part,
// the decimal point, then the fractional digits in formatted blocks. Memory
// stays flat no matter how many digits are requested.
//
// Parameters:
//   - w: The destination writer.
//
// Returns:
//   - error: The first write error encountered, if any.
func (a *Approximation) WriteFormatted(w io.Writer) error {
	ipart, _, _ := a.fixedPoint()
	if _, err := fmt.Fprintf(w, "%s.", ipart.Text(10)); err != nil {
		return err
	}
	f := &digitFormatter{w: w}
	stream := a.Stream()
	for {
		d, ok := stream.Next()
		if !ok {
			break
		}
		f.writeDigit(d)
	}
	return f.err
}

// WriteFormattedChunked renders the approximation in fixed-size digit
// chunks, trading peak memory for fewer big-integer operations. The output
// is byte-identical to WriteFormatted because both draw their digits from
// the same exact fixed-point truncation.
//
// Parameters:
//   - w: The destination writer.
//
// Returns:
//   - error: The first write error encountered, if any.
func (a *Approximation) WriteFormattedChunked(w io.Writer) error {
	ipart, _, _ := a.fixedPoint()
	if _, err := fmt.Fprintf(w, "%s.", ipart.Text(10)); err != nil {
		return err
	}
	f := &digitFormatter{w: w}
	stream := a.Stream()
	for stream.left > 0 {
		f.writeDigits(stream.fracChunk(chunkDigits))
		if f.err != nil {
			return f.err
		}
	}
	return f.err
}

// Text returns the formatted rendering as a string. Intended for modest
// digit counts; large runs should stream to a writer instead.
func (a *Approximation) Text() string {
	var sb strings.Builder
	// strings.Builder never returns a write error
	_ = a.WriteFormatted(&sb)
	return sb.String()
}

// DigitsEqual reports whether two approximations agree on every guaranteed
// digit. Both the integer parts and the full digit streams are compared, so
// two results produced by different strategies at the same digit count can be
// cross-checked without materializing either as a string.
//
// Parameters:
//   - other: The approximation to compare against.
//
// Returns:
//   - bool: true when the digit counts and all digits match.
func (a *Approximation) DigitsEqual(other *Approximation) bool {
	if other == nil || a.digits != other.digits {
		return false
	}
	aInt, _, _ := a.fixedPoint()
	bInt, _, _ := other.fixedPoint()
	if aInt.Cmp(bInt) != 0 {
		return false
	}
	as, bs := a.Stream(), other.Stream()
	for {
		ad, aok := as.Next()
		bd, bok := bs.Next()
		if aok != bok {
			return false
		}
		if !aok {
			return true
		}
		if ad != bd {
			return false
		}
	}
}

// PlainDigits returns the integer part followed by the fractional digits
// with no grouping, e.g. "3.1415". Used by the verifier and by tests.
func (a *Approximation) PlainDigits() string {
	ipart, _, _ := a.fixedPoint()
	var sb strings.Builder
	sb.WriteString(ipart.Text(10))
	sb.WriteByte('.')
	stream := a.Stream()
	for {
		d, ok := stream.Next()
		if !ok {
			break
		}
		sb.WriteByte('0' + d)
	}
	return sb.String()
}
