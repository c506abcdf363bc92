// Package pi provides implementations for computing π to arbitrary decimal
// precision. This file implements the Bailey–Borwein–Plouffe series.
package pi

import (
	"context"
	"math/big"
)

// bbpScratch evaluates BBP terms at a fixed working precision. All
// intermediate floats are owned by the scratch and reused across calls, so
// one scratch serves one worker for the duration of its assignment and the
// per-term allocation cost is zero after warm-up.
type bbpScratch struct {
	num, den, tmp, term *big.Float
}

// newBBPScratch returns a scratch whose buffers carry prec bits.
func newBBPScratch(prec uint) *bbpScratch {
	return &bbpScratch{
		num:  new(big.Float).SetPrec(prec),
		den:  new(big.Float).SetPrec(prec),
		tmp:  new(big.Float).SetPrec(prec),
		term: new(big.Float).SetPrec(prec),
	}
}

// Term computes BBP term k,
//
//	(4/(8k+1) − 2/(8k+4) − 1/(8k+5) − 1/(8k+6)) · 16⁻ᵏ
//
// with round-to-nearest divisions at working precision. The 16⁻ᵏ factor is a
// pure binary exponent shift and therefore exact. The returned float aliases
// the scratch and is only valid until the next call.
func (s *bbpScratch) Term(k uint64) *big.Float {
	ek := 8 * k

	s.num.SetUint64(4)
	s.den.SetUint64(ek + 1)
	s.term.Quo(s.num, s.den)

	s.num.SetUint64(2)
	s.den.SetUint64(ek + 4)
	s.tmp.Quo(s.num, s.den)
	s.term.Sub(s.term, s.tmp)

	s.num.SetUint64(1)
	s.den.SetUint64(ek + 5)
	s.tmp.Quo(s.num, s.den)
	s.term.Sub(s.term, s.tmp)

	s.den.SetUint64(ek + 6)
	s.tmp.Quo(s.num, s.den)
	s.term.Sub(s.term, s.tmp)

	if k > 0 {
		s.term.SetMantExp(s.term, -int(4*k))
	}
	return s.term
}

// BBPDirect computes π by summing the BBP series directly at working
// precision. Work is distributed with the work-stealing cursor: each worker
// claims fixed-size chunks of term indices and accumulates a thread-local
// sum, and the coordinator folds the per-worker partials after all workers
// have finished. The accumulated sum approximates π with no further
// transformation.
type BBPDirect struct{}

// Name returns the descriptive name of the strategy.
func (c *BBPDirect) Name() string {
	return "BBP (direct summation, work stealing)"
}

// ComputeCore evaluates the series and assembles the final value.
func (c *BBPDirect) ComputeCore(ctx context.Context, reporter ProgressReporter, digits uint64, opts Options) (*Approximation, error) {
	if err := validateThreads(opts); err != nil {
		return nil, err
	}
	plan, err := Plan(digits, AlgorithmBBP, opts)
	if err != nil {
		return nil, err
	}

	sum, err := workStealingSum(ctx, reporter, plan, opts, func(prec uint) termEvaluator {
		return newBBPScratch(prec)
	})
	if err != nil {
		return nil, err
	}
	return assembleDirect(sum, plan, AlgorithmBBP), nil
}
