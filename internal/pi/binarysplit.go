package pi

import (
	"context"
	"fmt"
	"math/big"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// SplitResult holds the binary-splitting summary of a half-open term range
// [a, b) of the Chudnovsky series:
//
//	P(a,b): the weighted numerator sum
//	Q(a,b): the product of per-term denominators
//	T(a,b): the product of per-term ratio numerators
//
// The invariant tying them together is that P(a,b)/Q(a,b) equals the sum of
// the series terms over [a, b), each term taken relative to term a. Two
// adjacent summaries combine with Merge regardless of where the boundary
// falls, which is what lets the range be partitioned freely across workers.
type SplitResult struct {
	P, Q, T *big.Int
}

// Merge combines the summaries of two adjacent ranges [a, m) and [m, b) into
// the summary of [a, b):
//
//	P = P₁·Q₂ + P₂·T₁
//	Q = Q₁·Q₂
//	T = T₁·T₂
//
// The operation is associative, so a fold over per-worker summaries in range
// order yields the same result as the fully recursive split.
func (l SplitResult) Merge(r SplitResult) SplitResult {
	p := new(big.Int).Mul(l.P, r.Q)
	p.Add(p, new(big.Int).Mul(r.P, l.T))
	return SplitResult{
		P: p,
		Q: new(big.Int).Mul(l.Q, r.Q),
		T: new(big.Int).Mul(l.T, r.T),
	}
}

// splitBase returns the summary of the single-term range [k, k+1).
//
// Term 0 is the series anchor: its relative value is A itself, with unit
// denominator and unit ratio product. For k ≥ 1 the ratio numerator is
// −(6k−5)(2k−1)(6k−1), the denominator factor is k³·(C³/24), and the
// weighted numerator is (A + B·k) times the ratio numerator.
func splitBase(k uint64) SplitResult {
	if k == 0 {
		return SplitResult{
			P: big.NewInt(ChudnovskyA),
			Q: big.NewInt(1),
			T: big.NewInt(1),
		}
	}

	t := new(big.Int).SetUint64(6*k - 5)
	t.Mul(t, new(big.Int).SetUint64(2*k - 1))
	t.Mul(t, new(big.Int).SetUint64(6*k - 1))
	t.Neg(t)

	q := new(big.Int).SetUint64(k)
	q.Mul(q, q)
	q.Mul(q, new(big.Int).SetUint64(k))
	q.Mul(q, new(big.Int).SetUint64(chudnovskyC3Over24))

	p := new(big.Int).SetUint64(ChudnovskyB)
	p.Mul(p, new(big.Int).SetUint64(k))
	p.Add(p, big.NewInt(ChudnovskyA))
	p.Mul(p, t)

	return SplitResult{P: p, Q: q, T: t}
}

// Split computes the binary-splitting summary of [a, b) recursively,
// halving the range until single terms remain.
//
// Parameters:
//   - a: first term index, inclusive.
//   - b: last term index, exclusive; must be strictly greater than a.
//
// Returns:
//   - SplitResult: the (P, Q, T) summary of the range.
//   - error: An InvalidRangeError if a ≥ b.
func Split(a, b uint64) (SplitResult, error) {
	if a >= b {
		return SplitResult{}, InvalidRangeError{A: a, B: b}
	}
	return splitRange(a, b), nil
}

func splitRange(a, b uint64) SplitResult {
	if b-a == 1 {
		return splitBase(a)
	}
	m := a + (b-a)/2
	return splitRange(a, m).Merge(splitRange(m, b))
}

// ChudnovskyBinarySplit computes π with exact-integer binary splitting of
// the Chudnovsky series. The term range is partitioned up front into one
// contiguous slice per worker, each worker splits its slice independently,
// and the per-slice summaries are folded in ascending range order. Only the
// final assembly touches floating point, so the integer phase is exactly
// reproducible at any thread count.
type ChudnovskyBinarySplit struct {
	// splitFn overrides the range splitter; nil means Split. Tests use it to
	// inject worker failures.
	splitFn func(a, b uint64) (SplitResult, error)
}

// Name returns the descriptive name of the strategy.
func (c *ChudnovskyBinarySplit) Name() string {
	return "Chudnovsky (binary splitting, static partition)"
}

// ComputeCore runs the partitioned split and assembles
// π = 426880·√10005·Q/P at working precision.
func (c *ChudnovskyBinarySplit) ComputeCore(ctx context.Context, reporter ProgressReporter, digits uint64, opts Options) (*Approximation, error) {
	if err := validateThreads(opts); err != nil {
		return nil, err
	}
	plan, err := Plan(digits, AlgorithmChudnovskySplit, opts)
	if err != nil {
		return nil, err
	}

	split := c.splitFn
	if split == nil {
		split = Split
	}

	parts := partitionRange(0, plan.Terms, opts.Threads)
	results := make([]SplitResult, len(parts))

	var done atomic.Uint64
	g, gctx := errgroup.WithContext(ctx)
	for i, part := range parts {
		g.Go(func() (err error) {
			// A panicking worker must surface as a worker failure, never
			// crash the process.
			defer func() {
				if r := recover(); r != nil {
					err = WorkerFailureError{Cause: fmt.Errorf("split worker panic: %v", r)}
				}
			}()

			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := split(part.start, part.end)
			if err != nil {
				return err
			}
			results[i] = res
			reportProgress(reporter, done.Add(part.end-part.start), plan.Terms)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	folded := results[0]
	for _, res := range results[1:] {
		folded = folded.Merge(res)
	}
	return assembleBinarySplit(folded, plan), nil
}
