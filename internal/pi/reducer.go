package pi

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/agbru/picalc/internal/parallel"
)

// termEvaluator produces series terms at a fixed working precision. The
// returned float is scratch-owned and must be consumed before the next call.
// Implementations may keep incremental state keyed on ascending indices.
type termEvaluator interface {
	Term(k uint64) *big.Float
}

// termRange is a half-open slice [start, end) of term indices.
type termRange struct {
	start, end uint64
}

// partitionRange divides [start, end) into at most workers contiguous,
// near-equal slices. Earlier slices absorb the remainder so sizes differ by
// at most one. Fewer slices are returned when the range is shorter than the
// worker count.
func partitionRange(start, end uint64, workers int) []termRange {
	total := end - start
	n := uint64(workers)
	if n > total {
		n = total
	}
	parts := make([]termRange, 0, n)
	base := total / n
	rem := total % n
	cursor := start
	for i := uint64(0); i < n; i++ {
		size := base
		if i < rem {
			size++
		}
		parts = append(parts, termRange{start: cursor, end: cursor + size})
		cursor += size
	}
	return parts
}

// workStealingSum evaluates all terms of the plan and returns their sum at
// the plan's working precision.
//
// Scheduling is dynamic: a shared atomic cursor hands out fixed-size chunks
// of consecutive term indices, so fast workers naturally take more chunks
// and stragglers never hold a static share hostage. Each worker owns one
// evaluator and one local accumulator; nothing is shared during the scan.
// The coordinator folds the per-worker partials after the WaitGroup drains,
// which keeps the hot path free of locks.
//
// A panicking evaluator is converted to a *WorkerFailureError rather than
// taking the process down; the first error wins and the rest are dropped.
func workStealingSum(ctx context.Context, reporter ProgressReporter, plan ExecutionPlan, opts Options, newEval func(prec uint) termEvaluator) (*big.Float, error) {
	chunkSize := opts.ChunkSize
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}

	workers := opts.Threads
	if uint64(workers) > plan.Terms {
		workers = int(plan.Terms)
	}

	var (
		cursor  atomic.Uint64
		done    atomic.Uint64
		collect parallel.ErrorCollector
		wg      sync.WaitGroup
	)
	partials := make([]*big.Float, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					collect.SetError(WorkerFailureError{Cause: fmt.Errorf("term evaluator panic: %v", r)})
				}
			}()

			eval := newEval(plan.PrecisionBits)
			local := new(big.Float).SetPrec(plan.PrecisionBits)

			for {
				if err := ctx.Err(); err != nil {
					collect.SetError(err)
					return
				}
				start := cursor.Add(chunkSize) - chunkSize
				if start >= plan.Terms {
					break
				}
				end := start + chunkSize
				if end > plan.Terms {
					end = plan.Terms
				}
				for k := start; k < end; k++ {
					local.Add(local, eval.Term(k))
				}
				reportProgress(reporter, done.Add(end-start), plan.Terms)
			}
			partials[w] = local
		}()
	}
	wg.Wait()

	if err := collect.Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	sum := new(big.Float).SetPrec(plan.PrecisionBits)
	for _, partial := range partials {
		if partial != nil {
			sum.Add(sum, partial)
		}
	}
	return sum, nil
}
