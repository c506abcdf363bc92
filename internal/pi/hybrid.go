package pi

import "context"

// HybridAuto selects a Chudnovsky evaluation policy from the digit request:
// direct floating summation up to the hybrid threshold, exact-integer binary
// splitting above it. The crossover reflects the asymptotics of the two
// paths, not a per-machine measurement; calibration can move the threshold
// through Options.
type HybridAuto struct {
	// direct and split override the delegated policies; nil means the real
	// strategies. Tests use them to observe the dispatch decision.
	direct coreCalculator
	split  coreCalculator
}

// Name returns the descriptive name of the strategy.
func (c *HybridAuto) Name() string {
	return "Chudnovsky (auto: direct below threshold, binary splitting above)"
}

// ComputeCore dispatches to the selected policy.
func (c *HybridAuto) ComputeCore(ctx context.Context, reporter ProgressReporter, digits uint64, opts Options) (*Approximation, error) {
	threshold := opts.HybridThreshold
	if threshold == 0 {
		threshold = DefaultHybridThreshold
	}
	if digits > threshold {
		split := c.split
		if split == nil {
			split = &ChudnovskyBinarySplit{}
		}
		return split.ComputeCore(ctx, reporter, digits, opts)
	}
	direct := c.direct
	if direct == nil {
		direct = &ChudnovskyDirect{}
	}
	return direct.ComputeCore(ctx, reporter, digits, opts)
}
