package pi

import "math/big"

// chudPrefactor returns 426880·√10005 at the given working precision. The
// square root is the only irrational ingredient of the Chudnovsky closed
// form and is computed fresh per run; caching across runs would couple
// computations with different precisions for no measurable gain.
func chudPrefactor(prec uint) *big.Float {
	root := new(big.Float).SetPrec(prec).SetUint64(10005)
	root.Sqrt(root)
	return root.Mul(root, new(big.Float).SetPrec(prec).SetUint64(assemblyScale))
}

// assembleDirect turns a direct-summation series total into the final
// approximation. The BBP series sums to π itself; the Chudnovsky series sums
// to S with π = 426880·√10005 / S.
func assembleDirect(sum *big.Float, plan ExecutionPlan, algo Algorithm) *Approximation {
	value := sum
	if algo != AlgorithmBBP {
		value = chudPrefactor(plan.PrecisionBits)
		value.Quo(value, sum)
	}
	return newApproximation(value, plan)
}

// assembleBinarySplit turns the folded binary-splitting summary of the full
// term range [0, Terms) into the final approximation,
//
//	π = 426880·√10005 · Q / P.
//
// P and Q are exact up to this point; the two conversions and the division
// are the only rounding steps on this path.
func assembleBinarySplit(res SplitResult, plan ExecutionPlan) *Approximation {
	p := new(big.Float).SetPrec(plan.PrecisionBits).SetInt(res.P)
	q := new(big.Float).SetPrec(plan.PrecisionBits).SetInt(res.Q)

	value := chudPrefactor(plan.PrecisionBits)
	value.Mul(value, q)
	value.Quo(value, p)
	return newApproximation(value, plan)
}
