package pi

import (
	"math/big"
	"testing"
)

func TestVerifyAcceptsCorrectValue(t *testing.T) {
	t.Parallel()

	res := Verify(MockApproximation(100))
	if !res.Match {
		t.Fatalf("100 correct digits should verify, diverged at %d", res.DivergenceIndex)
	}
	if res.Compared != 100 {
		t.Errorf("Compared = %d, want 100", res.Compared)
	}
	if res.DivergenceIndex != res.Compared {
		t.Errorf("DivergenceIndex = %d, want %d on a match", res.DivergenceIndex, res.Compared)
	}
}

func TestVerifyShortValueComparesWhatExists(t *testing.T) {
	t.Parallel()

	res := Verify(MockApproximation(10))
	if !res.Match {
		t.Errorf("10 correct digits should verify, diverged at %d", res.DivergenceIndex)
	}
	if res.Compared != 10 {
		t.Errorf("Compared = %d, want 10", res.Compared)
	}
}

func TestVerifyDetectsWrongIntegerPart(t *testing.T) {
	t.Parallel()

	// e has integer part 2, so verification fails before any fractional digit
	wrong := &Approximation{
		value:  big.NewFloat(2.718281828459045).SetPrec(128),
		digits: 15,
	}
	res := Verify(wrong)
	if res.Match {
		t.Fatal("e should not verify as π")
	}
	if res.DivergenceIndex != 0 {
		t.Errorf("DivergenceIndex = %d, want 0", res.DivergenceIndex)
	}
	if res.Compared != 15 {
		t.Errorf("Compared = %d, want 15", res.Compared)
	}
}

func TestVerifyDetectsWrongFractionalDigit(t *testing.T) {
	t.Parallel()

	// 3.125 is exact in binary; its digits 1,2,5 first disagree with π's
	// 1,4,1 at fractional index 1.
	wrong := &Approximation{
		value:  big.NewFloat(3.125).SetPrec(128),
		digits: 4,
	}
	res := Verify(wrong)
	if res.Match {
		t.Fatal("3.125 should not verify as π")
	}
	if res.DivergenceIndex != 1 {
		t.Errorf("DivergenceIndex = %d, want 1", res.DivergenceIndex)
	}
	if res.Compared != 4 {
		t.Errorf("Compared = %d, want 4", res.Compared)
	}
}

func TestVerifyLargeValueChecksHeadOnly(t *testing.T) {
	t.Parallel()

	res := Verify(MockApproximation(5000))
	if !res.Match {
		t.Fatalf("head of a 5000-digit run should verify, diverged at %d", res.DivergenceIndex)
	}
	if res.Compared != 100 {
		t.Errorf("Compared = %d, want the reference length 100", res.Compared)
	}
}
