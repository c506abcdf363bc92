// Command generate-golden regenerates the golden digit file used by the
// accuracy tests. It computes π with Machin's formula over exact integers,
// deliberately sharing no code with the series evaluated by the engine, so
// the golden data is an independent oracle.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
)

// GoldenData represents a single test case in the golden file
type GoldenData struct {
	Digits uint64 `json:"digits"`
	Result string `json:"result"`
}

// guardDigits is the extra decimal precision carried through the arctangent
// sums so truncating to the target never exposes rounding drift.
const guardDigits = 15

func main() {
	outputDir := flag.String("out", "internal/pi/testdata", "Output directory for the golden file")
	maxDigits := flag.Uint64("max", 10000, "Largest digit count to generate")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join(*outputDir, "pi_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	fmt.Printf("Computing %d digits of π with Machin's formula...\n", *maxDigits)
	full := piMachin(*maxDigits)

	targets := []uint64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2000, 5000, 10000}

	var data []GoldenData
	for _, n := range targets {
		if n > *maxDigits {
			break
		}
		// "3." plus n fractional digits, truncated
		data = append(data, GoldenData{
			Digits: n,
			Result: full[:n+2],
		})
		fmt.Printf("Generated π to %d digits\n", n)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated golden file at %s\n", filename)
}

// piMachin returns π as "3." followed by digits fractional decimal digits,
// computed from
//
//	π/4 = 4·arctan(1/5) − arctan(1/239)
//
// over scaled integers. This serves as the oracle: it uses neither the BBP
// nor the Chudnovsky series, nor any floating point.
func piMachin(digits uint64) string {
	scale := new(big.Int).Exp(big.NewInt(10), new(big.Int).SetUint64(digits+guardDigits), nil)

	pi := new(big.Int).Mul(big.NewInt(4), arctanInv(5, scale))
	pi.Sub(pi, arctanInv(239, scale))
	pi.Mul(pi, big.NewInt(4))

	s := pi.String()
	return s[:1] + "." + s[1:uint64(1)+digits]
}

// arctanInv returns arctan(1/x)·scale by the alternating Taylor series,
// truncating every division toward zero.
func arctanInv(x int64, scale *big.Int) *big.Int {
	xBig := big.NewInt(x)
	x2 := new(big.Int).Mul(xBig, xBig)

	term := new(big.Int).Quo(scale, xBig)
	total := new(big.Int).Set(term)
	tmp := new(big.Int)

	for k, sign := int64(3), int64(-1); term.Sign() != 0; k, sign = k+2, -sign {
		term.Quo(term, x2)
		tmp.Quo(term, big.NewInt(k))
		if sign < 0 {
			total.Sub(total, tmp)
		} else {
			total.Add(total, tmp)
		}
	}
	return total
}
