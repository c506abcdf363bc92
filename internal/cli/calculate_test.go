package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/agbru/picalc/internal/config"
	"github.com/agbru/picalc/internal/pi"
	"github.com/agbru/picalc/internal/testutil"
	"github.com/agbru/picalc/internal/ui"
)

// namedCalc is a trivial Calculator with a configurable name, so factory
// selection tests can tell the returned calculators apart.
type namedCalc struct {
	name string
}

func (c *namedCalc) Name() string { return c.name }

func (c *namedCalc) Compute(ctx context.Context, progressChan chan<- pi.ProgressUpdate, calcIndex int, digits uint64, opts pi.Options) (*pi.Approximation, error) {
	return nil, nil
}

func testFactory() pi.CalculatorFactory {
	return pi.NewTestFactory(map[string]pi.Calculator{
		"bbp":              &namedCalc{name: "bbp"},
		"chudnovsky":       &namedCalc{name: "chudnovsky"},
		"chudnovsky-split": &namedCalc{name: "chudnovsky-split"},
	})
}

func TestGetCalculatorsToRun(t *testing.T) {
	t.Parallel()

	factory := testFactory()

	testCases := []struct {
		name          string
		algo          string
		expectedNames []string
	}{
		{
			name:          "AllReturnsEveryCalculatorSorted",
			algo:          "all",
			expectedNames: []string{"bbp", "chudnovsky", "chudnovsky-split"},
		},
		{
			name:          "SingleAlgorithm",
			algo:          "chudnovsky",
			expectedNames: []string{"chudnovsky"},
		},
		{
			name:          "UnknownAlgorithmReturnsNothing",
			algo:          "does-not-exist",
			expectedNames: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.AppConfig{Algo: tc.algo}
			calculators := GetCalculatorsToRun(cfg, factory)

			if len(calculators) != len(tc.expectedNames) {
				t.Fatalf("got %d calculators, want %d", len(calculators), len(tc.expectedNames))
			}
			for i, calc := range calculators {
				if calc.Name() != tc.expectedNames[i] {
					t.Errorf("calculator[%d] = %q, want %q", i, calc.Name(), tc.expectedNames[i])
				}
			}
		})
	}
}

func TestPrintExecutionConfig(t *testing.T) {
	ui.InitTheme(true)

	cfg := config.AppConfig{
		Digits:          1234567,
		Timeout:         2 * time.Minute,
		Threads:         4,
		ChunkSize:       128,
		HybridThreshold: 10000,
	}

	var buf bytes.Buffer
	PrintExecutionConfig(cfg, &buf)
	got := testutil.StripAnsiCodes(buf.String())

	for _, want := range []string{
		"--- Execution Configuration ---",
		"1,234,567",
		"timeout of 2m0s",
		"logical processors",
		"threads=4",
		"chunk size=128 terms",
		"hybrid threshold=10000 digits",
		"Estimated peak memory:",
		"Chudnovsky terms securing",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\ngot:\n%s", want, got)
		}
	}
}

func TestPrintExecutionMode(t *testing.T) {
	ui.InitTheme(true)

	t.Run("SingleCalculator", func(t *testing.T) {
		var buf bytes.Buffer
		PrintExecutionMode([]pi.Calculator{&namedCalc{name: "bbp"}}, &buf)
		got := testutil.StripAnsiCodes(buf.String())

		if !strings.Contains(got, "Single computation with the bbp algorithm") {
			t.Errorf("output missing single mode description, got %q", got)
		}
		if !strings.Contains(got, "--- Starting Execution ---") {
			t.Errorf("output missing execution banner, got %q", got)
		}
	})

	t.Run("MultipleCalculators", func(t *testing.T) {
		var buf bytes.Buffer
		PrintExecutionMode([]pi.Calculator{
			&namedCalc{name: "bbp"},
			&namedCalc{name: "chudnovsky"},
		}, &buf)
		got := testutil.StripAnsiCodes(buf.String())

		if !strings.Contains(got, "Parallel comparison of all algorithms") {
			t.Errorf("output missing comparison mode description, got %q", got)
		}
	})
}
