package config

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/agbru/picalc/internal/pi"
)

var testAlgos = []string{"auto", "bbp", "chudnovsky", "chudnovsky-split"}

// ─────────────────────────────────────────────────────────────────────────────
// Exhaustive Validation Tests
// ─────────────────────────────────────────────────────────────────────────────

// TestValidateTimeout tests all timeout validation scenarios.
func TestValidateTimeout(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		timeout     time.Duration
		expectError bool
	}{
		{"ZeroTimeout", 0, true},
		{"NegativeTimeout", -1 * time.Second, true},
		{"MinPositiveTimeout", 1 * time.Nanosecond, false},
		{"OneSecondTimeout", 1 * time.Second, false},
		{"OneMinuteTimeout", 1 * time.Minute, false},
		{"OneHourTimeout", 1 * time.Hour, false},
		{"VeryLargeTimeout", 24 * time.Hour, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := AppConfig{
				Digits:  100,
				Threads: 2,
				Timeout: tc.timeout,
				Algo:    "bbp",
			}

			err := cfg.Validate(testAlgos)
			if tc.expectError && err == nil {
				t.Error("Expected validation error but got nil")
			}
			if !tc.expectError && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}

// TestValidateDigits tests the digit count bounds.
func TestValidateDigits(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		digits      uint64
		maxDigits   uint64
		expectError bool
	}{
		{"ZeroDigits", 0, 0, true},
		{"OneDigit", 1, 0, false},
		{"TypicalDigits", 10_000, 0, false},
		{"AtDefaultCap", pi.DefaultMaxDigits, 0, false},
		{"AboveDefaultCap", pi.DefaultMaxDigits + 1, 0, true},
		{"AtCustomCap", 500, 500, false},
		{"AboveCustomCap", 501, 500, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := AppConfig{
				Digits:    tc.digits,
				MaxDigits: tc.maxDigits,
				Threads:   2,
				Timeout:   time.Minute,
				Algo:      "all",
			}

			err := cfg.Validate(testAlgos)
			if tc.expectError && err == nil {
				t.Error("Expected validation error but got nil")
			}
			if !tc.expectError && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}

// TestValidateThreads tests the worker count bounds.
func TestValidateThreads(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		threads     int
		expectError bool
	}{
		{"ZeroThreads", 0, true},
		{"NegativeThreads", -4, true},
		{"OneThread", 1, false},
		{"ManyThreads", 256, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := AppConfig{
				Digits:  100,
				Threads: tc.threads,
				Timeout: time.Minute,
				Algo:    "all",
			}

			err := cfg.Validate(testAlgos)
			if tc.expectError && err == nil {
				t.Error("Expected validation error but got nil")
			}
			if !tc.expectError && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}

// TestValidateAlgorithm tests algorithm name validation.
func TestValidateAlgorithm(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		algo        string
		expectError bool
	}{
		{"All", "all", false},
		{"BBP", "bbp", false},
		{"Chudnovsky", "chudnovsky", false},
		{"ChudnovskySplit", "chudnovsky-split", false},
		{"Auto", "auto", false},
		{"Unknown", "leibniz", true},
		{"Empty", "", true},
		{"Uppercase", "BBP", true}, // Validate sees the post-parse lowercased value
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := AppConfig{
				Digits:  100,
				Threads: 2,
				Timeout: time.Minute,
				Algo:    tc.algo,
			}

			err := cfg.Validate(testAlgos)
			if tc.expectError && err == nil {
				t.Error("Expected validation error but got nil")
			}
			if !tc.expectError && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}

// TestValidateEmptyAvailableAlgos tests behavior with no registered algorithms.
func TestValidateEmptyAvailableAlgos(t *testing.T) {
	t.Parallel()

	cfg := AppConfig{
		Digits:  100,
		Threads: 2,
		Timeout: time.Minute,
		Algo:    "all",
	}

	// "all" passes regardless of the registry contents
	if err := cfg.Validate([]string{}); err != nil {
		t.Errorf("'all' should validate against an empty registry: %v", err)
	}

	cfg.Algo = "bbp"
	if err := cfg.Validate([]string{}); err == nil {
		t.Error("a named algorithm should fail against an empty registry")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Exhaustive ParseConfig Tests
// ─────────────────────────────────────────────────────────────────────────────

// TestParseConfigDefaults verifies every default value.
func TestParseConfigDefaults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg, err := ParseConfig("test", []string{}, &buf, testAlgos)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Digits != DefaultDigits {
		t.Errorf("Digits = %d, want %d", cfg.Digits, DefaultDigits)
	}
	if cfg.Algo != DefaultAlgo {
		t.Errorf("Algo = %q, want %q", cfg.Algo, DefaultAlgo)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.ChunkSize != pi.DefaultChunkSize {
		t.Errorf("ChunkSize = %d, want %d", cfg.ChunkSize, pi.DefaultChunkSize)
	}
	if cfg.HybridThreshold != pi.DefaultHybridThreshold {
		t.Errorf("HybridThreshold = %d, want %d", cfg.HybridThreshold, pi.DefaultHybridThreshold)
	}
	if cfg.MaxDigits != pi.DefaultMaxDigits {
		t.Errorf("MaxDigits = %d, want %d", cfg.MaxDigits, pi.DefaultMaxDigits)
	}
	if cfg.Verbose || cfg.Details || cfg.Quiet || cfg.Stream || cfg.JSONOutput ||
		cfg.NoColor || cfg.Calibrate || cfg.AutoCalibrate {
		t.Error("boolean flags should default to false")
	}
	if cfg.OutputFile != "" || cfg.CalibrationProfile != "" {
		t.Error("path flags should default to empty")
	}
}

// TestParseConfigAllFlags sets every flag at once.
func TestParseConfigAllFlags(t *testing.T) {
	t.Parallel()

	args := []string{
		"-digits", "777",
		"-threads", "5",
		"-v",
		"-details",
		"-timeout", "90s",
		"-algo", "auto",
		"-chunk-size", "512",
		"-hybrid-threshold", "20000",
		"-max-digits", "1000000",
		"-calibration-profile", "/tmp/profile.json",
		"-json",
		"-no-color",
		"-stream",
		"-output", "result.txt",
		"-quiet",
	}

	var buf bytes.Buffer
	cfg, err := ParseConfig("test", args, &buf, testAlgos)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Digits != 777 || cfg.Threads != 5 || !cfg.Verbose || !cfg.Details {
		t.Errorf("basic flags not applied: %+v", cfg)
	}
	if cfg.Timeout != 90*time.Second || cfg.Algo != "auto" {
		t.Errorf("timeout/algo not applied: %+v", cfg)
	}
	if cfg.ChunkSize != 512 || cfg.HybridThreshold != 20000 || cfg.MaxDigits != 1000000 {
		t.Errorf("tuning flags not applied: %+v", cfg)
	}
	if cfg.CalibrationProfile != "/tmp/profile.json" {
		t.Errorf("CalibrationProfile = %q", cfg.CalibrationProfile)
	}
	if !cfg.JSONOutput || !cfg.NoColor || !cfg.Stream || !cfg.Quiet {
		t.Errorf("boolean flags not applied: %+v", cfg)
	}
	if cfg.OutputFile != "result.txt" {
		t.Errorf("OutputFile = %q", cfg.OutputFile)
	}
}

// TestParseConfigDetailsAlias verifies -d and -details are interchangeable.
func TestParseConfigDetailsAlias(t *testing.T) {
	t.Parallel()

	for _, flagName := range []string{"-d", "-details"} {
		t.Run(flagName, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			cfg, err := ParseConfig("test", []string{flagName}, &buf, testAlgos)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !cfg.Details {
				t.Error("Details should be true")
			}
		})
	}
}

// TestParseConfigInvalidFlags tests rejection of malformed input.
func TestParseConfigInvalidFlags(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
	}{
		{"UnknownFlag", []string{"-bogus"}},
		{"NonNumericDigits", []string{"-digits", "many"}},
		{"NegativeDigits", []string{"-digits", "-5"}},
		{"BadTimeout", []string{"-timeout", "soon"}},
		{"BadThreads", []string{"-threads", "three"}},
		{"BadChunkSize", []string{"-chunk-size", "x"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if _, err := ParseConfig("test", tc.args, &buf, testAlgos); err == nil {
				t.Error("Expected error but got nil")
			}
		})
	}
}

// TestParseConfigAlgoCaseInsensitivity verifies casing is normalized.
func TestParseConfigAlgoCaseInsensitivity(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input string
		want  string
	}{
		{"BBP", "bbp"},
		{"Chudnovsky", "chudnovsky"},
		{"CHUDNOVSKY-SPLIT", "chudnovsky-split"},
		{"Auto", "auto"},
		{"ALL", "all"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			cfg, err := ParseConfig("test", []string{"-algo", tc.input}, &buf, testAlgos)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if cfg.Algo != tc.want {
				t.Errorf("Algo = %q, want %q", cfg.Algo, tc.want)
			}
		})
	}
}

// TestParseConfigValidationErrors verifies validation failures surface usage.
func TestParseConfigValidationErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
	}{
		{"ZeroDigits", []string{"-digits", "0"}},
		{"ZeroThreads", []string{"-threads", "0"}},
		{"ZeroTimeout", []string{"-timeout", "0s"}},
		{"UnknownAlgo", []string{"-algo", "leibniz"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			_, err := ParseConfig("test", tc.args, &buf, testAlgos)
			if err == nil {
				t.Fatal("Expected error but got nil")
			}
			if !strings.Contains(buf.String(), "Configuration error") {
				t.Error("expected the configuration error to be printed to the writer")
			}
		})
	}
}

// TestParseConfigTimeoutFormats tests accepted duration syntaxes.
func TestParseConfigTimeoutFormats(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input string
		want  time.Duration
	}{
		{"30s", 30 * time.Second},
		{"5m", 5 * time.Minute},
		{"1h30m", 90 * time.Minute},
		{"100ms", 100 * time.Millisecond},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			cfg, err := ParseConfig("test", []string{"-timeout", tc.input}, &buf, testAlgos)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if cfg.Timeout != tc.want {
				t.Errorf("Timeout = %v, want %v", cfg.Timeout, tc.want)
			}
		})
	}
}

// TestParseConfigHelpFlag tests that -h/-help returns flag.ErrHelp.
func TestParseConfigHelpFlag(t *testing.T) {
	t.Parallel()

	helpFlags := []string{"-h", "-help", "--help"}

	for _, flagName := range helpFlags {
		t.Run(flagName, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			_, err := ParseConfig("test", []string{flagName}, &buf, testAlgos)
			if err == nil {
				t.Error("Expected error for help flag")
			}
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Tests
// ─────────────────────────────────────────────────────────────────────────────

// TestNoColorFlag tests that -no-color flag exists and works.
func TestNoColorFlag(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cfg, err := ParseConfig("test", []string{"-no-color"}, &buf, testAlgos)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !cfg.NoColor {
		t.Error("NoColor should be true")
	}
}

// TestParseConfigWithEnvironment tests config in presence of the plain
// NO_COLOR variable. The ui package honors NO_COLOR; the config package only
// reads PICALC_-prefixed variables.
func TestParseConfigWithEnvironment(t *testing.T) {
	oldVal := os.Getenv("NO_COLOR")
	defer os.Setenv("NO_COLOR", oldVal)

	os.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	cfg, err := ParseConfig("test", []string{}, &buf, testAlgos)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.NoColor {
		t.Error("Config NoColor should be false (unprefixed NO_COLOR is handled by ui)")
	}
}

// TestEnvBoolParsing tests the accepted boolean spellings.
func TestEnvBoolParsing(t *testing.T) {
	testCases := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"gibberish", false}, // unparseable keeps the default
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			os.Setenv("PICALC_STREAM", tc.value)
			defer os.Unsetenv("PICALC_STREAM")

			var buf bytes.Buffer
			cfg, err := ParseConfig("test", []string{}, &buf, testAlgos)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if cfg.Stream != tc.want {
				t.Errorf("PICALC_STREAM=%q: Stream = %v, want %v", tc.value, cfg.Stream, tc.want)
			}
		})
	}
}

// TestEnvInvalidNumbersKeepDefaults tests that malformed numeric env values
// fall back to the defaults instead of failing the parse.
func TestEnvInvalidNumbersKeepDefaults(t *testing.T) {
	os.Setenv("PICALC_DIGITS", "not-a-number")
	os.Setenv("PICALC_THREADS", "π")
	defer func() {
		os.Unsetenv("PICALC_DIGITS")
		os.Unsetenv("PICALC_THREADS")
	}()

	var buf bytes.Buffer
	cfg, err := ParseConfig("test", []string{}, &buf, testAlgos)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Digits != DefaultDigits {
		t.Errorf("Digits = %d, want the %d default", cfg.Digits, DefaultDigits)
	}
	if cfg.Threads <= 0 {
		t.Errorf("Threads = %d, want the CPU-count default", cfg.Threads)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Boundary Value Tests
// ─────────────────────────────────────────────────────────────────────────────

// TestParseConfigBoundaryValues tests edge cases for numeric values.
func TestParseConfigBoundaryValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		args        []string
		expectError bool
	}{
		{"OneDigit", []string{"-digits", "1"}, false},
		{"ChunkSizeZero", []string{"-chunk-size", "0"}, false},
		{"HybridThresholdZero", []string{"-hybrid-threshold", "0"}, false},
		{"DigitsZero", []string{"-digits", "0"}, true},
		{"TimeoutMinimum", []string{"-timeout", "1ns"}, false},
		{"DigitsAboveCap", []string{"-digits", "200", "-max-digits", "100"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			_, err := ParseConfig("test", tc.args, &buf, testAlgos)
			if tc.expectError && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tc.expectError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
