package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/picalc/internal/config"
	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/orchestration"
	"github.com/agbru/picalc/internal/pi"
	"github.com/agbru/picalc/internal/testutil"
)

// Helper to create a test factory with mocked calculator
func createMockFactory(result *pi.Approximation, err error) *pi.TestFactory {
	mockCalc := &pi.MockCalculator{
		Result: result,
		Err:    err,
	}
	// Pre-populate with common algorithms to allow tests to "Get" them
	calcs := map[string]pi.Calculator{
		"bbp":        mockCalc,
		"chudnovsky": mockCalc,
		"auto":       mockCalc,
	}
	return pi.NewTestFactory(calcs)
}

// baseConfig returns a config suitable for fast test runs.
func baseConfig() config.AppConfig {
	return config.AppConfig{
		Digits:  20,
		Threads: 2,
		Algo:    "chudnovsky",
		Timeout: time.Minute,
		NoColor: true,
	}
}

// TestNew tests the New function for creating Application instances.
func TestNew(t *testing.T) {
	t.Parallel()
	t.Run("Valid args create application", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		args := []string{"picalc", "-digits", "100"}

		app, err := New(args, &errBuf)

		if err != nil {
			t.Fatalf("New() returned unexpected error: %v", err)
		}
		if app == nil {
			t.Fatal("New() returned nil application")
		}
		if app.Config.Digits != 100 {
			t.Errorf("Expected Digits=100, got Digits=%d", app.Config.Digits)
		}
		if app.Factory == nil {
			t.Error("Factory should not be nil")
		}
	})

	t.Run("Invalid args return error", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		args := []string{"picalc", "-invalid-flag"}

		app, err := New(args, &errBuf)

		if err == nil {
			t.Error("New() should return error for invalid args")
		}
		if app != nil {
			t.Error("New() should return nil application on error")
		}
	})

	t.Run("Help flag returns error", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		args := []string{"picalc", "-h"}

		_, err := New(args, &errBuf)

		if err == nil {
			t.Error("New() should return error for help flag")
		}
		if !IsHelpError(err) {
			t.Error("Error should be a help error")
		}
	})

	t.Run("Empty args slice handled correctly", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		args := []string{}

		app, err := New(args, &errBuf)

		// Empty args should still work - it will use the default program
		// name and empty command args, which should parse to default config
		if err != nil {
			t.Errorf("New() should handle empty args without error, got: %v", err)
		}
		if app == nil {
			t.Fatal("New() should return application even with empty args")
		}
		if app.Config.Digits != config.DefaultDigits {
			t.Errorf("Expected default Digits=%d, got Digits=%d", uint64(config.DefaultDigits), app.Config.Digits)
		}
	})
}

// TestApplicationRun tests the Application.Run method.
func TestApplicationRun(t *testing.T) {
	t.Parallel()
	successFactory := createMockFactory(pi.MockApproximation(20), nil)

	t.Run("Simple execution with success", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		cfg := baseConfig()
		cfg.Details = true
		app := &Application{
			Config:    cfg,
			Factory:   successFactory,
			ErrWriter: &bytes.Buffer{},
		}

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
		}
		output := testutil.StripAnsiCodes(outBuf.String())
		if !strings.Contains(output, "Global Status: Success") {
			t.Errorf("Output should report success, got:\n%s", output)
		}
	})

	t.Run("Computation failure returns error code", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		failFactory := createMockFactory(nil, errors.New("boom"))
		app := &Application{
			Config:    baseConfig(),
			Factory:   failFactory,
			ErrWriter: &bytes.Buffer{},
		}

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode == apperrors.ExitSuccess {
			t.Error("Expected non-zero exit code for failed computation")
		}
	})

	t.Run("Unknown algorithm returns config error", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		cfg := baseConfig()
		cfg.Algo = "does-not-exist"
		app := &Application{
			Config:    cfg,
			Factory:   successFactory,
			ErrWriter: &bytes.Buffer{},
		}

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitErrorConfig {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorConfig, exitCode)
		}
	})

	t.Run("Quiet mode prints bare digits", func(t *testing.T) {
		t.Parallel()
		var outBuf bytes.Buffer
		cfg := baseConfig()
		cfg.Quiet = true
		app := &Application{
			Config:    cfg,
			Factory:   successFactory,
			ErrWriter: &bytes.Buffer{},
		}

		exitCode := app.Run(context.Background(), &outBuf)

		if exitCode != apperrors.ExitSuccess {
			t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
		}
		output := testutil.StripAnsiCodes(outBuf.String())
		if !strings.Contains(output, "3.") {
			t.Errorf("Quiet output should contain digits, got:\n%s", output)
		}
		if strings.Contains(output, "Execution Configuration") {
			t.Error("Quiet output should not contain the configuration banner")
		}
	})
}

func TestIsHelpError(t *testing.T) {
	t.Parallel()
	if !IsHelpError(flag.ErrHelp) {
		t.Error("flag.ErrHelp should be a help error")
	}
	if IsHelpError(errors.New("other")) {
		t.Error("Arbitrary errors should not be help errors")
	}
	if IsHelpError(nil) {
		t.Error("nil should not be a help error")
	}
}

func TestPrintJSONResults(t *testing.T) {
	t.Parallel()
	results := []orchestration.ComputationResult{
		{
			Name:     "chudnovsky",
			Result:   pi.MockApproximation(10),
			Duration: 5 * time.Millisecond,
		},
		{
			Name:     "bbp",
			Err:      errors.New("boom"),
			Duration: time.Millisecond,
		},
	}

	var outBuf bytes.Buffer
	exitCode := printJSONResults(results, &outBuf)
	if exitCode != apperrors.ExitSuccess {
		t.Fatalf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(outBuf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("Expected 2 JSON records, got %d", len(decoded))
	}
	if decoded[0]["algorithm"] != "chudnovsky" {
		t.Errorf("First record algorithm = %v", decoded[0]["algorithm"])
	}
	if res, _ := decoded[0]["result"].(string); !strings.HasPrefix(res, "3.14159") {
		t.Errorf("First record result should hold digits, got %v", decoded[0]["result"])
	}
	if decoded[1]["error"] != "boom" {
		t.Errorf("Second record error = %v", decoded[1]["error"])
	}
}

func TestJSONOutputMode(t *testing.T) {
	t.Parallel()
	var outBuf bytes.Buffer
	cfg := baseConfig()
	cfg.JSONOutput = true
	app := &Application{
		Config:    cfg,
		Factory:   createMockFactory(pi.MockApproximation(20), nil),
		ErrWriter: &bytes.Buffer{},
	}

	exitCode := app.Run(context.Background(), &outBuf)

	if exitCode != apperrors.ExitSuccess {
		t.Fatalf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(outBuf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSON mode output is not valid JSON: %v\n%s", err, outBuf.String())
	}
}

func TestRunAutoCalibrationDisabled(t *testing.T) {
	t.Parallel()
	cfg := baseConfig()
	cfg.AutoCalibrate = false
	cfg.ChunkSize = 777
	app := &Application{
		Config:    cfg,
		Factory:   createMockFactory(pi.MockApproximation(20), nil),
		ErrWriter: &bytes.Buffer{},
	}

	updated := app.runAutoCalibrationIfEnabled(context.Background(), &bytes.Buffer{})
	if updated.ChunkSize != 777 {
		t.Errorf("Config should be unchanged when auto-calibration is disabled, got chunk size %d", updated.ChunkSize)
	}
}

func TestMultipleAlgorithms(t *testing.T) {
	t.Parallel()
	var outBuf bytes.Buffer
	cfg := baseConfig()
	cfg.Algo = "all"
	app := &Application{
		Config:    cfg,
		Factory:   createMockFactory(pi.MockApproximation(20), nil),
		ErrWriter: &bytes.Buffer{},
	}

	exitCode := app.Run(context.Background(), &outBuf)

	if exitCode != apperrors.ExitSuccess {
		t.Errorf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
	}
	output := testutil.StripAnsiCodes(outBuf.String())
	if !strings.Contains(output, "Parallel comparison of all algorithms") {
		t.Errorf("Output should mention comparison mode, got:\n%s", output)
	}
}

func TestApplyAdaptiveTuning(t *testing.T) {
	t.Parallel()
	t.Run("Defaults get adapted", func(t *testing.T) {
		t.Parallel()
		cfg := baseConfig()
		cfg.ChunkSize = pi.DefaultChunkSize
		cfg.HybridThreshold = pi.DefaultHybridThreshold

		updated := applyAdaptiveTuning(cfg)

		if updated.ChunkSize == 0 {
			t.Error("Adaptive chunk size should be positive")
		}
		if updated.HybridThreshold == 0 {
			t.Error("Adaptive hybrid threshold should be positive")
		}
	})

	t.Run("Explicit overrides preserved", func(t *testing.T) {
		t.Parallel()
		cfg := baseConfig()
		cfg.ChunkSize = 999
		cfg.HybridThreshold = 888

		updated := applyAdaptiveTuning(cfg)

		if updated.ChunkSize != 999 {
			t.Errorf("User chunk size should be preserved, got %d", updated.ChunkSize)
		}
		if updated.HybridThreshold != 888 {
			t.Errorf("User hybrid threshold should be preserved, got %d", updated.HybridThreshold)
		}
	})
}

func TestAnalyzeResultsWithOutputFile(t *testing.T) {
	t.Parallel()
	tmpDir, err := os.MkdirTemp("", "picalc_app_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	outPath := filepath.Join(tmpDir, "pi_out.txt")

	var outBuf bytes.Buffer
	cfg := baseConfig()
	cfg.Quiet = true
	cfg.OutputFile = outPath
	app := &Application{
		Config:    cfg,
		Factory:   createMockFactory(pi.MockApproximation(20), nil),
		ErrWriter: &bytes.Buffer{},
	}

	exitCode := app.Run(context.Background(), &outBuf)
	if exitCode != apperrors.ExitSuccess {
		t.Fatalf("Expected exit code %d, got %d", apperrors.ExitSuccess, exitCode)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Output file was not written: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "# Pi Computation Result") {
		t.Error("Output file should contain the header")
	}
	if !strings.Contains(content, "3.") {
		t.Error("Output file should contain digits")
	}
}

func TestSetupSignals(t *testing.T) {
	t.Parallel()
	ctx, cancel := SetupSignals(context.Background())
	defer cancel()

	select {
	case <-ctx.Done():
		t.Error("Signal context should not be done immediately")
	default:
	}
}

func TestSetupLifecycle(t *testing.T) {
	t.Parallel()
	ctx, cancels := SetupLifecycle(context.Background(), 10*time.Millisecond)
	defer cancels.Cleanup()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Error("Lifecycle context should expire after the timeout")
	}
}
