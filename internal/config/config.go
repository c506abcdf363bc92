// Package config provides the configuration management for the picalc application.
// It defines the data structure for the configuration, handles the parsing of
// command-line arguments, and performs validation on the configuration values.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/pi"
)

const (
	// EnvPrefix is the prefix for all environment variables used by picalc.
	// Environment variables provide an alternative to CLI flags for configuration,
	// following the 12-Factor App methodology.
	EnvPrefix = "PICALC_"
)

// Default configuration values.
// These can be overridden via command-line flags or environment variables.
const (
	// DefaultDigits is the default number of fractional digits to compute.
	DefaultDigits uint64 = 10_000
	// DefaultTimeout is the default computation timeout.
	DefaultTimeout = 5 * time.Minute
	// DefaultAlgo is the default algorithm selection.
	DefaultAlgo = "all"
)

// AppConfig aggregates the application's configuration parameters, parsed from
// command-line flags. It encapsulates all settings that control the execution,
// from the requested digit count to performance-tuning parameters.
type AppConfig struct {
	// Digits is the number of fractional decimal digits to compute.
	Digits uint64
	// Threads is the number of worker goroutines for term evaluation.
	// Defaults to the host's logical core count.
	Threads int
	// Verbose, if true, instructs the application to display the full digit output.
	Verbose bool
	// Details, if true, provides a detailed report including performance metrics.
	Details bool
	// Timeout sets the maximum duration for the computation.
	Timeout time.Duration
	// Algo specifies the algorithm to use ("all", "bbp", "chudnovsky", etc.).
	Algo string
	// ChunkSize is the number of term indices claimed per work-stealing
	// acquisition. 0 uses the engine default.
	ChunkSize uint64
	// HybridThreshold is the digit count above which the auto strategy
	// switches to binary splitting. 0 uses the engine default.
	HybridThreshold uint64
	// MaxDigits caps the accepted digit count. 0 uses the engine default.
	MaxDigits uint64
	// Calibrate, if true, runs the application in calibration mode to find
	// the optimal chunk size and hybrid threshold.
	Calibrate bool
	// AutoCalibrate, if true, runs a short automatic calibration at startup
	// to refine ChunkSize and HybridThreshold for the current machine.
	AutoCalibrate bool
	// CalibrationProfile is the path to a calibration profile file.
	// If set, the application will load/save calibration results from/to this file.
	// If empty, uses the default path (~/.picalc_calibration.json).
	CalibrationProfile string
	// JSONOutput, if true, outputs the result in JSON format.
	JSONOutput bool
	// NoColor, if true, disables all color output in the CLI.
	// Also respects the NO_COLOR environment variable.
	NoColor bool
	// Stream, if true, renders digits in streaming mode (flat memory) instead
	// of chunked conversion.
	Stream bool

	// OutputFile, if specified, saves the result to this file path.
	OutputFile string
	// Quiet mode - minimal output for scripting purposes.
	// Suppresses progress bars, banners, and informational messages.
	Quiet bool
}

// ToComputationOptions converts the application configuration into
// pi.Options for use by the calculators.
func (c AppConfig) ToComputationOptions() pi.Options {
	return pi.Options{
		Threads:         c.Threads,
		ChunkSize:       c.ChunkSize,
		MaxDigits:       c.MaxDigits,
		HybridThreshold: c.HybridThreshold,
	}
}

// Validate checks the semantic consistency of the configuration parameters.
// It ensures that numerical values are within valid ranges and that the chosen
// algorithm is supported.
//
// Parameters:
//   - availableAlgos: A slice of strings listing the valid algorithm names
//     (e.g., ["bbp", "chudnovsky"]).
//
// Returns:
//   - error: An error of type ConfigError if the configuration is invalid,
//     nil otherwise.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Digits == 0 {
		return apperrors.NewConfigError("digit count must be strictly positive")
	}
	maxDigits := c.MaxDigits
	if maxDigits == 0 {
		maxDigits = pi.DefaultMaxDigits
	}
	if c.Digits > maxDigits {
		return apperrors.NewConfigError("digit count %d exceeds the maximum of %d", c.Digits, maxDigits)
	}
	if c.Threads <= 0 {
		return apperrors.NewConfigError("thread count must be strictly positive: %d", c.Threads)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	isAlgoAvailable := false
	for _, a := range availableAlgos {
		if a == c.Algo {
			isAlgoAvailable = true
			break
		}
	}
	if c.Algo != "all" && !isAlgoAvailable {
		return apperrors.NewConfigError("unrecognized algorithm: '%s'. Valid algorithms are: 'all' or [%s]", c.Algo, strings.Join(availableAlgos, ", "))
	}
	return nil
}

// ParseConfig parses the command-line arguments and populates an AppConfig
// struct. It defines all the command-line flags, sets their default values, and
// handles the parsing process. After parsing, it performs validation on the
// resulting configuration.
//
// The function is designed to be testable by allowing the input arguments and
// output writer to be specified.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: A slice of strings representing the command-line arguments
//     (typically os.Args[1:]).
//   - errorWriter: An io.Writer where parsing errors and usage information
//     will be printed.
//   - availableAlgos: A slice of valid algorithm names for validation.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: An error if flag parsing fails or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Algorithm to use: 'all' (default) or one of [%s].", strings.Join(availableAlgos, ", "))

	config := AppConfig{}
	fs.Uint64Var(&config.Digits, "digits", DefaultDigits, "Number of fractional decimal digits to compute.")
	fs.Uint64Var(&config.Digits, "n", DefaultDigits, "Number of digits (shorthand).")
	fs.IntVar(&config.Threads, "threads", runtime.NumCPU(), "Number of worker goroutines for term evaluation.")
	fs.BoolVar(&config.Verbose, "v", false, "Display the full digit output (can be very long).")
	fs.BoolVar(&config.Details, "d", false, "Display performance details and result metadata.")
	fs.BoolVar(&config.Details, "details", false, "Alias for -d.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for the computation.")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.Uint64Var(&config.ChunkSize, "chunk-size", pi.DefaultChunkSize, "Term indices claimed per work-stealing acquisition.")
	fs.Uint64Var(&config.HybridThreshold, "hybrid-threshold", pi.DefaultHybridThreshold, "Digit count above which 'auto' switches to binary splitting.")
	fs.Uint64Var(&config.MaxDigits, "max-digits", pi.DefaultMaxDigits, "Upper bound on the accepted digit count.")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Runs calibration mode to determine the optimal chunk size and hybrid threshold.")
	fs.BoolVar(&config.AutoCalibrate, "auto-calibrate", false, "Enables quick automatic calibration at startup (may increase loading time).")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Path to calibration profile file (default: ~/.picalc_calibration.json).")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.BoolVar(&config.Stream, "stream", false, "Render digits in streaming mode (flat memory footprint).")

	fs.StringVar(&config.OutputFile, "output", "", "Output file path for the result.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	// Apply environment variable overrides for flags not explicitly set
	applyEnvOverrides(&config, fs)

	config.Algo = strings.ToLower(config.Algo)
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	return config, nil
}
