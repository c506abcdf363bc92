// Output utilities for exporting computation results.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/picalc/internal/pi"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// Quiet mode suppresses verbose output.
	Quiet bool
	// Verbose shows the full result value.
	Verbose bool
	// Details enables the detailed execution metrics display.
	Details bool
	// Stream selects the digit-at-a-time extraction path when writing digits.
	// Off by default because the chunked path is much faster for large runs;
	// both produce identical bytes.
	Stream bool
}

// DefaultOutputPath returns the conventional file name for a digit count,
// for example "pi_1000_digits.txt".
//
// Parameters:
//   - digits: The number of fractional digits in the result.
//
// Returns:
//   - string: The default output file name.
func DefaultOutputPath(digits uint64) string {
	return fmt.Sprintf("pi_%d_digits.txt", digits)
}

// WriteResultToFile writes a computation result to a file.
// The file starts with a commented header describing the run, followed by the
// formatted digits (50 per line, space-grouped by 10).
//
// Parameters:
//   - result: The computed approximation.
//   - duration: The computation duration.
//   - algo: The algorithm name used.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultToFile(result *pi.Approximation, duration time.Duration, algo string, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	// Ensure directory exists
	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	// Write header
	fmt.Fprintf(w, "# Pi Computation Result\n")
	fmt.Fprintf(w, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(w, "# Algorithm: %s\n", algo)
	fmt.Fprintf(w, "# Duration: %s\n", duration)
	fmt.Fprintf(w, "# Digits: %d\n", result.Digits())
	fmt.Fprintf(w, "\n")

	if config.Stream {
		err = result.WriteFormatted(w)
	} else {
		err = result.WriteFormattedChunked(w)
	}
	if err != nil {
		return fmt.Errorf("failed to write digits: %w", err)
	}
	fmt.Fprintln(w)

	return w.Flush()
}

// FormatQuietResult formats a result for quiet mode output.
// Returns the bare formatted digits suitable for scripting.
//
// Parameters:
//   - result: The computed approximation.
//
// Returns:
//   - string: The formatted result string.
func FormatQuietResult(result *pi.Approximation) string {
	return result.Text()
}

// DisplayQuietResult outputs a result in quiet mode (minimal output).
//
// Parameters:
//   - out: The output writer.
//   - result: The computed approximation.
func DisplayQuietResult(out io.Writer, result *pi.Approximation) {
	fmt.Fprintln(out, FormatQuietResult(result))
}

// DisplayResultWithConfig displays a result with the given output configuration.
// This is a unified function that handles all output modes.
//
// Parameters:
//   - out: The output writer.
//   - result: The computed approximation.
//   - duration: The computation duration.
//   - algo: The algorithm name.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if file output fails.
func DisplayResultWithConfig(out io.Writer, result *pi.Approximation, duration time.Duration, algo string, config OutputConfig) error {
	// Handle quiet mode
	if config.Quiet {
		DisplayQuietResult(out, result)
	} else {
		DisplayResult(result, duration, config.Verbose, config.Details, out)
	}

	// Save to file if requested
	if config.OutputFile != "" {
		if err := WriteResultToFile(result, duration, algo, config); err != nil {
			return err
		}
		if !config.Quiet {
			fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
				ColorGreen(), ColorCyan(), config.OutputFile, ColorReset())
		}
	}

	return nil
}
