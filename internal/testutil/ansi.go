// Package testutil provides shared helpers for the project's tests.
package testutil

import "regexp"

// csiRegex matches ANSI Control Sequence Introducer sequences: ESC [ followed
// by parameter bytes and a final letter. Covers the color and cursor codes the
// CLI emits.
var csiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes returns s with every ANSI escape sequence removed, so tests
// can assert on CLI output regardless of the active color theme.
//
// Parameters:
//   - s: The string potentially containing ANSI escape codes.
//
// Returns:
//   - string: The input with all escape sequences removed.
func StripAnsiCodes(s string) string {
	return csiRegex.ReplaceAllString(s, "")
}
