package cli

import (
	"os"
	"testing"

	"github.com/agbru/picalc/internal/ui"
)

func TestCLIColorProvider(t *testing.T) {
	// Save and temporarily unset NO_COLOR to test with colors enabled.
	// InitTheme respects the NO_COLOR environment variable (per no-color.org),
	// which may be set in the test environment.
	noColorVal, hadNoColor := os.LookupEnv("NO_COLOR")
	if hadNoColor {
		os.Unsetenv("NO_COLOR")
		defer os.Setenv("NO_COLOR", noColorVal)
	}

	ui.InitTheme(false)

	provider := CLIColorProvider{}

	if provider.Yellow() == "" {
		t.Error("Yellow should return a color code when colors are enabled")
	}
	_ = provider.Reset()

	ui.InitTheme(true)
	if provider.Yellow() != "" {
		t.Error("Yellow should be empty when NoColor is true")
	}
	if provider.Reset() != "" {
		t.Error("Reset should be empty when NoColor is true")
	}
}
