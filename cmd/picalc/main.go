// Command picalc computes π to an arbitrary number of decimal digits using
// several independent algorithms, optionally running them concurrently and
// cross-checking their digits.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/agbru/picalc/internal/app"
	apperrors "github.com/agbru/picalc/internal/errors"
)

func main() {
	os.Exit(run())
}

// run creates and executes the application, returning its exit code.
// Kept separate from main so deferred cleanup runs before os.Exit.
func run() int {
	// Handle --version in any position before flag parsing
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return apperrors.ExitSuccess
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			return apperrors.ExitSuccess
		}
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	return application.Run(context.Background(), os.Stdout)
}
