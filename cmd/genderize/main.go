package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alnah/go-genderize/internal/apierr"
	"github.com/alnah/go-genderize/internal/batch"
	"github.com/alnah/go-genderize/internal/classify"
	"github.com/alnah/go-genderize/internal/cli"
	"github.com/alnah/go-genderize/internal/config"
	"github.com/alnah/go-genderize/internal/infer"
	"github.com/alnah/go-genderize/internal/table"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitSetup      = 3
	ExitValidation = 4
	ExitClassifier = 5
	ExitInterrupt  = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	env := cli.DefaultEnv()

	rootCmd := &cobra.Command{
		Use:     "genderize",
		Short:   "Annotate tables with a predicted gender per name",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(cli.InferCmd(env))
	rootCmd.AddCommand(cli.ConfigCmd(env))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to process exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	// Setup errors: credentials and provider selection.
	if errors.Is(err, cli.ErrAPIKeyMissing) || errors.Is(err, cli.ErrInvalidProvider) {
		return ExitSetup
	}

	// Validation errors: input, output and settings problems found before or
	// without talking to a classifier.
	if errors.Is(err, table.ErrUnsupportedFormat) || errors.Is(err, table.ErrMalformed) ||
		errors.Is(err, table.ErrColumnNotFound) || errors.Is(err, table.ErrColumnExists) ||
		errors.Is(err, cli.ErrFileNotFound) || errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, batch.ErrInvalidSize) || errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrUnknownKey) {
		return ExitValidation
	}

	// Classifier errors.
	if errors.Is(err, apierr.ErrRateLimit) || errors.Is(err, apierr.ErrQuotaExceeded) ||
		errors.Is(err, apierr.ErrTimeout) || errors.Is(err, apierr.ErrAuthFailed) ||
		errors.Is(err, apierr.ErrBadRequest) || errors.Is(err, apierr.ErrUnavailable) ||
		errors.Is(err, classify.ErrMalformedResponse) || errors.Is(err, infer.ErrAlignment) {
		return ExitClassifier
	}

	// Usage errors come last: their patterns can also match text relayed
	// from a classifier.
	if isCobraUsageError(err) {
		return ExitUsage
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// Cobra doesn't expose typed errors, so string matching is the only reliable approach.
var cobraUsageErrorPatterns = []string{
	"required flag",
	"unknown flag",
	"unknown shorthand",
	"unknown command",
	"flag needs an argument",
	"invalid argument",
	"accepts ",
	"requires at least",
	"requires at most",
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
