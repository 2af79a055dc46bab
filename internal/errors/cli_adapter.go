package errors

import (
	"log/slog"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if ee, ok := err.(*EdgeError); ok {
		return a.exitCodeFromEdgeError(ee)
	}

	return 1
}

// exitCodeFromEdgeError maps EdgeError categories to exit codes.
func (a *CLIErrorAdapter) exitCodeFromEdgeError(err *EdgeError) int {
	switch err.Category {
	case CategoryLoad, CategoryDimension:
		return 2 // Unusable input image
	case CategoryConfig, CategoryValidation:
		return 3 // Configuration error
	case CategorySave:
		return 4 // Output error
	case CategoryOperator:
		return 5 // Unknown or unavailable operator
	case CategoryHistory, CategoryWatch:
		return 6 // Auxiliary service error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// Report logs the error with its structured context before the CLI exits.
func (a *CLIErrorAdapter) Report(err error) {
	if err == nil {
		return
	}
	ee, ok := err.(*EdgeError)
	if !ok {
		a.logger.Error("command failed", "error", err)
		return
	}

	attrs := []any{"category", ee.Category, "error", ee.Message}
	if ee.Cause != nil && a.verbose {
		attrs = append(attrs, "cause", ee.Cause)
	}
	for k, v := range ee.Context {
		attrs = append(attrs, k, v)
	}
	a.logger.Error("command failed", attrs...)
}
