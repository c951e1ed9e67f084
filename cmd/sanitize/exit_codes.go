package main

import (
	"errors"
	"os"

	mdsanitize "github.com/alnah/go-mdsanitize"
	"github.com/alnah/go-mdsanitize/internal/config"
	"github.com/alnah/go-mdsanitize/internal/pipeline"
)

// Exit codes for the sanitize CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, custom codes < 126.
const (
	ExitSuccess = 0 // Successful sanitization
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitVerify  = 4 // Verification compile rejected the output
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must wrap with
// fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, pipeline.ErrCompile) {
		return ExitVerify
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, mdsanitize.ErrInputNotFound) ||
		errors.Is(err, mdsanitize.ErrReadInput) ||
		errors.Is(err, mdsanitize.ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidSuffix) ||
		errors.Is(err, config.ErrInvalidWorkers) ||
		errors.Is(err, config.ErrInvalidCommandName) ||
		errors.Is(err, mdsanitize.ErrSameOutput) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) {
		return ExitUsage
	}

	return ExitGeneral
}
