package mdsanitize

import "errors"

// Sentinel errors for library operations. Content problems never surface
// here; malformed math is repaired or passed through with a warning. These
// errors cover the environment: paths, permissions, destinations.
var (
	ErrInputNotFound = errors.New("input file not found")
	ErrReadInput     = errors.New("failed to read input file")
	ErrWriteOutput   = errors.New("failed to write output file")
	ErrSameOutput    = errors.New("output path must differ from input path")
)
