// Package hints provides actionable error hints for common failure
// scenarios. Hints are formatted consistently as "\n  hint: <text>" for
// appending to error messages.
package hints

import "strings"

// ForInputNotFound returns hints for a missing input file.
func ForInputNotFound() string {
	return format("check the path; input must be a markdown file (.md, .markdown) or a directory")
}

// ForConfigNotFound returns hints for config file not found errors.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-mdsanitize") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output write errors.
func ForOutputDirectory() string {
	return format("check the destination directory exists and is writable")
}

// ForVerifyFailure returns hints for a failed verification compile.
func ForVerifyFailure() string {
	return format("the sanitized file was kept; inspect the reported math region or rerun without --verify")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
