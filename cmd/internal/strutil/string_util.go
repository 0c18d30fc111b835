package strutil

import "strings"

// DefaultIfEmpty returns defaultValue when input is empty or only whitespace.
func DefaultIfEmpty(input string, defaultValue string) string {
	if strings.TrimSpace(input) == "" {
		return defaultValue
	}

	return input
}
