package utils

import (
	"strings"
)

// strips surrounding spaces, collapses inner runs of whitespace
func CleanupString(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
