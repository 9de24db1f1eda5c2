// Package utils provides shared utilities for text and logging.
package utils

import "strings"

// Truncate returns s truncated to maxLen bytes, with "..." appended if
// truncated. If maxLen is 0 or negative, returns s unchanged. Truncation
// backs up to a rune boundary so multi-byte text is never split mid-rune.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// FoldTrim normalizes a string for comparison: lowercased with surrounding
// whitespace removed.
func FoldTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
