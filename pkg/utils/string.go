package utils

// Truncate shortens s to maxLen bytes with a trailing ellipsis. A
// non-positive maxLen returns just the ellipsis.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
