package slogging

import "strings"

// SanitizeLogMessage removes newlines and other control characters from log messages
func SanitizeLogMessage(message string) string {
	message = strings.ReplaceAll(message, "\n", " ")
	message = strings.ReplaceAll(message, "\r", " ")
	message = strings.ReplaceAll(message, "\t", " ")

	// Collapse multiple spaces into one and trim whitespace
	return strings.TrimSpace(strings.Join(strings.Fields(message), " "))
}
