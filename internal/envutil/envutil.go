package envutil

import "os"

// Get retrieves an environment variable with automatic BILLING_ prefix fallback.
// It checks for the environment variable in this order:
// 1. Exact key as provided
// 2. Key with BILLING_ prefix
// 3. Returns fallback if neither exists
//
// This supports both platform-style (BILLING_ prefixed) and local dev (unprefixed) configurations.
func Get(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	if len(key) < 8 || key[:8] != "BILLING_" {
		if value, exists := os.LookupEnv("BILLING_" + key); exists {
			return value
		}
	}

	return fallback
}

// Require retrieves an environment variable (with BILLING_ prefix fallback)
// and reports whether it was set to a non-empty value.
func Require(key string) (string, bool) {
	value := Get(key, "")
	return value, value != ""
}
