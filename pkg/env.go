package pkg

import (
	"fmt"
	"os"
	"strings"
)

// RequiredEnv reads the given environment variables and fails on the first missing one
func RequiredEnv(keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		val := strings.TrimSpace(os.Getenv(key))
		if val == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", key)
		}
		values[key] = val
	}
	return values, nil
}

// EnvOrDefault returns the env var value, or the fallback when it is unset
func EnvOrDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
