package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// lookupEnv treats blank values the same as unset ones.
func lookupEnv(key string) (string, bool) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// GetEnvAsInt retrieves an environment variable and converts it to an integer
func GetEnvAsInt(key string, defaultVal int) int {
	if value, ok := lookupEnv(key); ok {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultVal
}

// GetEnvAsInt64 retrieves an environment variable and converts it to int64
func GetEnvAsInt64(key string, defaultVal int64) int64 {
	if value, ok := lookupEnv(key); ok {
		if result, err := strconv.ParseInt(value, 10, 64); err == nil {
			return result
		}
	}
	return defaultVal
}

// GetEnvAsUint64 retrieves an environment variable and converts it to uint64
func GetEnvAsUint64(key string, defaultVal uint64) uint64 {
	if value, ok := lookupEnv(key); ok {
		if result, err := strconv.ParseUint(value, 10, 64); err == nil {
			return result
		}
	}
	return defaultVal
}

// GetEnvAsDuration accepts Go duration strings ("90s", "1m") and bare seconds ("60").
func GetEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	value, ok := lookupEnv(key)
	if !ok {
		return defaultVal
	}
	if result, err := time.ParseDuration(value); err == nil {
		return result
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}

// GetEnvAsBool retrieves an environment variable and converts it to boolean
func GetEnvAsBool(key string, defaultVal bool) bool {
	if value, ok := lookupEnv(key); ok {
		if result, err := strconv.ParseBool(value); err == nil {
			return result
		}
	}
	return defaultVal
}

// GetEnvAsString retrieves an environment variable or returns a default value
func GetEnvAsString(key string, defaultVal string) string {
	if value, ok := lookupEnv(key); ok {
		return value
	}
	return defaultVal
}
