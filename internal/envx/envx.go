// Package envx holds small helpers for reading typed configuration values
// from the environment with defaults.
package envx

import (
	"os"
	"strconv"
	"time"
)

// String returns the value of key, or def when unset or empty.
func String(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Bool returns the boolean value of key, or def when unset or unparsable.
func Bool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// Int returns the integer value of key, or def when unset or unparsable.
func Int(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// Int64 returns the int64 value of key, or def when unset or unparsable.
func Int64(key string, def int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return def
	}
	return v
}

// Float returns the float value of key, or def when unset or unparsable.
func Float(key string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return def
	}
	return v
}

// Duration returns the duration value of key (Go duration syntax), or def
// when unset or unparsable.
func Duration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
