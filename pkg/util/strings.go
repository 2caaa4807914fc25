package util

import "strconv"

// ParseIntDefault falls back to def when s is empty or not an integer.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
