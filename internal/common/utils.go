package common

import "strings"

// Head returns at most the first n elements of rows. A negative n keeps everything.
func Head[T any](rows []T, n int) []T {
	if n < 0 || len(rows) <= n {
		return rows
	}
	return rows[:n]
}

// IsRemote reports whether location points at an http(s) resource.
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
