package fetch

import "strings"

// IsAbsURL reports whether u is absolute: it starts with "//" or contains "://".
func IsAbsURL(u string) bool {
	return strings.HasPrefix(u, "//") || strings.Contains(u, "://")
}

// Resolve prepends base to u unless u is absolute.
func Resolve(base, u string) string {
	if IsAbsURL(u) {
		return u
	}
	return base + u
}
