// Package identifier provides normalization of raw registry identifiers
// into their canonical digit-only form. The normalized form is used both
// as the cache key and as the path component of the request URL.
package identifier

import "strings"

// Normalize strips every character that is not an ASCII digit from raw,
// preserving digit order. It is total and idempotent; input with no
// digits normalizes to the empty string.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
