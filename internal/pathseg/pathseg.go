// Package pathseg derives filesystem- and URL-safe path segments from
// human-readable entity names. Segments feed the object storage key scheme,
// so the transform must be deterministic: the same name always maps to the
// same prefix.
package pathseg

import "strings"

// Segment lower-cases name and collapses every run of characters outside
// [a-z0-9] into a single hyphen, trimming leading and trailing hyphens.
// The result matches ^[a-z0-9]+(-[a-z0-9]+)*$ or is empty. Idempotent.
//
// Callers must treat an empty result as a missing-parameter failure; it is
// never a valid key component.
func Segment(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}

	return b.String()
}
