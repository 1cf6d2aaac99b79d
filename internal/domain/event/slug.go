package event

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength keeps URLs readable; longer titles are cut on a '-' boundary when possible.
const MaxSlugLength = 80

// Slugify lower-cases the NFKC form of s, keeps [a-z0-9] and collapses every
// other run of characters into a single '-'.
func Slugify(s string) string {
	s = strings.ToLower(norm.NFKC.String(strings.TrimSpace(s)))

	var b strings.Builder
	b.Grow(len(s))
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if len(out) > MaxSlugLength {
		out = out[:MaxSlugLength]
		if i := strings.LastIndex(out, "-"); i > MaxSlugLength/2 {
			out = out[:i]
		}
		out = strings.TrimRight(out, "-")
	}
	return out
}

// IsSlug reports whether s is a well-formed slug: [a-z0-9] runs joined by single '-'.
func IsSlug(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' || strings.Contains(s, "--") {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-') {
			return false
		}
	}
	return true
}

// SlugCandidate returns base for n <= 1 and base-n otherwise.
func SlugCandidate(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
