// Package slug derives URL-safe article identifiers from titles.
package slug

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MaxLength is the length a normalized slug is truncated to. Disambiguation
// suffixes are appended after truncation and may exceed it.
const MaxLength = 250

var (
	nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)
	hyphenRun   = regexp.MustCompile(`-+`)
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// LookupFunc reports whether a candidate slug is already taken.
type LookupFunc func(ctx context.Context, candidate string) (bool, error)

// Normalize converts a title into its slug form without any uniqueness check.
//
//	Normalize("Café André")       // "cafe-andre"
//	Normalize("  Hello, World! ") // "hello-world"
//	Normalize("!!!")              // ""
func Normalize(title string) string {
	s := strings.ToLower(title)
	s = toASCII(norm.NFKD.String(s))
	s = nonAlnumRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	s = hyphenRun.ReplaceAllString(s, "-")
	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}
	return s
}

// Generate normalizes title and, when taken is non-nil, appends -2, -3, ...
// to the normalized base until taken reports the candidate as free.
// An empty base is returned as is; callers decide the fallback.
// Errors from taken are returned unchanged.
func Generate(ctx context.Context, title string, taken LookupFunc) (string, error) {
	base := Normalize(title)
	if taken == nil || base == "" {
		return base, nil
	}

	candidate := base
	for counter := 2; ; counter++ {
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(counter)
	}
}

// Valid reports whether s is already in canonical slug form.
func Valid(s string) bool {
	return slugPattern.MatchString(s)
}

// toASCII drops every rune outside the ASCII range. Combining marks left by
// NFKD decomposition fall out here, as do scripts with no ASCII form.
func toASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < 0x80 {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
