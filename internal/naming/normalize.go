// Package naming converts free-form project names into package names that
// are safe to use as a directory-independent npm package identifier.
package naming

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// disallowedRun matches a maximal run of characters outside [a-z0-9-~].
var disallowedRun = regexp.MustCompile(`[^a-z0-9\-~]+`)

// normalizedPattern describes the package name alphabet.
var normalizedPattern = regexp.MustCompile(`^[a-z0-9\-~]*$`)

// Normalize derives a package name from a raw project name.
//
// The steps run in order, each on the result of the previous one:
//  1. trim leading and trailing whitespace (see isSpace)
//  2. lowercase (full Unicode case mapping)
//  3. replace every run of whitespace with a single "-"
//  4. strip one leading "." or "_"
//  5. replace every run of characters outside [a-z0-9-~] with a single "-"
//
// Normalize never fails. An empty or degenerate input yields an empty or
// degenerate result; callers validate the raw name beforehand.
func Normalize(raw string) string {
	name := strings.TrimFunc(raw, isSpace)

	// A Caser carries state between calls, so each call builds its own.
	name = cases.Lower(language.Und).String(name)

	name = collapseWhitespace(name)

	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		name = name[1:]
	}

	return disallowedRun.ReplaceAllString(name, "-")
}

// IsNormalized reports whether s already satisfies the package name
// invariant, i.e. Normalize(s) == s.
func IsNormalized(s string) bool {
	return normalizedPattern.MatchString(s)
}

// isSpace reports whether r is whitespace in the sense of JavaScript's
// String.prototype.trim and the \s class: Unicode space separators, the
// ASCII controls \t \n \v \f \r, line and paragraph separators and the
// byte order mark U+FEFF. Unlike unicode.IsSpace it excludes U+0085.
func isSpace(r rune) bool {
	switch r {
	case '\ufeff':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}

// collapseWhitespace replaces each maximal run of whitespace with "-".
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inRun := false
	for _, r := range s {
		if isSpace(r) {
			if !inRun {
				b.WriteByte('-')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}
