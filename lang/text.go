package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// trimmed is source text with leading and trailing white space removed.
// Every parser in this package accepts trimmed text so that callers may split
// a line without re-trimming each piece.
type trimmed string

func trim(s string) trimmed { return trimmed(strings.TrimSpace(s)) }

func (t trimmed) String() string { return string(t) }

// cutPrefix reports whether t begins with prefix and returns the trimmed
// remainder.
func (t trimmed) cutPrefix(prefix string) (trimmed, bool) {
	rest, ok := strings.CutPrefix(string(t), prefix)

	return trim(rest), ok
}

// cutSuffix reports whether t ends with suffix and returns the trimmed
// remainder.
func (t trimmed) cutSuffix(suffix string) (trimmed, bool) {
	rest, ok := strings.CutSuffix(string(t), suffix)

	return trim(rest), ok
}

// cut splits t around the first instance of sep.
func (t trimmed) cut(sep string) (before, after trimmed, found bool) {
	b, a, found := strings.Cut(string(t), sep)

	return trim(b), trim(a), found
}

// fields splits t around runs of white space.
func (t trimmed) fields() []trimmed {
	f := strings.Fields(string(t))
	out := make([]trimmed, len(f))

	for i, s := range f {
		out[i] = trimmed(s)
	}

	return out
}

// indexTopLevel returns the byte offset of the first rune in t that satisfies
// match and is not enclosed by braces, or -1.
func (t trimmed) indexTopLevel(match func(rune) bool) int {
	depth := 0

	for i, r := range string(t) {
		switch {
		case r == '{':
			depth++
		case r == '}':
			if depth > 0 {
				depth--
			}
		case depth == 0 && match(r):
			return i
		}
	}

	return -1
}

// splitInclusive splits t after each sep that is not enclosed by braces.
// Each piece keeps its separator. A trailing piece without a separator is
// kept as-is, and an empty t yields no pieces.
func (t trimmed) splitInclusive(sep rune) []string {
	var (
		parts []string
		depth int
		start int
	)

	s := string(t)

	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				end := i + utf8.RuneLen(r)
				parts = append(parts, s[start:end])
				start = end
			}
		}
	}

	if start < len(s) {
		parts = append(parts, s[start:])
	}

	return parts
}

// isIdentifierStart reports whether r may begin an identifier.
func isIdentifierStart(r rune) bool {
	return unicode.In(r, unicode.L, unicode.Nl, unicode.Other_ID_Start)
}

// isIdentifierContinue reports whether r may follow the first rune of an
// identifier.
func isIdentifierContinue(r rune) bool {
	return isIdentifierStart(r) ||
		unicode.In(r,
			unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc,
			unicode.Other_ID_Continue,
		)
}
