// Package wildcard matches target patterns against concrete targets.
//
// A pattern field may hold at most one meaningful '*': alone it matches
// anything, "*x*" is a substring match, and "pre*suf" is a prefix/suffix
// match. Composite targets join fields with Delimiter and are matched field
// by field.
package wildcard

import "strings"

// Delimiter separates the fields of a composite target.
const Delimiter = ':'

// Any is the pattern that matches every target.
const Any = "*"

// Match reports whether a single-field pattern matches text.
func Match(pattern, text string) bool {
	if pattern == Any {
		return true
	}
	first := strings.IndexByte(pattern, '*')
	if first < 0 {
		return text == pattern
	}
	last := strings.LastIndexByte(pattern, '*')
	if first == 0 && last == len(pattern)-1 && first != last {
		return strings.Contains(text, pattern[1:last])
	}

	prefix := pattern[:first]
	suffix := pattern[first+1:]
	if len(text) < len(prefix)+len(suffix) {
		return false
	}
	return strings.HasPrefix(text, prefix) && strings.HasSuffix(text, suffix)
}

// MatchFields matches a delimiter-joined pattern against a delimiter-joined
// text, pairing fields by position. Runs of delimiters collapse and trailing
// empty or whitespace-only fields are ignored on both sides. Matching fails
// when either side has fields left over.
func MatchFields(pattern, text string) bool {
	pattern = trimTrailing(pattern)
	text = trimTrailing(text)

	p, t := 0, 0
	for t < len(text) {
		tEnd := fieldEnd(text, t)
		pEnd := fieldEnd(pattern, p)
		if !Match(pattern[p:pEnd], text[t:tEnd]) {
			return false
		}
		p = skipDelimiters(pattern, pEnd)
		t = skipDelimiters(text, tEnd)
	}
	return p == len(pattern)
}

// MatchAny reports whether any pattern matches text field by field.
func MatchAny(patterns []string, text string) bool {
	for _, pattern := range patterns {
		if MatchFields(pattern, text) {
			return true
		}
	}
	return false
}

// HasWildcard reports whether s contains a '*'.
func HasWildcard(s string) bool {
	return strings.IndexByte(s, '*') >= 0
}

// Join builds a composite target from fields.
func Join(fields ...string) string {
	return strings.Join(fields, string(Delimiter))
}

// Split breaks a composite target into trimmed fields. Trailing empty fields
// are dropped.
func Split(s string) []string {
	parts := strings.Split(strings.TrimSpace(s), string(Delimiter))
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

func fieldEnd(s string, from int) int {
	if idx := strings.IndexByte(s[from:], Delimiter); idx >= 0 {
		return from + idx
	}
	return len(s)
}

func skipDelimiters(s string, from int) int {
	for from < len(s) && s[from] == Delimiter {
		from++
	}
	return from
}

func trimTrailing(s string) string {
	return strings.TrimRight(s, " \t\r\n"+string(Delimiter))
}
