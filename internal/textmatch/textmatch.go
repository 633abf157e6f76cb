// Package textmatch provides the text-normalization primitives used for fuzzy
// warehouse-label matching: case folding, punctuation stripping, and word-level
// containment tests. All functions are pure and safe for concurrent use.
package textmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Fold trims surrounding whitespace and case-folds s for case-insensitive
// comparison. Folding handles non-ASCII scripts correctly, which matters for
// mixed Latin/Cyrillic warehouse labels.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Clean replaces punctuation and separator runes with spaces, collapses runs
// of whitespace, and trims the result. Letter case is preserved.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Squash removes every rune that is not a letter or digit and case-folds the
// remainder. Two labels that differ only in punctuation, spacing, or case
// squash to the same value ("F.B.S." and "fbs" both squash to "fbs").
func Squash(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return cases.Fold().String(b.String())
}

// ContainsSquashed reports whether the squashed form of s contains the
// squashed form of substr. This is the punctuation-insensitive containment
// test used for marketplace keyword scans. An empty substr never matches.
func ContainsSquashed(s, substr string) bool {
	sq := Squash(substr)
	if sq == "" {
		return false
	}
	return strings.Contains(Squash(s), sq)
}

// Words splits s into cleaned, folded tokens.
func Words(s string) []string {
	return strings.Fields(Fold(Clean(s)))
}

// HasWord reports whether word appears as a whole token of s, compared
// case-insensitively.
func HasWord(s, word string) bool {
	w := Fold(word)
	if w == "" {
		return false
	}
	for _, tok := range Words(s) {
		if tok == w {
			return true
		}
	}
	return false
}

// StripParens removes parenthesized qualifiers from s, including the
// parentheses themselves. Unbalanced closing parentheses are left intact.
func StripParens(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	depth := 0
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			} else {
				b.WriteRune(r)
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// StripTrailingNumber removes trailing tokens that consist only of digits
// ("Tula 2" becomes "Tula"). A label that is nothing but digits is returned
// unchanged so that callers can still inspect it.
func StripTrailingNumber(s string) string {
	tokens := strings.Fields(s)
	end := len(tokens)
	for end > 0 && isDigits(tokens[end-1]) {
		end--
	}
	if end == 0 {
		return strings.TrimSpace(s)
	}
	return strings.Join(tokens[:end], " ")
}

// RemoveWords drops any token of s equal to one of the stop words, compared
// case-insensitively. Token order and case of the survivors are preserved.
func RemoveWords(s string, stop ...string) string {
	if len(stop) == 0 {
		return strings.Join(strings.Fields(s), " ")
	}
	folded := make(map[string]struct{}, len(stop))
	for _, w := range stop {
		if f := Fold(w); f != "" {
			folded[f] = struct{}{}
		}
	}
	var kept []string
	for _, tok := range strings.Fields(s) {
		if _, ok := folded[Fold(tok)]; !ok {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

// HasLetter reports whether s contains at least one letter in any script.
func HasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// IsNumeric reports whether s is non-empty and contains only digits once
// punctuation and spacing are ignored.
func IsNumeric(s string) bool {
	seen := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			return false
		}
		if unicode.IsDigit(r) {
			seen = true
		}
	}
	return seen
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
