package warehouses

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sellsight/stocktally/internal/textmatch"
	"github.com/sellsight/stocktally/pkg/logging"
)

// genericLabelWords are filler words stripped from labels before the
// containment pass. They carry no warehouse identity on their own.
var genericLabelWords = []string{
	"склад", "warehouse", "wh", "филиал", "branch", "depot",
}

// minContainWordLen is the minimum rune length for a word to participate in
// containment matching. Shorter words ("on", "по") are too generic and would
// pull unrelated labels onto a canonical name.
const minContainWordLen = 3

// Normalizer resolves raw feed labels to canonical warehouse names.
//
// Construction compiles the dictionary into lookup state; a Normalizer is
// immutable afterwards and safe for concurrent use.
type Normalizer struct {
	marketplace string
	keywords    []string
	exact       map[string]string
	candidates  []candidate
}

// candidate holds the containment words of one canonical entry.
type candidate struct {
	name  string
	words []string
}

// NewNormalizer compiles lookup state from the dictionary. Loaders reject
// dictionaries with conflicting variant claims; for hand-built dictionaries
// the first claim on a variant wins.
func NewNormalizer(d *Dictionary) *Normalizer {
	exact, _ := d.index()
	n := &Normalizer{
		marketplace: d.Marketplace.Name,
		keywords:    append([]string(nil), d.Marketplace.Keywords...),
		exact:       exact,
	}
	for _, e := range d.Entries {
		n.candidates = append(n.candidates, candidate{
			name:  e.Name,
			words: containWords(e),
		})
	}
	sort.Slice(n.candidates, func(i, j int) bool {
		return n.candidates[i].name < n.candidates[j].name
	})
	return n
}

// containWords collects the folded words of an entry's name and variants
// that are long enough to identify the warehouse on their own.
func containWords(e Entry) []string {
	seen := make(map[string]struct{})
	var words []string
	add := func(label string) {
		for _, w := range textmatch.Words(label) {
			if utf8.RuneCountInString(w) < minContainWordLen {
				continue
			}
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			words = append(words, w)
		}
	}
	add(e.Name)
	for _, v := range e.Variants {
		add(v)
	}
	sort.Strings(words)
	return words
}

// Normalize resolves a raw warehouse label to its canonical name.
//
// Resolution tries, in order: an exact variant lookup (case-folded), a
// marketplace keyword scan, a cleanup pass (parenthesized qualifiers,
// punctuation, trailing branch numbers, filler words) followed by the exact
// and word-containment lookups again, and finally a cleaned passthrough of
// the label itself. Unknown labels are preserved, never discarded: the
// passthrough keeps their stock visible and the classifier decides whether
// the result names a real warehouse.
//
// Normalize is idempotent: feeding a result back in returns the same value.
// Empty input returns the empty string.
func (n *Normalizer) Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	// Exact variant match.
	if name, ok := n.exact[textmatch.Fold(trimmed)]; ok {
		return name
	}

	// Marketplace keyword scan, punctuation-insensitive so "F.B.S. склад"
	// still reads as fbs.
	for _, kw := range n.keywords {
		if textmatch.ContainsSquashed(trimmed, kw) {
			return n.marketplace
		}
	}

	// Cleanup pass, then retry both lookups on the reduced label.
	base := textmatch.Clean(textmatch.StripParens(trimmed))
	base = textmatch.StripTrailingNumber(base)
	base = textmatch.RemoveWords(base, genericLabelWords...)
	if name, ok := n.exact[textmatch.Fold(base)]; ok {
		return name
	}
	if name, ok := n.contains(base); ok {
		return name
	}

	// Unknown label: pass the cleaned form through as its own canonical
	// name so downstream totals never lose stock silently.
	result := textmatch.Clean(trimmed)
	if result == "" {
		result = trimmed
	}
	logging.Default().Debug().
		Str("label", raw).
		Str("canonical", result).
		Msg("warehouse label passed through unmatched")
	return result
}

// contains returns the first canonical entry sharing a containment word with
// the cleaned label. Candidates are scanned in sorted name order, so
// resolution is deterministic.
func (n *Normalizer) contains(label string) (string, bool) {
	words := textmatch.Words(label)
	if len(words) == 0 {
		return "", false
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	for _, c := range n.candidates {
		for _, w := range c.words {
			if _, ok := set[w]; ok {
				return c.name, true
			}
		}
	}
	return "", false
}
