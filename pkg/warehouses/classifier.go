package warehouses

import (
	"strings"
	"unicode/utf8"

	"github.com/sellsight/stocktally/internal/textmatch"
)

// RejectReason explains why a classified label is not a real warehouse.
type RejectReason string

// Reject reasons reported in drop accounting.
const (
	// RejectNone marks a retained record.
	RejectNone RejectReason = ""

	// RejectEmptyLabel marks a record whose warehouse label was empty.
	RejectEmptyLabel RejectReason = "empty_label"

	// RejectPlaceholder marks an aggregate or transit row from the denylist.
	RejectPlaceholder RejectReason = "placeholder"

	// RejectUnparseable marks a label with no letters or too short to be
	// a warehouse name.
	RejectUnparseable RejectReason = "unparseable"
)

// String returns the string representation of a reject reason.
func (r RejectReason) String() string {
	return string(r)
}

// Classification is the verdict for one canonical warehouse name.
type Classification struct {
	// Kind is the fulfillment model. Records classified KindUnknown are
	// dropped from rollups.
	Kind Kind

	// Real reports whether the name denotes a physical stock location.
	Real bool

	// Reason explains a Real=false verdict; empty when Real is true.
	Reason RejectReason
}

// Classifier decides whether a canonical warehouse name denotes a real
// stock location and which fulfillment model it belongs to.
//
// Like Normalizer, a Classifier is immutable after construction and safe
// for concurrent use.
type Classifier struct {
	marketplace  string
	keywords     []string
	sellerTags   map[string]struct{}
	denyNames    map[string]struct{}
	denyKeywords []string
}

// NewClassifier compiles classification state from the dictionary.
func NewClassifier(d *Dictionary) *Classifier {
	c := &Classifier{
		marketplace:  textmatch.Fold(d.Marketplace.Name),
		keywords:     append([]string(nil), d.Marketplace.Keywords...),
		sellerTags:   make(map[string]struct{}, len(d.Marketplace.SellerTags)),
		denyNames:    make(map[string]struct{}, len(d.Denylist.Names)),
		denyKeywords: append([]string(nil), d.Denylist.Keywords...),
	}
	for _, tag := range d.Marketplace.SellerTags {
		c.sellerTags[textmatch.Fold(tag)] = struct{}{}
	}
	for _, name := range d.Denylist.Names {
		c.denyNames[textmatch.Fold(name)] = struct{}{}
	}
	return c
}

// Classify decides the verdict for a canonical warehouse name, with the raw
// kind hint from the order feed when one was present.
//
// Seller fulfillment is checked first and wins unconditionally: a label that
// matches both a marketplace keyword and a denylist keyword is FBS, because
// seller stock frequently hides behind labels that also look like aggregate
// rows. The denylist runs second, and everything left is accepted as FBO as
// long as it plausibly names a place: warehouse naming in feeds is too messy
// for an allow-list. Unknown kind hints are ignored.
func (c *Classifier) Classify(canonicalName, rawKindHint string) Classification {
	name := strings.TrimSpace(canonicalName)
	if name == "" {
		return Classification{Kind: KindUnknown, Reason: RejectEmptyLabel}
	}

	if c.isSellerFulfilled(name, rawKindHint) {
		return Classification{Kind: KindFBS, Real: true}
	}

	if c.isDenied(name) {
		return Classification{Kind: KindUnknown, Reason: RejectPlaceholder}
	}

	if textmatch.HasLetter(name) && !textmatch.IsNumeric(name) && utf8.RuneCountInString(name) >= 2 {
		return Classification{Kind: KindFBO, Real: true}
	}

	return Classification{Kind: KindUnknown, Reason: RejectUnparseable}
}

// isSellerFulfilled reports whether the name or the order-feed hint marks
// seller (FBS) fulfillment.
func (c *Classifier) isSellerFulfilled(name, hint string) bool {
	if textmatch.Fold(name) == c.marketplace {
		return true
	}
	for _, kw := range c.keywords {
		if textmatch.ContainsSquashed(name, kw) {
			return true
		}
	}
	if folded := textmatch.Fold(hint); folded != "" {
		if _, ok := c.sellerTags[folded]; ok {
			return true
		}
	}
	return false
}

// isDenied reports whether the name is a known placeholder row, either by
// whole-name match or by a denylist keyword appearing anywhere in it.
func (c *Classifier) isDenied(name string) bool {
	if _, ok := c.denyNames[textmatch.Fold(name)]; ok {
		return true
	}
	for _, kw := range c.denyKeywords {
		if textmatch.ContainsSquashed(name, kw) {
			return true
		}
	}
	return false
}
