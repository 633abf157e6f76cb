// Package warehouses resolves the free-form warehouse labels found in
// marketplace feeds to canonical warehouse identities, and classifies each
// identity by fulfillment model.
//
// Marketplace exports spell the same physical warehouse many ways: mixed
// scripts, stray punctuation, branch numbers, and aggregate placeholder rows
// that are not warehouses at all. The package works from a Dictionary of
// canonical names, known label variants, marketplace (seller-fulfillment)
// markers, and a denylist of placeholder rows.
//
// Example usage:
//
//	dict := warehouses.Default()
//	norm := warehouses.NewNormalizer(dict)
//	class := warehouses.NewClassifier(dict)
//
//	name := norm.Normalize("Тула-1")            // "Tula"
//	c := class.Classify(name, "")               // Kind=FBO, Real=true
//	c = class.Classify("итого по складам", "")  // Real=false, placeholder
//
// Normalizer and Classifier are immutable after construction and safe for
// concurrent use.
package warehouses

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/sellsight/stocktally/internal/embedded"
	"github.com/sellsight/stocktally/internal/textmatch"
	pkgerrors "github.com/sellsight/stocktally/pkg/errors"
)

// MarketplaceRules describe how seller-fulfilled (FBS) stock is recognized:
// the canonical name the marketplace bucket rolls up under, the label
// keywords that mark it, and the order-feed kind hints that force it.
type MarketplaceRules struct {
	Name       string   `json:"name" yaml:"name"`
	Keywords   []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	SellerTags []string `json:"sellerTags,omitempty" yaml:"sellerTags,omitempty"`
}

// Entry maps one canonical warehouse name to the label variants
// observed for it in feeds.
type Entry struct {
	Name     string   `json:"name" yaml:"name"`
	Variants []string `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// DenyRules list labels that parse like warehouses but are aggregate or
// transit placeholder rows rather than physical stock locations. Names
// match whole labels, keywords match anywhere inside a label.
type DenyRules struct {
	Names    []string `json:"names,omitempty" yaml:"names,omitempty"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Dictionary is the complete warehouse identity configuration: marketplace
// rules, canonical entries with their variants, and the denylist.
//
// A Dictionary is plain data. Loaders validate and sort it; Normalizer and
// Classifier compile their own lookup state from it at construction, so a
// Dictionary is never mutated after load and may be shared freely.
type Dictionary struct {
	Marketplace MarketplaceRules `json:"marketplace" yaml:"marketplace"`
	Entries     []Entry          `json:"warehouses" yaml:"warehouses"`
	Denylist    DenyRules        `json:"denylist,omitempty" yaml:"denylist,omitempty"`
}

// Default returns the dictionary embedded in the binary.
//
// The embedded data is validated at test time; Default panics if a build
// somehow embeds a corrupt dictionary, mirroring regexp.MustCompile.
func Default() *Dictionary {
	d, err := LoadFS(embedded.FS, embedded.DictionaryPath)
	if err != nil {
		panic("warehouses: embedded dictionary is invalid: " + err.Error())
	}
	return d
}

// LoadFile reads, parses, and validates a dictionary from a file on disk.
func LoadFile(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, pkgerrors.NewNotFoundError("dictionary", path)
		}
		return nil, pkgerrors.WrapIO("read", path, err)
	}
	return parse(data, path)
}

// LoadFS reads, parses, and validates a dictionary from the given filesystem.
func LoadFS(fsys fs.FS, path string) (*Dictionary, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, pkgerrors.NewNotFoundError("dictionary", path)
		}
		return nil, pkgerrors.WrapIO("read", path, err)
	}
	return parse(data, path)
}

// Parse parses and validates a dictionary from YAML bytes.
func Parse(data []byte) (*Dictionary, error) {
	return parse(data, "")
}

func parse(data []byte, path string) (*Dictionary, error) {
	var d Dictionary
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, pkgerrors.WrapParse("yaml", path, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	// Sorted entries keep variant resolution and listing output stable
	// regardless of file order.
	sort.Slice(d.Entries, func(i, j int) bool {
		return d.Entries[i].Name < d.Entries[j].Name
	})
	return &d, nil
}

// Validate checks the dictionary for structural problems: a missing
// marketplace name, unnamed entries, or a variant claimed by two different
// canonical warehouses.
func (d *Dictionary) Validate() error {
	if strings.TrimSpace(d.Marketplace.Name) == "" {
		return pkgerrors.NewValidationError("marketplace.name",
			d.Marketplace.Name, "marketplace name must not be empty")
	}
	for i, e := range d.Entries {
		if strings.TrimSpace(e.Name) == "" {
			return pkgerrors.NewValidationError("warehouses.name", i,
				"warehouse entry must have a name")
		}
	}
	if _, err := d.index(); err != nil {
		return err
	}
	return nil
}

// Entry returns the canonical entry with the given name.
func (d *Dictionary) Entry(name string) (Entry, bool) {
	for _, e := range d.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// index builds the case-folded variant -> canonical name lookup. Canonical
// names, their variants, and the marketplace name all participate. The first
// claim on a folded variant wins; a later claim by a different canonical is
// returned as a conflict so loaders reject ambiguous dictionaries.
func (d *Dictionary) index() (map[string]string, error) {
	idx := make(map[string]string)

	claim := func(variant, canonical string) error {
		folded := textmatch.Fold(variant)
		if folded == "" {
			return nil
		}
		if prev, ok := idx[folded]; ok {
			if prev != canonical {
				return pkgerrors.NewConfigError("dictionary",
					fmt.Sprintf("variant %q claimed by both %q and %q", variant, prev, canonical),
					pkgerrors.ErrAlreadyExists)
			}
			return nil
		}
		idx[folded] = canonical
		return nil
	}

	if err := claim(d.Marketplace.Name, d.Marketplace.Name); err != nil {
		return nil, err
	}
	for _, e := range d.Entries {
		if err := claim(e.Name, e.Name); err != nil {
			return nil, err
		}
		for _, v := range e.Variants {
			if err := claim(v, e.Name); err != nil {
				return nil, err
			}
		}
	}
	return idx, nil
}
