package warehouses

import "sort"

// Provenance records which raw feed labels resolved to each canonical
// warehouse name. Keys are canonical names; values are the distinct raw
// labels seen for that name, kept sorted.
//
// Provenance is not safe for concurrent writes. Pipelines keep one map per
// worker and combine them with Merge.
type Provenance map[string][]string

// NewProvenance returns an empty provenance map.
func NewProvenance() Provenance {
	return make(Provenance)
}

// Record notes that the raw label resolved to the canonical name.
// Duplicate labels are kept once; empty values are ignored.
func (p Provenance) Record(canonical, raw string) {
	if canonical == "" || raw == "" {
		return
	}
	labels := p[canonical]
	i := sort.SearchStrings(labels, raw)
	if i < len(labels) && labels[i] == raw {
		return
	}
	labels = append(labels, "")
	copy(labels[i+1:], labels[i:])
	labels[i] = raw
	p[canonical] = labels
}

// Labels returns a copy of the raw labels recorded for the canonical name.
func (p Provenance) Labels(canonical string) []string {
	labels := p[canonical]
	if len(labels) == 0 {
		return nil
	}
	return append([]string(nil), labels...)
}

// Canonicals returns the canonical names with recorded labels, sorted.
func (p Provenance) Canonicals() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge folds another provenance map into this one.
func (p Provenance) Merge(other Provenance) {
	for canonical, labels := range other {
		for _, raw := range labels {
			p.Record(canonical, raw)
		}
	}
}
