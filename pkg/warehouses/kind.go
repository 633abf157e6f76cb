package warehouses

import "slices"

// Kind represents the fulfillment model of a warehouse bucket.
type Kind string

// String returns the string representation of a warehouse kind.
func (k Kind) String() string {
	return string(k)
}

// Warehouse kinds.
const (
	// KindFBO marks a marketplace-operated fulfillment warehouse.
	KindFBO Kind = "FBO"

	// KindFBS marks a seller-operated fulfillment warehouse.
	KindFBS Kind = "FBS"

	// KindUnknown marks a label that could not be classified as a
	// real warehouse. Records carrying it are dropped from rollups.
	KindUnknown Kind = "unknown"
)

// Kinds returns all defined warehouse kinds.
// This provides a convenient way to iterate over all Kind values.
func Kinds() []Kind {
	return []Kind{
		KindFBO,
		KindFBS,
		KindUnknown,
	}
}

// IsValid returns true if the Kind is one of the defined constants.
// Uses Kinds() to ensure consistency with the authoritative kind list.
func (k Kind) IsValid() bool {
	return slices.Contains(Kinds(), k)
}
