package domain

import (
	"fmt"
	"math"
)

// WatershedLandUse holds one watershed's fixed land-use quantities: areas in
// m² for the four parking-type categories, lane-lengths in lane-km for the
// two roadway categories. Values are keyed by category name, never position.
type WatershedLandUse struct {
	Watershed string
	Values    map[Category]float64
}

// Validate checks the record before any evaluation runs. Schema problems
// (missing or unknown category keys) wrap ErrSchemaMismatch; bad values
// (negative, NaN, or infinite) wrap ErrInvalidInput. Zero is a legal value:
// a watershed may simply have none of a surface type.
func (w WatershedLandUse) Validate() error {
	if w.Watershed == "" {
		return fmt.Errorf("land-use record has no watershed identifier: %w", ErrInvalidInput)
	}
	for c := range w.Values {
		if _, ok := c.Index(); !ok {
			return fmt.Errorf("watershed %q: unknown land-use category %q: %w", w.Watershed, c, ErrSchemaMismatch)
		}
	}
	for _, c := range Categories() {
		v, ok := w.Values[c]
		if !ok {
			return fmt.Errorf("watershed %q: missing land-use category %q: %w", w.Watershed, c, ErrSchemaMismatch)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("watershed %q: land-use value for %q is not a number: %w", w.Watershed, c, ErrInvalidInput)
		}
		if v < 0 {
			return fmt.Errorf("watershed %q: negative land-use value %g for %q: %w", w.Watershed, v, c, ErrInvalidInput)
		}
	}
	return nil
}

// AreaLookup maps a watershed identifier to its drainage area. The core
// pipeline never reads it; presentation adapters receive it explicitly.
type AreaLookup map[string]float64
