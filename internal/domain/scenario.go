package domain

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// gramsPerKilogram converts area-based products (g/m² × m² = grams) to kg.
const gramsPerKilogram = 1000.0

// RateCombination assigns one candidate rate to each category, aligned with
// the canonical category order. One combination is one uncertainty scenario.
type RateCombination [NumCategories]float64

// Rate returns the rate assigned to c.
func (rc RateCombination) Rate(c Category) (float64, bool) {
	i, ok := c.Index()
	if !ok {
		return 0, false
	}
	return rc[i], true
}

// ScenarioResult is the evaluated salt mass for one watershed under one rate
// combination. Salt holds kilograms per category in canonical order; Total is
// derived as their sum and is never stored independently of the row.
type ScenarioResult struct {
	Watershed string
	Salt      [NumCategories]float64
	Total     float64
}

// EvaluateScenarios computes one ScenarioResult per combination for a single
// watershed: each category's rate times the watershed's land-use value, with
// area-based products normalized from grams to kilograms. Output row order is
// the input combination order; nothing is filtered or reordered.
//
// The record is validated first, so a bad watershed fails before the
// expensive expansion is touched.
func EvaluateScenarios(w WatershedLandUse, combos []RateCombination) ([]ScenarioResult, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	// Land-use values into canonical order, pre-dividing area-based entries
	// so the inner loop is a plain elementwise multiply.
	var scale [NumCategories]float64
	for i, c := range Categories() {
		v := w.Values[c]
		if c.AreaBased() {
			v /= gramsPerKilogram
		}
		scale[i] = v
	}

	results := make([]ScenarioResult, len(combos))
	for i, combo := range combos {
		r := ScenarioResult{Watershed: w.Watershed}
		for j := range combo {
			r.Salt[j] = combo[j] * scale[j]
		}
		r.Total = floats.Sum(r.Salt[:])
		results[i] = r
	}
	return results, nil
}

// String renders the result compactly for logs.
func (r ScenarioResult) String() string {
	return fmt.Sprintf("%s: total %.3f kg", r.Watershed, r.Total)
}
