package domain

import (
	"fmt"
	"math"
)

// RateRange describes an inclusive arithmetic sequence of candidate
// application rates: Start, Start+Step, ... up to and including Stop when
// (Stop-Start) divides evenly by Step.
type RateRange struct {
	Start float64
	Stop  float64
	Step  float64
}

// DefaultParkingRange is the reference sweep over parking-type rates in g/m²:
// {27, 37, 47, 57, 67, 77, 87}. 90 is not aligned to the step and is excluded.
func DefaultParkingRange() RateRange {
	return RateRange{Start: 27, Stop: 90, Step: 10}
}

// DefaultRoadRange is the reference sweep over roadway rates in kg/lane-km:
// {88, 98, 108, 118, 128}. 130 is not aligned to the step and is excluded.
func DefaultRoadRange() RateRange {
	return RateRange{Start: 88, Stop: 130, Step: 10}
}

// Validate checks that the range describes a non-empty forward sequence.
func (r RateRange) Validate() error {
	if r.Step <= 0 {
		return fmt.Errorf("rate range step must be positive, got %g", r.Step)
	}
	if r.Stop < r.Start {
		return fmt.Errorf("rate range stop %g is below start %g", r.Stop, r.Start)
	}
	return nil
}

// Sequence expands the range into its candidate rates. The stop value is
// included only when aligned to the step; a non-aligned range truncates at
// the last rate not exceeding Stop, matching seq/arange-style inclusive
// semantics. A small tolerance absorbs float accumulation at the endpoint.
func (r RateRange) Sequence() []float64 {
	if r.Step <= 0 || r.Stop < r.Start {
		return nil
	}
	const tol = 1e-9
	n := int(math.Floor((r.Stop-r.Start)/r.Step+tol)) + 1
	seq := make([]float64, n)
	for i := range seq {
		seq[i] = r.Start + float64(i)*r.Step
	}
	return seq
}

// RateGrid holds the candidate application rates for every category.
// A valid grid has exactly the six category keys, each with at least one rate.
type RateGrid map[Category][]float64

// NewRateGrid expands the parking and roadway ranges into a grid, assigning
// the parking sequence to the four area-based categories and the road
// sequence to the two roadway categories.
func NewRateGrid(parking, road RateRange) (RateGrid, error) {
	if err := parking.Validate(); err != nil {
		return nil, fmt.Errorf("parking rates: %w", err)
	}
	if err := road.Validate(); err != nil {
		return nil, fmt.Errorf("road rates: %w", err)
	}

	g := make(RateGrid, NumCategories)
	for _, c := range Categories() {
		if c.AreaBased() {
			g[c] = parking.Sequence()
		} else {
			g[c] = road.Sequence()
		}
	}
	return g, nil
}

// Validate checks the grid's category set by name. A grid missing a category,
// carrying an unknown one, or holding an empty rate sequence cannot be
// evaluated against any land-use record.
func (g RateGrid) Validate() error {
	for c := range g {
		if _, ok := c.Index(); !ok {
			return fmt.Errorf("rate grid has unknown category %q: %w", c, ErrSchemaMismatch)
		}
	}
	for _, c := range Categories() {
		rates, ok := g[c]
		if !ok {
			return fmt.Errorf("rate grid missing category %q: %w", c, ErrSchemaMismatch)
		}
		if len(rates) == 0 {
			return fmt.Errorf("rate grid for %q is empty: %w", c, ErrSchemaMismatch)
		}
	}
	return nil
}

// Size returns the number of combinations the grid expands to: the product
// of the per-category sequence lengths.
func (g RateGrid) Size() int {
	size := 1
	for _, c := range Categories() {
		size *= len(g[c])
	}
	return size
}

// Combinations enumerates the full Cartesian product of the grid in
// row-major order over the canonical category order (the last category
// varies fastest). Every combination appears exactly once; nothing is
// truncated or deduplicated.
func (g RateGrid) Combinations() ([]RateCombination, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	cats := Categories()
	combos := make([]RateCombination, 0, g.Size())
	var idx [NumCategories]int
	for {
		var combo RateCombination
		for i, c := range cats {
			combo[i] = g[c][idx[i]]
		}
		combos = append(combos, combo)

		// Advance the odometer; carry toward the first category.
		k := NumCategories - 1
		for k >= 0 {
			idx[k]++
			if idx[k] < len(g[cats[k]]) {
				break
			}
			idx[k] = 0
			k--
		}
		if k < 0 {
			return combos, nil
		}
	}
}
