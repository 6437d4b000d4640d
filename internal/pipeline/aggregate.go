package pipeline

import (
	"fmt"

	"github.com/couchcryptid/salt-sweep/internal/domain"
)

// LongRow is one melted observation: a single category's salt mass for one
// scenario of one watershed. This is the canonical long-form output handed to
// presentation consumers.
type LongRow struct {
	Watershed   string  `json:"watershed"`
	Category    string  `json:"land_use_category"`
	SaltApplied float64 `json:"salt_applied"`
}

// ResultTable is the concatenation of every watershed's scenario results, in
// input watershed order. Each watershed contributes exactly ComboCount
// contiguous rows.
type ResultTable struct {
	Rows       []domain.ScenarioResult
	Watersheds []string
	ComboCount int
}

// Aggregate evaluates the full rate-combination set against every watershed
// and concatenates the results. The combination set is computed once and
// shared: the grids are identical for every watershed.
//
// onWatershed, if non-nil, is called after each watershed completes; the
// caller hooks progress bars and metrics there. Aggregate itself is a pure
// function of its first two arguments: rerunning it over identical inputs
// yields an identical table.
func Aggregate(watersheds []domain.WatershedLandUse, grid domain.RateGrid, onWatershed func(watershed string)) (*ResultTable, error) {
	combos, err := grid.Combinations()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(watersheds))
	for _, w := range watersheds {
		if _, dup := seen[w.Watershed]; dup {
			return nil, fmt.Errorf("duplicate watershed %q in input: %w", w.Watershed, domain.ErrInvalidInput)
		}
		seen[w.Watershed] = struct{}{}
	}

	table := &ResultTable{
		Rows:       make([]domain.ScenarioResult, 0, len(watersheds)*len(combos)),
		Watersheds: make([]string, 0, len(watersheds)),
		ComboCount: len(combos),
	}

	for _, w := range watersheds {
		results, err := domain.EvaluateScenarios(w, combos)
		if err != nil {
			return nil, fmt.Errorf("evaluate watershed %q: %w", w.Watershed, err)
		}
		table.Rows = append(table.Rows, results...)
		table.Watersheds = append(table.Watersheds, w.Watershed)
		if onWatershed != nil {
			onWatershed(w.Watershed)
		}
	}

	return table, nil
}

// Melt reshapes the wide table into long form: seven rows per scenario, the
// six categories in canonical order followed by the Total Salt row. Row order
// follows the wide table.
func (t *ResultTable) Melt() []LongRow {
	cats := domain.Categories()
	long := make([]LongRow, 0, len(t.Rows)*(domain.NumCategories+1))
	for _, r := range t.Rows {
		for i, c := range cats {
			long = append(long, LongRow{
				Watershed:   r.Watershed,
				Category:    string(c),
				SaltApplied: r.Salt[i],
			})
		}
		long = append(long, LongRow{
			Watershed:   r.Watershed,
			Category:    domain.TotalCategory,
			SaltApplied: r.Total,
		})
	}
	return long
}
