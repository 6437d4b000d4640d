// Package csvio reads watershed land-use inputs and writes the sweep's
// tabular outputs. Column names, not positions, bind CSV data to categories.
package csvio

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/salt-sweep/internal/domain"
)

const (
	watershedColumn = "Watershed"
	areaColumn      = "Area"
)

// ReadLandUse parses a watershed land-use CSV. The header must carry a
// Watershed column and all six category columns by name; an Area column is
// optional and feeds the returned AreaLookup for presentation consumers.
// Unknown columns are a schema mismatch, reported before any row is parsed.
//
// Category cells that fail to parse become NaN rather than zero, so the
// record fails validation at the watershed granularity instead of silently
// computing. The pipeline decides whether to skip or abort.
func ReadLandUse(path string) ([]domain.WatershedLandUse, domain.AreaLookup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open land-use CSV: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read land-use CSV %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("land-use CSV %s is empty: %w", path, domain.ErrInvalidInput)
	}

	columns, areaCol, err := mapHeader(records[0])
	if err != nil {
		return nil, nil, fmt.Errorf("land-use CSV %s: %w", path, err)
	}
	watershedCol := columns[watershedColumn]

	watersheds := make([]domain.WatershedLandUse, 0, len(records)-1)
	areas := make(domain.AreaLookup)

	for _, rec := range records[1:] {
		name := strings.TrimSpace(rec[watershedCol])
		values := make(map[domain.Category]float64, domain.NumCategories)
		for _, c := range domain.Categories() {
			values[c] = parseFloatOrNaN(rec[columns[string(c)]])
		}
		watersheds = append(watersheds, domain.WatershedLandUse{Watershed: name, Values: values})

		if areaCol >= 0 {
			area, err := strconv.ParseFloat(strings.TrimSpace(rec[areaCol]), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("watershed %q: bad area value %q: %w", name, rec[areaCol], domain.ErrInvalidInput)
			}
			areas[name] = area
		}
	}

	return watersheds, areas, nil
}

// mapHeader resolves column names to indices and checks the category set.
// Returns the name→index map and the Area column index (-1 if absent).
func mapHeader(header []string) (map[string]int, int, error) {
	columns := make(map[string]int, len(header))
	areaCol := -1

	for i, h := range header {
		h = strings.TrimSpace(h)
		switch {
		case h == watershedColumn:
			columns[watershedColumn] = i
		case h == areaColumn:
			areaCol = i
		default:
			if _, ok := domain.Category(h).Index(); !ok {
				return nil, -1, fmt.Errorf("unknown column %q: %w", h, domain.ErrSchemaMismatch)
			}
			columns[h] = i
		}
	}

	if _, ok := columns[watershedColumn]; !ok {
		return nil, -1, fmt.Errorf("missing %s column: %w", watershedColumn, domain.ErrSchemaMismatch)
	}
	for _, c := range domain.Categories() {
		if _, ok := columns[string(c)]; !ok {
			return nil, -1, fmt.Errorf("missing category column %q: %w", c, domain.ErrSchemaMismatch)
		}
	}

	return columns, areaCol, nil
}

func parseFloatOrNaN(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
