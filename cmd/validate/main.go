// Command validate performs end-to-end integrity checks over a completed
// sweep: it recomputes the pipeline from the land-use input and verifies the
// emitted CSVs against the recomputation: row counts, the Total-equals-sum
// row invariant, summary statistics, and ranking cells.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -landuse data/landuse.csv \
//	  -results-dir out
//
// The rate ranges must match the sweep that produced the results; pass the
// same -parking-*/-road-* flags if the sweep overrode the defaults.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/salt-sweep/internal/adapter/csvio"
	"github.com/couchcryptid/salt-sweep/internal/domain"
	"github.com/couchcryptid/salt-sweep/internal/pipeline"
)

const epsilon = 1e-6

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	landuse := flag.String("landuse", "", "watershed land-use CSV the sweep consumed")
	resultsDir := flag.String("results-dir", "", "directory holding the sweep's output CSVs")
	parkingMin := flag.Float64("parking-min", 27, "lowest parking rate used by the sweep")
	parkingMax := flag.Float64("parking-max", 90, "highest parking rate used by the sweep")
	parkingStep := flag.Float64("parking-step", 10, "parking rate increment used by the sweep")
	roadMin := flag.Float64("road-min", 88, "lowest roadway rate used by the sweep")
	roadMax := flag.Float64("road-max", 130, "highest roadway rate used by the sweep")
	roadStep := flag.Float64("road-step", 10, "roadway rate increment used by the sweep")
	flag.Parse()

	if *landuse == "" || *resultsDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	parking := domain.RateRange{Start: *parkingMin, Stop: *parkingMax, Step: *parkingStep}
	road := domain.RateRange{Start: *roadMin, Stop: *roadMax, Step: *roadStep}

	if code := run(*landuse, *resultsDir, parking, road); code != 0 {
		os.Exit(code)
	}
}

func run(landusePath, resultsDir string, parking, road domain.RateRange) int {
	grid, err := domain.NewRateGrid(parking, road)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid rate ranges: %v\n", err)
		return 1
	}

	watersheds, _, err := csvio.ReadLandUse(landusePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read land use: %v\n", err)
		return 1
	}

	// Drop invalid watersheds the same way a non-strict sweep does.
	valid := watersheds[:0:0]
	for _, w := range watersheds {
		if w.Validate() == nil {
			valid = append(valid, w)
		}
	}

	table, err := pipeline.Aggregate(valid, grid, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "recompute sweep: %v\n", err)
		return 1
	}
	long := table.Melt()
	summaries := pipeline.Summarize(table)
	rankings, _ := pipeline.RankByMedian(summaries)

	phases := []*phase{
		checkLongTable(filepath.Join(resultsDir, "scenarios_long.csv"), long),
		checkSummaries(filepath.Join(resultsDir, "category_summary.csv"), summaries),
		checkRankings(filepath.Join(resultsDir, "category_ranking.csv"), rankings),
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS  %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL  %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("      %s\n", e)
		}
	}

	if failed > 0 {
		fmt.Printf("%d of %d phases failed\n", failed, len(phases))
		return 1
	}
	fmt.Printf("all %d phases passed\n", len(phases))
	return 0
}

// checkLongTable verifies row counts, recomputed values, and the per-scenario
// Total-equals-sum invariant (every 7th row closes a scenario block).
func checkLongTable(path string, expected []pipeline.LongRow) *phase {
	p := &phase{name: "long-form result table"}

	records, err := readCSV(path)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	rows := records[1:]
	if len(rows) != len(expected) {
		p.errorf("row count: got %d, recomputed %d", len(rows), len(expected))
		return p
	}

	blockSum := 0.0
	for i, rec := range rows {
		got, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			p.errorf("row %d: bad Salt_Applied %q", i+1, rec[2])
			return p
		}
		want := expected[i]
		if rec[0] != want.Watershed || rec[1] != want.Category || math.Abs(got-want.SaltApplied) > epsilon {
			p.errorf("row %d: got (%s, %s, %g), recomputed (%s, %s, %g)",
				i+1, rec[0], rec[1], got, want.Watershed, want.Category, want.SaltApplied)
			return p
		}

		if want.Category == domain.TotalCategory {
			if math.Abs(got-blockSum) > epsilon {
				p.errorf("row %d: Total Salt %g != category sum %g", i+1, got, blockSum)
				return p
			}
			blockSum = 0
		} else {
			blockSum += got
		}
	}
	return p
}

func checkSummaries(path string, expected []pipeline.CategorySummary) *phase {
	p := &phase{name: "category summary statistics"}

	records, err := readCSV(path)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	rows := records[1:]
	if len(rows) != len(expected) {
		p.errorf("row count: got %d, recomputed %d", len(rows), len(expected))
		return p
	}

	for i, rec := range rows {
		want := expected[i]
		if rec[0] != want.Watershed || rec[1] != want.Category {
			p.errorf("row %d: group (%s, %s), recomputed (%s, %s)", i+1, rec[0], rec[1], want.Watershed, want.Category)
			return p
		}
		stats := []struct {
			name string
			want float64
		}{
			{"Min", want.Min}, {"Q1", want.Q1}, {"Median", want.Median},
			{"Mean", want.Mean}, {"Q3", want.Q3}, {"Max", want.Max},
		}
		for j, s := range stats {
			got, err := strconv.ParseFloat(rec[j+2], 64)
			if err != nil || math.Abs(got-s.want) > epsilon {
				p.errorf("row %d (%s/%s): %s got %q, recomputed %g", i+1, rec[0], rec[1], s.name, rec[j+2], s.want)
				return p
			}
		}
	}
	return p
}

func checkRankings(path string, expected []pipeline.RankedSummary) *phase {
	p := &phase{name: "median-based category ranking"}

	records, err := readCSV(path)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	rows := records[1:]
	if len(rows) != len(expected) {
		p.errorf("row count: got %d, recomputed %d", len(rows), len(expected))
		return p
	}

	for i, rec := range rows {
		want := expected[i]
		if rec[0] != want.Watershed {
			p.errorf("row %d: watershed %q, recomputed %q", i+1, rec[0], want.Watershed)
			return p
		}
		if len(rec)-1 != len(want.Entries) {
			p.errorf("row %d: %d rank cells, recomputed %d", i+1, len(rec)-1, len(want.Entries))
			return p
		}
		for j, e := range want.Entries {
			if rec[j+1] != e.Cell() {
				p.errorf("row %d rank %s: cell %q, recomputed %q", i+1, e.Rank, rec[j+1], e.Cell())
				return p
			}
		}
	}
	return p
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s has no data rows", path)
	}
	return records, nil
}
