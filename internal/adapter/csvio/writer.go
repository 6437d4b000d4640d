package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/couchcryptid/salt-sweep/internal/domain"
	"github.com/couchcryptid/salt-sweep/internal/pipeline"
)

// WriteLongTable writes the melted result table. When areas is non-empty a
// Watershed.Area column is appended for watersheds present in the lookup;
// the core columns never depend on it.
func WriteLongTable(path string, rows []pipeline.LongRow, areas domain.AreaLookup) error {
	header := []string{"Watershed", "Land_Use_Category", "Salt_Applied"}
	withArea := len(areas) > 0
	if withArea {
		header = append(header, "Watershed.Area")
	}

	return writeCSV(path, header, len(rows), func(i int) []string {
		r := rows[i]
		rec := []string{r.Watershed, r.Category, formatFloat(r.SaltApplied)}
		if withArea {
			rec = append(rec, formatFloat(areas[r.Watershed]))
		}
		return rec
	})
}

// WriteSummaries writes one row per (watershed, category) group.
func WriteSummaries(path string, summaries []pipeline.CategorySummary) error {
	header := []string{"Watershed", "Land_Use_Category", "Min", "Q1", "Median", "Mean", "Q3", "Max"}

	return writeCSV(path, header, len(summaries), func(i int) []string {
		s := summaries[i]
		return []string{
			s.Watershed,
			s.Category,
			formatFloat(s.Min),
			formatFloat(s.Q1),
			formatFloat(s.Median),
			formatFloat(s.Mean),
			formatFloat(s.Q3),
			formatFloat(s.Max),
		}
	})
}

// WriteRankings writes one row per watershed with a column per rank position,
// each cell "<Category> (<Percent>%)". Column count follows the widest
// ranking (six categories in the reference configuration).
func WriteRankings(path string, rankings []pipeline.RankedSummary) error {
	width := 0
	for _, r := range rankings {
		if len(r.Entries) > width {
			width = len(r.Entries)
		}
	}

	header := make([]string, 0, width+1)
	header = append(header, "Watershed")
	for i := 0; i < width; i++ {
		header = append(header, rankLabel(i+1))
	}

	return writeCSV(path, header, len(rankings), func(i int) []string {
		r := rankings[i]
		rec := make([]string, 0, width+1)
		rec = append(rec, r.Watershed)
		for _, e := range r.Entries {
			rec = append(rec, e.Cell())
		}
		for j := len(r.Entries); j < width; j++ {
			rec = append(rec, "")
		}
		return rec
	})
}

// rankLabel mirrors the pipeline's ordinal labels for the header row.
func rankLabel(n int) string {
	labels := [...]string{"First", "Second", "Third", "Fourth", "Fifth", "Sixth"}
	if n >= 1 && n <= len(labels) {
		return labels[n-1]
	}
	return fmt.Sprintf("Rank %d", n)
}

func writeCSV(path string, header []string, n int, record func(i int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(record(i)); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
