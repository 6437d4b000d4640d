package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/salt-sweep/internal/domain"
)

// CategorySummary holds the distribution of one category's salt mass across
// every scenario of one watershed. Computed once from the result table,
// read-only afterward.
type CategorySummary struct {
	Watershed string
	Category  string
	Min       float64
	Q1        float64
	Median    float64
	Mean      float64
	Q3        float64
	Max       float64
}

// RankEntry is one category's position in a watershed's median ranking.
type RankEntry struct {
	Rank     string
	Category string
	Percent  float64
}

// Cell renders the entry as "<Category> (<Percent>%)".
func (e RankEntry) Cell() string {
	return fmt.Sprintf("%s (%s%%)", e.Category, strconv.FormatFloat(e.Percent, 'f', -1, 64))
}

// RankedSummary orders one watershed's categories by their share of the
// total-salt median, descending.
type RankedSummary struct {
	Watershed string
	Entries   []RankEntry
}

// RankingFailure records a watershed whose ranking is undefined.
type RankingFailure struct {
	Watershed string
	Err       error
}

// Summarize groups the table by (watershed, category) and reduces each group
// to Min/Q1/Median/Mean/Q3/Max. The synthetic Total Salt group is reduced
// from the per-row totals, not assembled from the other categories'
// statistics: quantiles are not linear, so the total's median is generally
// not the sum of the category medians.
//
// Output order: watersheds in table order, categories in canonical order with
// Total Salt last.
func Summarize(t *ResultTable) []CategorySummary {
	byWatershed := make(map[string][]domain.ScenarioResult, len(t.Watersheds))
	for _, r := range t.Rows {
		byWatershed[r.Watershed] = append(byWatershed[r.Watershed], r)
	}

	summaries := make([]CategorySummary, 0, len(t.Watersheds)*(domain.NumCategories+1))
	for _, name := range t.Watersheds {
		rows := byWatershed[name]
		values := make([]float64, len(rows))

		for i, c := range domain.Categories() {
			for j, r := range rows {
				values[j] = r.Salt[i]
			}
			summaries = append(summaries, reduce(name, string(c), values))
		}

		for j, r := range rows {
			values[j] = r.Total
		}
		summaries = append(summaries, reduce(name, domain.TotalCategory, values))
	}
	return summaries
}

// reduce computes the six summary statistics over one group's values.
func reduce(watershed, category string, values []float64) CategorySummary {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return CategorySummary{
		Watershed: watershed,
		Category:  category,
		Min:       sorted[0],
		Q1:        quantile(sorted, 0.25),
		Median:    quantile(sorted, 0.5),
		Mean:      stat.Mean(values, nil),
		Q3:        quantile(sorted, 0.75),
		Max:       sorted[len(sorted)-1],
	}
}

// quantile estimates the p-quantile of sorted values by linear interpolation
// between order statistics (the R-7 estimator, the default in most tabular
// libraries). gonum's stat.Quantile offers only the empirical and R-4
// cumulant kinds, so the estimator is computed directly.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// RankByMedian orders each watershed's non-Total categories by their
// percentage of the watershed's Total Salt median, descending, labelled
// First through Sixth ("Rank N" past six). Percentages are rounded to two
// decimals before ordering so that reported ties rank deterministically by
// canonical category order.
//
// A watershed with a zero Total Salt median has no defined ranking; it is
// returned as a RankingFailure rather than coerced to NaN, and the remaining
// watersheds still rank.
func RankByMedian(summaries []CategorySummary) ([]RankedSummary, []RankingFailure) {
	type group struct {
		total   float64
		entries []RankEntry
	}
	order := make([]string, 0)
	groups := make(map[string]*group)

	for _, s := range summaries {
		g, ok := groups[s.Watershed]
		if !ok {
			g = &group{}
			groups[s.Watershed] = g
			order = append(order, s.Watershed)
		}
		if s.Category == domain.TotalCategory {
			g.total = s.Median
			continue
		}
		g.entries = append(g.entries, RankEntry{Category: s.Category, Percent: s.Median})
	}

	ranked := make([]RankedSummary, 0, len(order))
	var failures []RankingFailure

	for _, name := range order {
		g := groups[name]
		if g.total == 0 {
			failures = append(failures, RankingFailure{
				Watershed: name,
				Err:       fmt.Errorf("watershed %q: %w", name, domain.ErrZeroTotalMedian),
			})
			continue
		}

		entries := make([]RankEntry, len(g.entries))
		for i, e := range g.entries {
			e.Percent = round2(100 * e.Percent / g.total)
			entries[i] = e
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Percent > entries[j].Percent
		})
		for i := range entries {
			entries[i].Rank = ordinal(i + 1)
		}

		ranked = append(ranked, RankedSummary{Watershed: name, Entries: entries})
	}

	return ranked, failures
}

var ordinals = [...]string{"First", "Second", "Third", "Fourth", "Fifth", "Sixth"}

// ordinal returns the rank label for 1-based position n.
func ordinal(n int) string {
	if n >= 1 && n <= len(ordinals) {
		return ordinals[n-1]
	}
	return fmt.Sprintf("Rank %d", n)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
