package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/salt-sweep/internal/domain"
)

func TestQuantile_LinearInterpolation(t *testing.T) {
	tests := []struct {
		name     string
		sorted   []float64
		p        float64
		expected float64
	}{
		{"q1 of four", []float64{1, 2, 3, 4}, 0.25, 1.75},
		{"median of four", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"q3 of four", []float64{1, 2, 3, 4}, 0.75, 3.25},
		{"median of odd count", []float64{1, 2, 3}, 0.5, 2},
		{"q1 of three", []float64{1, 2, 3}, 0.25, 1.5},
		{"q3 of three", []float64{1, 2, 3}, 0.75, 2.5},
		{"min", []float64{1, 2, 3, 4}, 0, 1},
		{"max", []float64{1, 2, 3, 4}, 1, 4},
		{"single value", []float64{7}, 0.5, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, quantile(tt.sorted, tt.p), 1e-12)
		})
	}
}

// tableFor builds a one-watershed table from (commercial, industrial) pairs;
// the remaining categories stay zero.
func tableFor(name string, pairs [][2]float64) *ResultTable {
	rows := make([]domain.ScenarioResult, len(pairs))
	for i, p := range pairs {
		r := domain.ScenarioResult{Watershed: name}
		r.Salt[0] = p[0]
		r.Salt[1] = p[1]
		r.Total = p[0] + p[1]
		rows[i] = r
	}
	return &ResultTable{Rows: rows, Watersheds: []string{name}, ComboCount: len(pairs)}
}

func TestSummarize_Statistics(t *testing.T) {
	table := tableFor("Alder Run", [][2]float64{{1, 0}, {2, 0}, {3, 0}, {4, 0}})

	summaries := Summarize(table)
	require.Len(t, summaries, domain.NumCategories+1)

	commercial := summaries[0]
	assert.Equal(t, "Alder Run", commercial.Watershed)
	assert.Equal(t, string(domain.Commercial), commercial.Category)
	assert.Equal(t, 1.0, commercial.Min)
	assert.InDelta(t, 1.75, commercial.Q1, 1e-12)
	assert.InDelta(t, 2.5, commercial.Median, 1e-12)
	assert.InDelta(t, 2.5, commercial.Mean, 1e-12)
	assert.InDelta(t, 3.25, commercial.Q3, 1e-12)
	assert.Equal(t, 4.0, commercial.Max)

	total := summaries[domain.NumCategories]
	assert.Equal(t, domain.TotalCategory, total.Category)
	assert.InDelta(t, 2.5, total.Median, 1e-12)
}

func TestSummarize_TotalRecomputedFromRawRows(t *testing.T) {
	// Category medians sum to 15, but the median of the per-row totals is 10.
	// The Total Salt group must come from the raw totals.
	table := tableFor("Skew Creek", [][2]float64{{0, 10}, {5, 0}, {10, 10}})

	summaries := Summarize(table)

	var commercial, industrial, total CategorySummary
	for _, s := range summaries {
		switch s.Category {
		case string(domain.Commercial):
			commercial = s
		case string(domain.Industrial):
			industrial = s
		case domain.TotalCategory:
			total = s
		}
	}

	assert.InDelta(t, 5.0, commercial.Median, 1e-12)
	assert.InDelta(t, 10.0, industrial.Median, 1e-12)
	assert.InDelta(t, 10.0, total.Median, 1e-12)
	assert.NotEqual(t, commercial.Median+industrial.Median, total.Median)
}

func TestSummarize_GroupOrder(t *testing.T) {
	a := tableFor("A", [][2]float64{{1, 2}})
	b := tableFor("B", [][2]float64{{3, 4}})
	table := &ResultTable{
		Rows:       append(append([]domain.ScenarioResult{}, a.Rows...), b.Rows...),
		Watersheds: []string{"A", "B"},
		ComboCount: 1,
	}

	summaries := Summarize(table)
	require.Len(t, summaries, 2*(domain.NumCategories+1))

	assert.Equal(t, "A", summaries[0].Watershed)
	assert.Equal(t, domain.TotalCategory, summaries[domain.NumCategories].Category)
	assert.Equal(t, "B", summaries[domain.NumCategories+1].Watershed)
}

func summaryFor(watershed, category string, median float64) CategorySummary {
	return CategorySummary{Watershed: watershed, Category: category, Median: median}
}

func TestRankByMedian_OrdersByPercent(t *testing.T) {
	summaries := []CategorySummary{
		summaryFor("W", string(domain.Commercial), 50),
		summaryFor("W", string(domain.Industrial), 30),
		summaryFor("W", domain.TotalCategory, 100),
	}

	ranked, failures := RankByMedian(summaries)
	require.Empty(t, failures)
	require.Len(t, ranked, 1)
	require.Len(t, ranked[0].Entries, 2)

	first := ranked[0].Entries[0]
	assert.Equal(t, "First", first.Rank)
	assert.Equal(t, string(domain.Commercial), first.Category)
	assert.Equal(t, 50.0, first.Percent)
	assert.Equal(t, "Commercial (50%)", first.Cell())

	second := ranked[0].Entries[1]
	assert.Equal(t, "Second", second.Rank)
	assert.Equal(t, 30.0, second.Percent)
}

func TestRankByMedian_RoundsToTwoDecimals(t *testing.T) {
	summaries := []CategorySummary{
		summaryFor("W", string(domain.Commercial), 1),
		summaryFor("W", domain.TotalCategory, 3),
	}

	ranked, failures := RankByMedian(summaries)
	require.Empty(t, failures)
	assert.Equal(t, 33.33, ranked[0].Entries[0].Percent)
	assert.Equal(t, "Commercial (33.33%)", ranked[0].Entries[0].Cell())
}

func TestRankByMedian_ZeroTotalMedian(t *testing.T) {
	summaries := []CategorySummary{
		summaryFor("Dry Gulch", string(domain.Commercial), 0),
		summaryFor("Dry Gulch", domain.TotalCategory, 0),
		summaryFor("Wet Creek", string(domain.Commercial), 10),
		summaryFor("Wet Creek", domain.TotalCategory, 10),
	}

	ranked, failures := RankByMedian(summaries)

	require.Len(t, failures, 1)
	assert.Equal(t, "Dry Gulch", failures[0].Watershed)
	require.ErrorIs(t, failures[0].Err, domain.ErrZeroTotalMedian)

	// The healthy watershed still ranks.
	require.Len(t, ranked, 1)
	assert.Equal(t, "Wet Creek", ranked[0].Watershed)
	assert.Equal(t, 100.0, ranked[0].Entries[0].Percent)
}

func TestRankByMedian_AllSixLabels(t *testing.T) {
	medians := map[domain.Category]float64{
		domain.Commercial:    60,
		domain.Industrial:    50,
		domain.Institutional: 40,
		domain.Residential:   30,
		domain.RoadLocal:     20,
		domain.RoadArterial:  10,
	}
	summaries := make([]CategorySummary, 0, domain.NumCategories+1)
	for _, c := range domain.Categories() {
		summaries = append(summaries, summaryFor("W", string(c), medians[c]))
	}
	summaries = append(summaries, summaryFor("W", domain.TotalCategory, 210))

	ranked, failures := RankByMedian(summaries)
	require.Empty(t, failures)
	require.Len(t, ranked[0].Entries, 6)

	labels := make([]string, 6)
	for i, e := range ranked[0].Entries {
		labels[i] = e.Rank
	}
	assert.Equal(t, []string{"First", "Second", "Third", "Fourth", "Fifth", "Sixth"}, labels)
	assert.Equal(t, string(domain.Commercial), ranked[0].Entries[0].Category)
	assert.Equal(t, string(domain.RoadArterial), ranked[0].Entries[5].Category)
}

func TestOrdinal(t *testing.T) {
	assert.Equal(t, "First", ordinal(1))
	assert.Equal(t, "Sixth", ordinal(6))
	assert.Equal(t, "Rank 7", ordinal(7))
}
