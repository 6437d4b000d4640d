package csvio

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/salt-sweep/internal/domain"
	"github.com/couchcryptid/salt-sweep/internal/pipeline"
)

const sampleCSV = `Watershed,Commercial,Industrial,Institutional,Residential,Road-Local,Road-ArterialCollector,Area
Alder Run,12000,3400,560,78000,9.5,4.25,14.2
Birch Brook,0,0,0,25000,12,0,8.7
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "landuse.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadLandUse(t *testing.T) {
	watersheds, areas, err := ReadLandUse(writeTemp(t, sampleCSV))
	require.NoError(t, err)
	require.Len(t, watersheds, 2)

	alder := watersheds[0]
	assert.Equal(t, "Alder Run", alder.Watershed)
	assert.Equal(t, 12000.0, alder.Values[domain.Commercial])
	assert.Equal(t, 9.5, alder.Values[domain.RoadLocal])
	assert.Equal(t, 4.25, alder.Values[domain.RoadArterial])
	require.NoError(t, alder.Validate())

	assert.Equal(t, domain.AreaLookup{"Alder Run": 14.2, "Birch Brook": 8.7}, areas)
}

func TestReadLandUse_AreaColumnOptional(t *testing.T) {
	csvData := strings.ReplaceAll(sampleCSV, ",Area", "")
	csvData = strings.ReplaceAll(csvData, ",14.2", "")
	csvData = strings.ReplaceAll(csvData, ",8.7", "")

	watersheds, areas, err := ReadLandUse(writeTemp(t, csvData))
	require.NoError(t, err)
	assert.Len(t, watersheds, 2)
	assert.Empty(t, areas)
}

func TestReadLandUse_ColumnOrderIrrelevant(t *testing.T) {
	reordered := `Road-Local,Watershed,Residential,Commercial,Industrial,Institutional,Road-ArterialCollector
3,Cedar Creek,100,200,300,400,5
`
	watersheds, _, err := ReadLandUse(writeTemp(t, reordered))
	require.NoError(t, err)
	require.Len(t, watersheds, 1)
	assert.Equal(t, 3.0, watersheds[0].Values[domain.RoadLocal])
	assert.Equal(t, 200.0, watersheds[0].Values[domain.Commercial])
}

func TestReadLandUse_SchemaErrors(t *testing.T) {
	t.Run("missing category column", func(t *testing.T) {
		missing := `Watershed,Commercial,Industrial,Institutional,Residential,Road-Local
A,1,2,3,4,5
`
		_, _, err := ReadLandUse(writeTemp(t, missing))
		require.ErrorIs(t, err, domain.ErrSchemaMismatch)
		assert.Contains(t, err.Error(), "Road-ArterialCollector")
	})

	t.Run("unknown column", func(t *testing.T) {
		unknown := `Watershed,Commercial,Industrial,Institutional,Residential,Road-Local,Road-ArterialCollector,Sidewalk
A,1,2,3,4,5,6,7
`
		_, _, err := ReadLandUse(writeTemp(t, unknown))
		require.ErrorIs(t, err, domain.ErrSchemaMismatch)
		assert.Contains(t, err.Error(), "Sidewalk")
	})

	t.Run("missing watershed column", func(t *testing.T) {
		noID := `Commercial,Industrial,Institutional,Residential,Road-Local,Road-ArterialCollector
1,2,3,4,5,6
`
		_, _, err := ReadLandUse(writeTemp(t, noID))
		require.ErrorIs(t, err, domain.ErrSchemaMismatch)
	})
}

func TestReadLandUse_BadValueFailsValidationNotParsing(t *testing.T) {
	bad := `Watershed,Commercial,Industrial,Institutional,Residential,Road-Local,Road-ArterialCollector
Murky Creek,lots,0,0,0,0,0
`
	watersheds, _, err := ReadLandUse(writeTemp(t, bad))
	require.NoError(t, err, "parse stays tolerant so failure lands at watershed granularity")
	require.Len(t, watersheds, 1)
	assert.True(t, math.IsNaN(watersheds[0].Values[domain.Commercial]))
	require.ErrorIs(t, watersheds[0].Validate(), domain.ErrInvalidInput)
}

func TestWriteLongTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.csv")
	rows := []pipeline.LongRow{
		{Watershed: "Alder Run", Category: "Commercial", SaltApplied: 42.5},
		{Watershed: "Alder Run", Category: domain.TotalCategory, SaltApplied: 42.5},
	}
	areas := domain.AreaLookup{"Alder Run": 14.2}

	require.NoError(t, WriteLongTable(path, rows, areas))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Watershed,Land_Use_Category,Salt_Applied,Watershed.Area", lines[0])
	assert.Equal(t, "Alder Run,Commercial,42.5,14.2", lines[1])
	assert.Equal(t, "Alder Run,Total Salt,42.5,14.2", lines[2])
}

func TestWriteLongTable_NoAreas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.csv")
	rows := []pipeline.LongRow{{Watershed: "A", Category: "Commercial", SaltApplied: 1}}

	require.NoError(t, WriteLongTable(path, rows, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Watershed,Land_Use_Category,Salt_Applied", strings.Split(strings.TrimSpace(string(data)), "\n")[0])
}

func TestWriteSummaries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	summaries := []pipeline.CategorySummary{
		{Watershed: "A", Category: "Commercial", Min: 1, Q1: 1.75, Median: 2.5, Mean: 2.5, Q3: 3.25, Max: 4},
	}

	require.NoError(t, WriteSummaries(path, summaries))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "Watershed,Land_Use_Category,Min,Q1,Median,Mean,Q3,Max", lines[0])
	assert.Equal(t, "A,Commercial,1,1.75,2.5,2.5,3.25,4", lines[1])
}

func TestWriteRankings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranking.csv")
	rankings := []pipeline.RankedSummary{
		{
			Watershed: "A",
			Entries: []pipeline.RankEntry{
				{Rank: "First", Category: "Commercial", Percent: 50},
				{Rank: "Second", Category: "Industrial", Percent: 30},
			},
		},
	}

	require.NoError(t, WriteRankings(path, rankings))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "Watershed,First,Second", lines[0])
	assert.Equal(t, "A,Commercial (50%),Industrial (30%)", lines[1])
}
