package stats

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demo/database"
)

func openAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := Open(time.UTC)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func day(d, h int) time.Time {
	return time.Date(2024, time.May, d, h, 0, 0, 0, time.UTC)
}

func TestDaily(t *testing.T) {
	a := openAnalyzer(t)

	summaries, err := a.Daily(t.Context(), []Point{
		{Date: day(1, 8), Value: 2},
		{Date: day(1, 20), Value: 6},
		{Date: day(1, 12), Value: 1},
		{Date: day(3, 9), Value: 5},
	})
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	first := summaries[0]
	assert.True(t, first.Day.Equal(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 3, first.Count)
	assert.Equal(t, 1.0, first.Min)
	assert.Equal(t, 6.0, first.Max)
	assert.InDelta(t, 3.0, first.Avg, 1e-9)
	assert.Equal(t, 1.0, first.Last)

	assert.Equal(t, 1, summaries[1].Count)
	assert.Equal(t, 5.0, summaries[1].Last)
}

func TestDaily_Empty(t *testing.T) {
	a := openAnalyzer(t)

	summaries, err := a.Daily(t.Context(), nil)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestDaily_UsesLocation(t *testing.T) {
	a, err := Open(time.FixedZone("UTC+3", 3*3600))
	require.NoError(t, err)
	defer a.Close()

	// 22:00 UTC is already the next day at UTC+3
	summaries, err := a.Daily(t.Context(), []Point{{Date: day(1, 22), Value: 1}})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 2, summaries[0].Day.Day())
}

func TestExportParquet(t *testing.T) {
	a := openAnalyzer(t)
	path := filepath.Join(t.TempDir(), "water.parquet")

	require.NoError(t, a.ExportParquet(t.Context(), []Point{
		{Date: day(1, 8), Value: 2},
		{Date: day(2, 8), Value: 3},
	}, path))

	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	defer db.Close()

	var count int
	var total float64
	row := db.QueryRowContext(t.Context(), "SELECT count(*), sum(value) FROM read_parquet('"+path+"')")
	require.NoError(t, row.Scan(&count, &total))
	assert.Equal(t, 2, count)
	assert.Equal(t, 5.0, total)
}

func TestFromItems(t *testing.T) {
	items := []database.Item{
		{Date: day(1, 0), Value: json.RawMessage(`3.5`)},
		{Date: day(2, 0), Value: json.RawMessage(`"three"`)},
		{Date: day(3, 0), Value: json.RawMessage(`4`)},
	}

	points := FromItems(items)
	require.Len(t, points, 2)
	assert.Equal(t, 3.5, points[0].Value)
	assert.Equal(t, 4.0, points[1].Value)
	assert.Equal(t, day(3, 0), points[1].Date)
}
