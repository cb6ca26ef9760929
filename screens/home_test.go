package screens

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demo/database"
	"demo/sleep"
	"demo/stats"
)

type testDatabases struct {
	db *database.AppDatabase
}

func (d *testDatabases) Database() (*database.AppDatabase, error) { return d.db, nil }

type testContext struct{ dir string }

func (c testContext) DataDir() string      { return c.dir }
func (c testContext) Logger() *slog.Logger { return discardLogger() }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDatabases(t *testing.T) *testDatabases {
	t.Helper()
	db, err := database.SQLiteBuilder{InMemory: true}.Build(testContext{dir: t.TempDir()}, database.AppSchema, "test-database")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &testDatabases{db: db}
}

func newTestHomeScreen(t *testing.T) (*HomeScreen, *testDatabases) {
	t.Helper()
	a := test.NewApp()
	w := a.NewWindow("test")
	t.Cleanup(w.Close)

	analyzer, err := stats.Open(time.Local)
	require.NoError(t, err)
	t.Cleanup(func() { analyzer.Close() })

	dbs := newTestDatabases(t)
	h := InitHomeScreen(discardLogger(), dbs, analyzer, w)
	w.SetContent(h.Render())
	return h, dbs
}

func TestHomeScreen_RecordSelectsKey(t *testing.T) {
	h, dbs := newTestHomeScreen(t)
	ctx := t.Context()

	require.NoError(t, h.Record(ctx, "weight", "80.5"))
	require.NoError(t, h.Record(ctx, "mood", "happy"))

	keys, err := dbs.db.Items().Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"mood", "weight"}, keys)

	item, err := dbs.db.Items().LastItem(ctx, "mood")
	require.NoError(t, err)
	var mood string
	require.NoError(t, item.Decode(&mood))
	assert.Equal(t, "happy", mood)

	require.NoError(t, h.Select(ctx, "weight"))
	assert.Equal(t, "weight", h.selected)
	assert.Contains(t, h.homeChart.Summary(), "1 days")
}

func TestHomeScreen_Import(t *testing.T) {
	h, dbs := newTestHomeScreen(t)
	ctx := t.Context()

	today := time.Now().Format("20060102")
	n, err := h.Import(ctx, strings.NewReader("water;"+today+";3\nwater;"+today+";4\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, h.Select(ctx, "water"))
	assert.Contains(t, h.homeChart.Summary(), "average 4.0")

	all, err := dbs.db.Items().AllItems(ctx, "water")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestHomeScreen_LoadEmpty(t *testing.T) {
	h, _ := newTestHomeScreen(t)
	require.NoError(t, h.Load(t.Context()))

	for _, b := range h.beverages.Beverages() {
		assert.Zero(t, b.Quantity)
	}
}

func TestHomeScreen_ExportSelected(t *testing.T) {
	h, _ := newTestHomeScreen(t)
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "weight.parquet")

	assert.ErrorIs(t, h.Export(ctx, path), ErrNoSelection)

	require.NoError(t, h.Record(ctx, "weight", "80.5"))
	require.NoError(t, h.Export(ctx, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestHomeScreen_LoadListsRecentNights(t *testing.T) {
	h, dbs := newTestHomeScreen(t)
	ctx := t.Context()

	start := time.Now().Add(-30 * time.Hour).UTC()
	_, err := dbs.db.Sleeps().Save(ctx, sleep.Record{
		ID:    1,
		Start: start.Format(time.RFC3339),
		End:   start.Add(7 * time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)

	require.NoError(t, h.Load(ctx))
	assert.Len(t, h.sleepForm.Nights(), 1)
}
