package screens

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"demo/database"
)

var sleepNow = time.Date(2016, time.November, 5, 12, 0, 0, 0, time.UTC)

func newTestSleepForm(dbs *testDatabases) *SleepForm {
	f := InitSleepForm(discardLogger(), dbs, nil)
	f.now = func() time.Time { return sleepNow }
	return f
}

func TestSleepForm_SubmitValid(t *testing.T) {
	test.NewApp()
	dbs := newTestDatabases(t)
	ctx := t.Context()

	f := newTestSleepForm(dbs)
	f.start.SetText("2016-11-01T23:00:00-05:00")
	f.end.SetText("2016-11-02T07:05:00-05:00")
	f.interruptions.SetText("1")

	errs, err := f.Submit(ctx)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "Saved: 8h5m0s", f.status.Text)

	saved, err := dbs.db.Sleeps().List(ctx,
		time.Date(2016, time.November, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2016, time.November, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, 1, saved[0].Interruptions)
}

func TestSleepForm_SubmitInvalid(t *testing.T) {
	test.NewApp()
	dbs := newTestDatabases(t)

	f := newTestSleepForm(dbs)
	f.start.SetText("2016-1-01T23:00:00-05:00")
	f.end.SetText("2016-11-02T07:05:00-05:00")
	f.interruptions.SetText("twice")

	errs, err := f.Submit(t.Context())
	require.NoError(t, err)
	require.Len(t, errs, 2)
	assert.Equal(t, ".start", errs[0].DataPath)
	assert.Equal(t, ".numberOfInteruptions", errs[1].DataPath)
	assert.Contains(t, f.status.Text, ".start")
}

func TestSleepForm_RecordIDsContinueAcrossForms(t *testing.T) {
	test.NewApp()
	dbs := newTestDatabases(t)
	ctx := t.Context()

	first := newTestSleepForm(dbs)
	first.start.SetText("2016-11-01T23:00:00Z")
	first.end.SetText("2016-11-02T07:00:00Z")
	_, err := first.Submit(ctx)
	require.NoError(t, err)

	// a later launch builds a new form on the same database
	second := newTestSleepForm(dbs)
	second.start.SetText("2016-11-02T23:00:00Z")
	second.end.SetText("2016-11-03T06:00:00Z")
	_, err = second.Submit(ctx)
	require.NoError(t, err)

	nights := second.Nights()
	require.Len(t, nights, 2)
	assert.Equal(t, 2, nights[0].RecordID)
	assert.Equal(t, 1, nights[1].RecordID)
}

func TestSleepForm_RecentNightsAndDelete(t *testing.T) {
	test.NewApp()
	dbs := newTestDatabases(t)
	ctx := t.Context()

	f := newTestSleepForm(dbs)
	f.Render(nil)
	for _, night := range [][2]string{
		{"2016-10-01T23:00:00Z", "2016-10-02T07:00:00Z"},
		{"2016-11-01T23:00:00Z", "2016-11-02T07:00:00Z"},
		{"2016-11-03T22:00:00Z", "2016-11-04T05:30:00Z"},
	} {
		f.start.SetText(night[0])
		f.end.SetText(night[1])
		errs, err := f.Submit(ctx)
		require.NoError(t, err)
		require.Empty(t, errs)
	}

	nights := f.Nights()
	require.Len(t, nights, 2, "the October night is older than the listed window")
	assert.Equal(t, 7*time.Hour+30*time.Minute, nights[0].Duration())
	assert.Equal(t, 8*time.Hour, nights[1].Duration())
	assert.Equal(t, 2, f.list.Length())

	require.NoError(t, f.Delete(ctx, 0))
	require.Len(t, f.Nights(), 1)
	assert.Equal(t, 8*time.Hour, f.Nights()[0].Duration())

	_, err := dbs.db.Sleeps().Get(ctx, nights[0].ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.ErrorIs(t, f.Delete(ctx, 5), database.ErrNotFound)

	again := newTestSleepForm(dbs)
	require.NoError(t, again.Reload(ctx))
	assert.Len(t, again.Nights(), 1)
}
