package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uc-timelapse/internal/domain"
	"uc-timelapse/internal/normalization"
	"uc-timelapse/internal/source"
	"uc-timelapse/internal/storage/memory"
)

func fixedClock(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 15, 30, 0, 0, time.UTC) }
}

func TestRunner_Run(t *testing.T) {
	src := source.NewStaticSource([]domain.RawRecord{
		{SeriesName: "X", RawDate: "7/1/2024", Value: 5},
		{SeriesName: "X", RawDate: "7/2/2024", Value: 7},
		{SeriesName: "Y", RawDate: "7/2/2024", Value: 1},
	})
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	runner := NewRunner(src, DefaultCampaignStart).
		WithClock(fixedClock(2024, time.July, 3)).
		WithLogger(logger)

	result, err := runner.Run(context.Background(), 1)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, domain.DateAxis{"2024-07-01", "2024-07-02", "2024-07-03"}, result.Axis)
	assert.Equal(t, []domain.SeriesKey{"X"}, result.Chart.UniqueUCs)
	assert.Equal(t, []float64{5, 7, 0}, result.Chart.Column("X"))
	assert.Equal(t, 3, result.RecordCount)
	assert.Equal(t, 2, result.SeriesCount)
	assert.Equal(t, domain.SourceMemory, result.Source)
	assert.Len(t, result.InputHash, 64)
	assert.Equal(t, time.Date(2024, time.July, 3, 15, 30, 0, 0, time.UTC), result.GeneratedAt)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, result.RunID, entry.Data["run_id"])
	assert.Equal(t, 3, entry.Data["rows"])
}

func TestRunner_RunIDsDiffer(t *testing.T) {
	runner := NewRunner(source.NewStaticSource(nil), DefaultCampaignStart).
		WithClock(fixedClock(2024, time.July, 1))

	a, err := runner.Run(context.Background(), 5)
	require.NoError(t, err)
	b, err := runner.Run(context.Background(), 5)
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.InputHash, b.InputHash)
	assert.True(t, a.Chart.IsEmpty())
}

func TestRunner_ClockBeforeStart(t *testing.T) {
	src := source.NewStaticSource([]domain.RawRecord{{SeriesName: "X", RawDate: "7/1/2024", Value: 5}})
	runner := NewRunner(src, DefaultCampaignStart).WithClock(fixedClock(2024, time.June, 1))

	result, err := runner.Run(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, result.Axis)
	assert.Empty(t, result.Chart.ChartData)
	assert.Equal(t, []domain.SeriesKey{"X"}, result.Chart.UniqueUCs)
}

func TestRunner_ParseError(t *testing.T) {
	src := source.NewStaticSource([]domain.RawRecord{{SeriesName: "X", RawDate: "2024-07-01", Value: 5}})
	runner := NewRunner(src, DefaultCampaignStart).WithClock(fixedClock(2024, time.July, 3))

	result, err := runner.Run(context.Background(), 5)
	assert.Nil(t, result)

	var pe *normalization.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "2024-07-01", pe.Raw)
}

type brokenSource struct{}

func (brokenSource) Records(context.Context) ([]domain.RawRecord, error) {
	return nil, &source.FetchError{Kind: domain.SourceHTTP, Location: "http://x", StatusCode: 500, Err: errors.New("boom")}
}

func (brokenSource) Kind() domain.SourceKind { return domain.SourceHTTP }

func TestRunner_FetchError(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	runner := NewRunner(brokenSource{}, DefaultCampaignStart).WithLogger(logger)

	_, err := runner.Run(context.Background(), 5)

	var fe *source.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 500, fe.StatusCode)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestFixtures(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRecordStore()
	require.NoError(t, LoadFixtures(ctx, store, DefaultCampaignStart))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(FixtureRecords(DefaultCampaignStart)), count)

	series, err := store.ListSeries(ctx)
	require.NoError(t, err)
	assert.Len(t, series, len(fixtureSeries))

	runner := NewRunner(source.NewStoreSource(store, domain.SourceMemory), DefaultCampaignStart).
		WithClock(fixedClock(2024, time.August, 29))

	result, err := runner.Run(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, result.Axis, FixtureDays)
	assert.Len(t, result.Chart.UniqueUCs, 5)
	assert.Equal(t, "Payments", result.Chart.UniqueUCs[0])
}

func TestFixtureRecords_Deterministic(t *testing.T) {
	assert.Equal(t, FixtureRecords(DefaultCampaignStart), FixtureRecords(DefaultCampaignStart))

	for _, r := range FixtureRecords(DefaultCampaignStart) {
		_, err := normalization.NormalizeDate(r.RawDate)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, r.Value, 0.0)
	}
}
