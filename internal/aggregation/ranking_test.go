package aggregation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"uc-timelapse/internal/domain"
	"uc-timelapse/internal/lookup"
)

func TestRankSeries_StableOnTotals(t *testing.T) {
	values := lookup.NewValueLookup()
	values.Set("A", "2024-07-01", 30)
	values.Set("B", "2024-07-01", 30)
	values.Set("C", "2024-07-01", 10)
	axis := domain.DateAxis{"2024-07-01"}

	got := RankSeries([]domain.SeriesKey{"A", "B", "C"}, values, axis, 2)
	assert.Equal(t, []domain.SeriesKey{"A", "B"}, got)
}

func TestRankSeries_NoSeries(t *testing.T) {
	got := RankSeries(nil, lookup.NewValueLookup(), domain.DateAxis{"2024-07-01"}, 5)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestComputeTotals_MissingReadsZero(t *testing.T) {
	values := lookup.NewValueLookup()
	values.Set("A", "2024-07-02", 4)
	axis := domain.DateAxis{"2024-07-01", "2024-07-02", "2024-07-03"}

	totals := ComputeTotals([]domain.SeriesKey{"A", "Z"}, values, axis)
	assert.Equal(t, []domain.SeriesTotal{{Key: "A", Total: 4}, {Key: "Z", Total: 0}}, totals)
}

func TestSortTotals_Descending(t *testing.T) {
	totals := []domain.SeriesTotal{
		{Key: "a", Total: 1},
		{Key: "b", Total: 3},
		{Key: "c", Total: 2},
		{Key: "d", Total: 3},
	}
	SortTotals(totals)

	keys := make([]domain.SeriesKey, len(totals))
	for i, st := range totals {
		keys[i] = st.Key
	}
	assert.Equal(t, []domain.SeriesKey{"b", "d", "c", "a"}, keys)
}
