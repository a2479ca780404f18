package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataPoint_MarshalFlat(t *testing.T) {
	p := DataPoint{
		Date:   "2024-07-01",
		Values: map[SeriesKey]float64{"X": 5, "A": 1.5},
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-07-01","A":1.5,"X":5}`, string(data))
	// keys after date are sorted
	assert.Equal(t, `{"date":"2024-07-01","A":1.5,"X":5}`, string(data))
}

func TestDataPoint_MarshalZeroValuesKept(t *testing.T) {
	p := DataPoint{Date: "2024-07-02", Values: map[SeriesKey]float64{"X": 0}}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-07-02","X":0}`, string(data))
}

func TestDataPoint_MarshalReservedName(t *testing.T) {
	p := DataPoint{Date: "2024-07-02", Values: map[SeriesKey]float64{"date": 1}}

	_, err := json.Marshal(p)
	assert.ErrorIs(t, err, ErrReservedSeriesName)
}

func TestDataPoint_UnmarshalFlat(t *testing.T) {
	var p DataPoint
	err := json.Unmarshal([]byte(`{"date":"2024-07-01","X":5,"Y":0.25}`), &p)
	require.NoError(t, err)

	assert.Equal(t, CanonicalDate("2024-07-01"), p.Date)
	assert.Equal(t, map[SeriesKey]float64{"X": 5, "Y": 0.25}, p.Values)
}

func TestDataPoint_UnmarshalMissingDate(t *testing.T) {
	var p DataPoint
	err := json.Unmarshal([]byte(`{"X":5}`), &p)
	assert.Error(t, err)
}

func TestChart_EmptyEncodesArrays(t *testing.T) {
	data, err := json.Marshal(EmptyChart())
	require.NoError(t, err)
	assert.JSONEq(t, `{"chartData":[],"uniqueUCs":[]}`, string(data))
	assert.True(t, EmptyChart().IsEmpty())
}

func TestChart_ColumnAndDates(t *testing.T) {
	c := &Chart{
		ChartData: []DataPoint{
			{Date: "2024-07-01", Values: map[SeriesKey]float64{"X": 5}},
			{Date: "2024-07-02", Values: map[SeriesKey]float64{"X": 7}},
		},
		UniqueUCs: []SeriesKey{"X"},
	}

	assert.Equal(t, []float64{5, 7}, c.Column("X"))
	assert.Equal(t, []float64{0, 0}, c.Column("missing"))
	assert.Equal(t, []CanonicalDate{"2024-07-01", "2024-07-02"}, c.Dates())
}

func TestSourceKind_IsValid(t *testing.T) {
	assert.True(t, SourcePostgres.IsValid())
	assert.True(t, SourceHTTP.IsValid())
	assert.False(t, SourceKind("kafka").IsValid())
}

func TestDateAxis_Bounds(t *testing.T) {
	var empty DateAxis
	assert.Equal(t, CanonicalDate(""), empty.First())
	assert.Equal(t, CanonicalDate(""), empty.Last())

	axis := DateAxis{"2024-07-01", "2024-07-02"}
	assert.Equal(t, CanonicalDate("2024-07-01"), axis.First())
	assert.Equal(t, CanonicalDate("2024-07-02"), axis.Last())
	assert.True(t, axis[0].Before(axis[1]))
}
