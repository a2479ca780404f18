package reporting

import (
	"time"

	"uc-timelapse/internal/domain"
	"uc-timelapse/internal/pipeline"
)

// Report represents one rendered pipeline run.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string
	TopN        int
	Source      domain.SourceKind
	InputHash   string

	// Data Summary
	AxisStart        domain.CanonicalDate // "" if the axis is empty
	AxisEnd          domain.CanonicalDate
	Rows             int
	RecordCount      int
	SeriesDiscovered int

	// Displayed series, ranked order
	Series []SeriesRow

	Chart *domain.Chart
}

// SeriesRow summarizes one displayed series from its smoothed column.
type SeriesRow struct {
	Rank     int
	Name     domain.SeriesKey
	Latest   float64              // value on the last axis date
	Peak     float64              // highest smoothed value
	PeakDate domain.CanonicalDate // first date the peak is reached
}

// NewReport builds a report from a pipeline result.
func NewReport(result *pipeline.Result, topN int) *Report {
	chart := result.Chart
	if chart == nil {
		chart = domain.EmptyChart()
	}

	r := &Report{
		GeneratedAt:      result.GeneratedAt,
		RunID:            result.RunID,
		TopN:             topN,
		Source:           result.Source,
		InputHash:        result.InputHash,
		AxisStart:        result.Axis.First(),
		AxisEnd:          result.Axis.Last(),
		Rows:             len(chart.ChartData),
		RecordCount:      result.RecordCount,
		SeriesDiscovered: result.SeriesCount,
		Series:           make([]SeriesRow, 0, len(chart.UniqueUCs)),
		Chart:            chart,
	}

	for i, key := range chart.UniqueUCs {
		r.Series = append(r.Series, summarizeSeries(i+1, key, chart))
	}

	return r
}

func summarizeSeries(rank int, key domain.SeriesKey, chart *domain.Chart) SeriesRow {
	row := SeriesRow{Rank: rank, Name: key}
	for i, p := range chart.ChartData {
		v := p.Value(key)
		if i == 0 || v > row.Peak {
			row.Peak = v
			row.PeakDate = p.Date
		}
		row.Latest = v
	}
	return row
}
