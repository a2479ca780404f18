package reporting

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uc-timelapse/internal/domain"
	"uc-timelapse/internal/pipeline"
)

func sampleChart() *domain.Chart {
	return &domain.Chart{
		ChartData: []domain.DataPoint{
			{Date: "2024-07-01", Values: map[domain.SeriesKey]float64{"Pay, Later": 1.5, "B": 2}},
			{Date: "2024-07-02", Values: map[domain.SeriesKey]float64{"Pay, Later": 3, "B": 0}},
			{Date: "2024-07-03", Values: map[domain.SeriesKey]float64{"Pay, Later": 2.25, "B": 1}},
		},
		UniqueUCs: []domain.SeriesKey{"Pay, Later", "B"},
	}
}

func TestRenderCSV(t *testing.T) {
	out, err := RenderCSV(sampleChart())
	require.NoError(t, err)

	want := "date,\"Pay, Later\",B\n" +
		"2024-07-01,1.5,2\n" +
		"2024-07-02,3,0\n" +
		"2024-07-03,2.25,1\n"
	assert.Equal(t, want, out)
}

func TestRenderCSV_Empty(t *testing.T) {
	out, err := RenderCSV(domain.EmptyChart())
	require.NoError(t, err)
	assert.Equal(t, "date\n", out)
}

func TestRenderMarkdown(t *testing.T) {
	result := &pipeline.Result{
		RunID:       "run-1",
		Chart:       sampleChart(),
		Axis:        domain.DateAxis{"2024-07-01", "2024-07-02", "2024-07-03"},
		GeneratedAt: time.Date(2024, time.July, 3, 12, 0, 0, 0, time.UTC),
		Source:      domain.SourceHTTP,
		RecordCount: 6,
		SeriesCount: 4,
		InputHash:   "0123456789abcdef0123",
	}
	md := RenderMarkdown(NewReport(result, 2))

	assert.Contains(t, md, "Generated: 2024-07-03T12:00:00Z")
	assert.Contains(t, md, "Run: `run-1` | Source: http | Top N: 2")
	assert.Contains(t, md, "| Series Discovered | 4 |")
	assert.Contains(t, md, "| Input Hash | `0123456789ab` |")
	assert.Contains(t, md, "| Axis Start | 2024-07-01 |")
	assert.Contains(t, md, "| 1 | Pay, Later | 2.25 | 3.00 | 2024-07-02 |")
	assert.Contains(t, md, "| 2 | B | 1.00 | 2.00 | 2024-07-01 |")
}

func TestRenderMarkdown_Empty(t *testing.T) {
	result := &pipeline.Result{RunID: "run-2", Chart: domain.EmptyChart()}
	md := RenderMarkdown(NewReport(result, 5))

	assert.Contains(t, md, "| Axis Start | - |")
	assert.Contains(t, md, "| Input Hash | `-` |")
	assert.Contains(t, md, "No series to display.")
}

func TestRenderHTML(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, RenderHTML(&sb, sampleChart(), "Usage"))

	html := sb.String()
	assert.Contains(t, html, "Usage")
	assert.Contains(t, html, "2024-07-02")
	assert.Contains(t, html, "Pay, Later")
}

func TestNewLineChart_SeriesPerKey(t *testing.T) {
	line := NewLineChart(sampleChart(), "Usage")
	assert.Len(t, line.MultiSeries, 2)
	assert.Equal(t, "Pay, Later", line.MultiSeries[0].Name)
}

func TestRenderASCII(t *testing.T) {
	out := RenderASCII(sampleChart(), 40, 8)

	assert.Contains(t, out, "2024-07-01 .. 2024-07-03")
	assert.Contains(t, out, " 1. Pay, Later")
	assert.Contains(t, out, " 2. B")
}

func TestRenderASCII_Empty(t *testing.T) {
	assert.Equal(t, "(no data)\n", RenderASCII(domain.EmptyChart(), 40, 8))
}
