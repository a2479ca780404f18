package reporting

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"uc-timelapse/internal/domain"
)

// HTML chart dimensions.
const (
	chartWidth  = "1200px"
	chartHeight = "600px"
)

// NewLineChart builds an interactive line chart with one series per ranked
// key and a data zoom slider over the date axis.
func NewLineChart(chart *domain.Chart, title string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("Top %d by total, %d-day trailing average", len(chart.UniqueUCs), domain.SmoothingWindow),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:  "slider",
			Start: 0,
			End:   100,
		}),
	)

	dates := chart.Dates()
	labels := make([]string, len(dates))
	for i, d := range dates {
		labels[i] = d.String()
	}
	line.SetXAxis(labels)

	for _, key := range chart.UniqueUCs {
		column := chart.Column(key)
		data := make([]opts.LineData, len(column))
		for i, v := range column {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(key, data)
	}

	return line
}

// RenderHTML writes a standalone HTML page with the chart.
func RenderHTML(w io.Writer, chart *domain.Chart, title string) error {
	if err := NewLineChart(chart, title).Render(w); err != nil {
		return fmt.Errorf("render html chart: %w", err)
	}
	return nil
}
