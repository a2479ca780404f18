package reporting

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"uc-timelapse/internal/domain"
)

// RenderASCII plots every ranked series on one terminal chart.
// width and height are in character cells; 0 lets asciigraph pick.
func RenderASCII(chart *domain.Chart, width, height int) string {
	if len(chart.ChartData) == 0 || len(chart.UniqueUCs) == 0 {
		return "(no data)\n"
	}

	columns := make([][]float64, len(chart.UniqueUCs))
	for i, key := range chart.UniqueUCs {
		columns[i] = chart.Column(key)
	}

	options := []asciigraph.Option{
		asciigraph.Caption(fmt.Sprintf("%s .. %s", chart.ChartData[0].Date, chart.ChartData[len(chart.ChartData)-1].Date)),
	}
	if width > 0 {
		options = append(options, asciigraph.Width(width))
	}
	if height > 0 {
		options = append(options, asciigraph.Height(height))
	}

	var sb strings.Builder
	sb.WriteString(asciigraph.PlotMany(columns, options...))
	sb.WriteString("\n\n")
	for i, key := range chart.UniqueUCs {
		sb.WriteString(fmt.Sprintf("%2d. %s\n", i+1, key))
	}
	return sb.String()
}
