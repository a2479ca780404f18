package reporting

import (
	"fmt"
	"strings"
	"time"

	"uc-timelapse/internal/idhash"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Use Case Time-Lapse Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: `%s` | Source: %s | Top N: %d\n\n", r.RunID, r.Source, r.TopN))

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Raw Records | %d |\n", r.RecordCount))
	sb.WriteString(fmt.Sprintf("| Input Hash | `%s` |\n", dash(idhash.ShortHash(r.InputHash))))
	sb.WriteString(fmt.Sprintf("| Series Discovered | %d |\n", r.SeriesDiscovered))
	sb.WriteString(fmt.Sprintf("| Series Displayed | %d |\n", len(r.Series)))
	sb.WriteString(fmt.Sprintf("| Axis Start | %s |\n", dash(r.AxisStart.String())))
	sb.WriteString(fmt.Sprintf("| Axis End | %s |\n", dash(r.AxisEnd.String())))
	sb.WriteString(fmt.Sprintf("| Rows | %d |\n", r.Rows))
	sb.WriteString("\n")

	// Series
	sb.WriteString("## Series\n\n")
	if len(r.Series) > 0 {
		sb.WriteString("Values are 14-day trailing averages.\n\n")
		sb.WriteString("| Rank | Series | Latest | Peak | Peak Date |\n")
		sb.WriteString("|------|--------|--------|------|-----------|\n")
		for _, s := range r.Series {
			sb.WriteString(fmt.Sprintf("| %d | %s | %.2f | %.2f | %s |\n",
				s.Rank, escapeCell(s.Name), s.Latest, s.Peak, dash(s.PeakDate.String())))
		}
	} else {
		sb.WriteString("No series to display.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
