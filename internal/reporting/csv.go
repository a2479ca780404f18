package reporting

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"uc-timelapse/internal/domain"
)

// RenderCSV renders the chart matrix as CSV: one row per date, one column per
// ranked series in rank order.
func RenderCSV(chart *domain.Chart) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// Header
	header := make([]string, 0, len(chart.UniqueUCs)+1)
	header = append(header, domain.DateField)
	header = append(header, chart.UniqueUCs...)
	if err := w.Write(header); err != nil {
		return "", err
	}

	// Rows
	record := make([]string, len(header))
	for _, p := range chart.ChartData {
		record[0] = p.Date.String()
		for i, key := range chart.UniqueUCs {
			record[i+1] = formatValue(p.Value(key))
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
