package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// SmoothingWindow is the trailing moving average window applied to every series.
const SmoothingWindow = 14

// TopNChoices are the top-N values offered by the UI.
var TopNChoices = []int{5, 10, 15, 20}

// DateField is the JSON key carrying the row date in a flattened DataPoint.
const DateField = "date"

// ErrReservedSeriesName is returned when a series key collides with DateField
// in the flattened JSON row.
var ErrReservedSeriesName = errors.New("series name collides with date field")

// DataPoint is one row of the dense matrix: a date and one value per selected series.
type DataPoint struct {
	Date   CanonicalDate
	Values map[SeriesKey]float64
}

// Value returns the value of a series at this row, 0 if absent.
func (p DataPoint) Value(key SeriesKey) float64 {
	return p.Values[key]
}

// MarshalJSON encodes the row as {"date": ..., "<series>": n, ...}.
// Series keys are written in sorted order.
func (p DataPoint) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(p.Values))
	for k := range p.Values {
		if k == DateField {
			return nil, fmt.Errorf("%w: %q", ErrReservedSeriesName, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteString(`{"date":`)
	date, err := json.Marshal(string(p.Date))
	if err != nil {
		return nil, err
	}
	buf.Write(date)

	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.Values[k])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flattened row.
func (p *DataPoint) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	dateRaw, ok := raw[DateField]
	if !ok {
		return fmt.Errorf("data point: missing %q field", DateField)
	}
	var date string
	if err := json.Unmarshal(dateRaw, &date); err != nil {
		return fmt.Errorf("data point date: %w", err)
	}

	values := make(map[SeriesKey]float64, len(raw)-1)
	for k, v := range raw {
		if k == DateField {
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return fmt.Errorf("data point %s: %w", k, err)
		}
		values[k] = f
	}

	p.Date = CanonicalDate(date)
	p.Values = values
	return nil
}

// Chart is the pipeline output handed to the presentation layer.
type Chart struct {
	ChartData []DataPoint `json:"chartData"` // smoothed matrix, axis order
	UniqueUCs []SeriesKey `json:"uniqueUCs"` // ranked series, top-N
}

// EmptyChart returns a chart with no rows and no series.
// Slices are non-nil so the JSON form is [] rather than null.
func EmptyChart() *Chart {
	return &Chart{
		ChartData: []DataPoint{},
		UniqueUCs: []SeriesKey{},
	}
}

// IsEmpty reports whether the chart carries no rows and no series.
func (c *Chart) IsEmpty() bool {
	return c == nil || (len(c.ChartData) == 0 && len(c.UniqueUCs) == 0)
}

// Column returns the values of one series in axis order.
func (c *Chart) Column(key SeriesKey) []float64 {
	out := make([]float64, len(c.ChartData))
	for i, p := range c.ChartData {
		out[i] = p.Values[key]
	}
	return out
}

// Dates returns the row dates in axis order.
func (c *Chart) Dates() []CanonicalDate {
	out := make([]CanonicalDate, len(c.ChartData))
	for i, p := range c.ChartData {
		out[i] = p.Date
	}
	return out
}
