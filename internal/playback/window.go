// Package playback drives the time-lapse view over an already computed chart.
//
// Nothing here re-runs aggregation: the player only moves a window over
// chart rows and filters which series are visible.
package playback

import "uc-timelapse/internal/domain"

// Window is a half-open row range [Start, End) into a chart's rows.
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FullWindow covers all n rows.
func FullWindow(n int) Window {
	return Window{Start: 0, End: n}.Clamp(n)
}

// Len returns the number of rows covered.
func (w Window) Len() int {
	if w.End <= w.Start {
		return 0
	}
	return w.End - w.Start
}

// Clamp bounds the window to n rows so that 0 <= Start <= End <= n.
func (w Window) Clamp(n int) Window {
	if n < 0 {
		n = 0
	}
	if w.Start < 0 {
		w.Start = 0
	}
	if w.Start > n {
		w.Start = n
	}
	if w.End > n {
		w.End = n
	}
	if w.End < w.Start {
		w.End = w.Start
	}
	return w
}

// Apply returns the chart rows covered by the window.
// The returned slice shares the chart's backing array.
func (w Window) Apply(chart *domain.Chart) []domain.DataPoint {
	w = w.Clamp(len(chart.ChartData))
	return chart.ChartData[w.Start:w.End]
}

// Advance extends the window by one row, up to n rows.
func (w Window) Advance(n int) Window {
	w.End++
	return w.Clamp(n)
}

// AtEnd reports whether the window already reaches row n.
func (w Window) AtEnd(n int) bool {
	return w.Clamp(n).End >= n
}
